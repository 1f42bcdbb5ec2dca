package refine

import (
	"regexp"
	"strings"
	"unicode"
)

// A "-" or "•" marker needs no space after it. "*" does, so **bold** lines and
// --- rules are not bullets.
var bulletLine = regexp.MustCompile(`^(?:[-•]\s*|\*\s+|\d+[.)]\s+)([^-*\s].*)$`)

// Extract reshapes text locally: the first non-bullet line becomes the
// summary and the first contiguous run of bullets is kept, normalized to
// "- ". Without any bullet, the remaining text is split into sentences and
// each sentence becomes a bullet.
func Extract(text string) string {
	var (
		summary string
		bullets []string
		rest    []string
		stopped bool
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := bulletLine.FindStringSubmatch(line); m != nil {
			if !stopped {
				bullets = append(bullets, "- "+strings.TrimSpace(m[1]))
			}
			continue
		}
		switch {
		case summary == "":
			summary = line
			if len(bullets) > 0 {
				stopped = true
			}
		case len(bullets) > 0:
			stopped = true
		default:
			rest = append(rest, line)
		}
	}

	if len(bullets) == 0 {
		if len(rest) == 0 {
			if parts := splitSentences(summary); len(parts) > 1 {
				summary, rest = parts[0], parts[1:]
			}
		}
		for _, s := range splitSentences(strings.Join(rest, " ")) {
			bullets = append(bullets, "- "+s)
		}
	}

	lines := make([]string, 0, len(bullets)+1)
	if summary != "" {
		lines = append(lines, summary)
	}
	lines = append(lines, bullets...)
	return strings.Join(lines, "\n")
}

// HasBullets reports whether any line of text is a "- " bullet.
func HasBullets(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			return true
		}
	}
	return false
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var (
		out   []string
		start int
	)
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(".!?", runes[i]) {
			continue
		}
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
