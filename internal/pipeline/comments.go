package pipeline

import (
	"regexp"
	"strings"
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// StripSQLComments removes -- comments and replaces each /* */ comment with a
// single space. Text inside '...' and "..." literals (with doubled quote
// escapes) is kept as is. Lines that held only a comment are dropped.
func StripSQLComments(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	rs := []rune(s)

	var (
		b        strings.Builder
		lines    []string
		stripped []bool
		had      bool
	)
	flush := func() {
		lines = append(lines, b.String())
		stripped = append(stripped, had)
		b.Reset()
		had = false
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\n':
			flush()
		case r == '\'' || r == '"':
			b.WriteRune(r)
			for i++; i < len(rs); i++ {
				b.WriteRune(rs[i])
				if rs[i] != r {
					continue
				}
				if i+1 < len(rs) && rs[i+1] == r {
					i++
					b.WriteRune(r)
					continue
				}
				break
			}
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i+1 < len(rs) && rs[i+1] != '\n' {
				i++
			}
			had = true
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			j := i + 2
			for j+1 < len(rs) && !(rs[j] == '*' && rs[j+1] == '/') {
				j++
			}
			if j+1 >= len(rs) {
				i = len(rs)
			} else {
				i = j + 1
			}
			b.WriteByte(' ')
			had = true
		default:
			b.WriteRune(r)
		}
	}
	flush()

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if stripped[i] && strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(kept, "\n"), "\n\n"))
}
