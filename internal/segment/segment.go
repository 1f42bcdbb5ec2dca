// Package segment splits extracted document text into numbered questions.
package segment

import (
	"regexp"
	"strings"
)

// numbered matches a line that opens a question: "12. ..." or "3) ...".
var numbered = regexp.MustCompile(`^\s*\d+\s*[.)]`)

// Split returns the question texts found in text, in document order.
//
// A numbered line starts a new question and keeps its numbering. Every later
// non-blank line up to the next numbered line is folded into the current
// question with a single space. Text before the first numbered line is
// dropped. A document without numbered lines yields an empty slice.
func Split(text string) []string {
	var (
		questions []string
		current   strings.Builder
		open      bool
	)

	flush := func() {
		if open {
			questions = append(questions, current.String())
			current.Reset()
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}
		if numbered.MatchString(line) {
			flush()
			current.WriteString(line)
			open = true
			continue
		}
		if !open {
			continue
		}
		current.WriteByte(' ')
		current.WriteString(line)
	}
	flush()

	return questions
}

// Numbering returns the leading numbering token of a question ("12." or
// "3)"), or "" when the text is not numbered.
func Numbering(question string) string {
	loc := numbered.FindStringIndex(question)
	if loc == nil {
		return ""
	}
	return strings.Join(strings.Fields(question[loc[0]:loc[1]]), "")
}
