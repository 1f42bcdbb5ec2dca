// Package grading compares a submitted query with the reference answer.
//
// The comparison is structural: both sides are normalized and compared as
// strings. Queries are never parsed or executed, so two queries that differ
// only in string literal quoting compare equal.
package grading

import (
	"regexp"
	"strings"
	"unicode"
)

var codeBlock = regexp.MustCompile("(?i)```(?:sql)?[ \t]*\r?\n([\\s\\S]*?)```")

// Normalize removes whitespace (including non-breaking spaces), semicolons and
// quote characters, then lowercases the rest.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '\u200b', r == '\ufeff':
			continue
		case r == ';', r == '\'', r == '"', r == '`':
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// IsMatch reports whether the two texts have identical normalized forms.
func IsMatch(userText, referenceText string) bool {
	return Normalize(userText) == Normalize(referenceText)
}

// ExtractFirstCodeBlock splits a markdown answer into its first fenced code
// block and the surrounding prose. When there is no fenced block, code is
// empty and explanation is the whole input.
func ExtractFirstCodeBlock(markdown string) (code, explanation string) {
	loc := codeBlock.FindStringSubmatchIndex(markdown)
	if loc == nil {
		return "", markdown
	}
	code = strings.TrimSpace(markdown[loc[2]:loc[3]])
	before := strings.TrimSpace(markdown[:loc[0]])
	after := strings.TrimSpace(markdown[loc[1]:])

	var parts []string
	for _, p := range []string{before, after} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return code, strings.Join(parts, "\n\n")
}

// ReferenceSQL picks the part of a stored AI answer that submissions are
// graded against: the first code block, or the whole answer if it has none.
func ReferenceSQL(aiAnswer string) string {
	if code, _ := ExtractFirstCodeBlock(aiAnswer); code != "" {
		return code
	}
	return strings.TrimSpace(aiAnswer)
}
