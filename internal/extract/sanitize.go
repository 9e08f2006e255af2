package extract

import (
	"strings"
	"unicode/utf8"
)

// Sanitize re-encodes text to valid UTF-8, dropping invalid byte
// sequences, then removes control characters below 0x20 except newline,
// carriage return and tab. Applied to all user-supplied or extracted text
// before it is embedded in a prompt or returned to a client.
func Sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.Map(func(r rune) rune {
		if r >= 0x20 || r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		return -1
	}, s)
}

// CollapseWhitespace squeezes runs of whitespace into single spaces.
// Extracted PDF text is full of layout artifacts that waste prompt budget.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
