// Package extract turns input sources into clean text ready for tagging.
// It handles plain-text and HTML files, remote URLs, and the normalization
// both need before the text reaches the tagging service.
package extract

import "strings"

// Document is extracted source text with a display title.
type Document struct {
	Title string
	Text  string
}

// NormalizeText prepares raw text for tagging: line endings are unified to
// LF and soft hyphenation at line breaks is joined back together, so a word
// split across lines tags as one token.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "-\n", "")
	return text
}
