package webvtt

import "strings"

// NormalizeText collapses every whitespace run (newlines included) into a
// single space and trims both ends. Invalid UTF-8 is replaced with U+FFFD so
// the rendered document is always valid UTF-8.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToValidUTF8(text, "\uFFFD")), " ")
}
