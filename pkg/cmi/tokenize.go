package cmi

import (
	"regexp"
	"strings"
)

var nonAlpha = regexp.MustCompile(`[^a-zA-Z]+`)

// Tokens splits text on whitespace. Its length is the n of the CMI formula.
func Tokens(text string) []string {
	return strings.Fields(text)
}

// LexicalTokens lowercases each whitespace token and keeps only its Roman
// letters. Tokens left empty (numbers, punctuation, Devanagari) are dropped.
func LexicalTokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		tok = nonAlpha.ReplaceAllString(strings.ToLower(tok), "")
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
