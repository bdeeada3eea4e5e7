package cmi

import (
	"github.com/pemistahl/lingua-go"
)

const (
	LangEnglish = "en"
	LangHindi   = "hi"
)

// Identifier returns the language code of a single lexical token.
type Identifier interface {
	Identify(token string) string
}

// IdentifierFunc adapts a plain function to Identifier.
type IdentifierFunc func(token string) string

func (f IdentifierFunc) Identify(token string) string { return f(token) }

// LinguaIdentifier labels tokens with lingua's Latin-script detector. Any
// token not detected as English counts as Hindi, since romanized Hindi words
// are scattered across other Latin-script languages.
type LinguaIdentifier struct {
	detector lingua.LanguageDetector
}

func NewLinguaIdentifier() *LinguaIdentifier {
	return &LinguaIdentifier{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguagesWithLatinScript().
			Build(),
	}
}

func (l *LinguaIdentifier) Identify(token string) string {
	lang, ok := l.detector.DetectLanguageOf(token)
	if ok && lang == lingua.English {
		return LangEnglish
	}
	return LangHindi
}
