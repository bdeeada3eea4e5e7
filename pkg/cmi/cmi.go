// Package cmi computes the Code-Mixing Index of Hinglish text and summarizes
// it over a corpus.
package cmi

// Counts holds the per-language token tally of one text.
type Counts struct {
	Hindi   int `json:"hi"`
	English int `json:"en"`
}

type Result struct {
	CMI        float64
	Counts     Counts
	TokenCount int
}

// Compute returns CMI = 100 * (1 - max(hi, en) / n) where n counts every
// whitespace token, including ones with no lexical content. Empty text has
// CMI 0.
func Compute(text string, id Identifier) Result {
	n := len(Tokens(text))
	if n == 0 {
		return Result{}
	}

	var counts Counts
	for _, tok := range LexicalTokens(text) {
		if id.Identify(tok) == LangEnglish {
			counts.English++
		} else {
			counts.Hindi++
		}
	}

	dominant := counts.Hindi
	if counts.English > dominant {
		dominant = counts.English
	}

	return Result{
		CMI:        100 * (1 - float64(dominant)/float64(n)),
		Counts:     counts,
		TokenCount: n,
	}
}
