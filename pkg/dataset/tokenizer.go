package dataset

import (
	"strings"

	porterstemmer "github.com/reiver/go-porterstemmer"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns raw post text into tokens. The classifier core performs no
// normalization of its own, so everything happens here.
type Tokenizer struct {
	Lowercase        bool
	NormalizeUnicode bool
	Stem             bool
}

// Tokenize splits text on whitespace after the configured normalization
func (t Tokenizer) Tokenize(text string) []string {
	if t.NormalizeUnicode {
		text = norm.NFC.String(text)
	}
	if t.Lowercase {
		text = strings.ToLower(text)
	}

	tokens := strings.Fields(text)
	if !t.Stem {
		return tokens
	}

	for i, token := range tokens {
		tokens[i] = porterstemmer.StemString(token)
	}
	return tokens
}
