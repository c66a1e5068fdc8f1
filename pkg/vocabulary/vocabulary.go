// Package vocabulary reduces the corpus vocabulary before likelihoods are
// estimated.
package vocabulary

import (
	"sort"

	"github.com/sentinb/sentiment-filter/pkg/frequency"
)

// Stopwords is a set of words dropped from the vocabulary
type Stopwords map[string]struct{}

// NewStopwords builds a stopword set
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is a stopword
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of stopwords
func (s Stopwords) Len() int {
	return len(s)
}

// RemoveStopwords returns a copy of the table without any stopword. Stopwords
// missing from the table are ignored. Running it twice gives the same table as
// running it once.
func RemoveStopwords(freq *frequency.CorpusFrequency, stopwords Stopwords) *frequency.CorpusFrequency {
	out := frequency.NewCorpusFrequency()
	for _, word := range freq.Words {
		if stopwords.Contains(word) {
			continue
		}
		out.Add(word, freq.Freq[word])
	}
	return out
}

// TopK keeps the k words with the highest corpus frequency. Ties are broken by
// first-seen order, so the same table always yields the same words. k <= 0
// disables pruning and returns a copy of the table.
func TopK(freq *frequency.CorpusFrequency, k int) *frequency.CorpusFrequency {
	if k <= 0 || k >= freq.Len() {
		return freq.Clone()
	}

	// Words is already in first-seen order, a stable sort keeps it for equal counts
	ranked := make([]string, len(freq.Words))
	copy(ranked, freq.Words)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq.Freq[ranked[i]] > freq.Freq[ranked[j]]
	})

	keep := make(map[string]struct{}, k)
	for _, word := range ranked[:k] {
		keep[word] = struct{}{}
	}

	out := frequency.NewCorpusFrequency()
	for _, word := range freq.Words {
		if _, ok := keep[word]; ok {
			out.Add(word, freq.Freq[word])
		}
	}
	return out
}

// Options controls vocabulary reduction
type Options struct {
	Stopwords Stopwords
	TopK      int
}

// Reduce applies stopword removal and then top-K selection. Either step is
// skipped when not configured.
func Reduce(freq *frequency.CorpusFrequency, opts Options) *frequency.CorpusFrequency {
	out := freq
	if opts.Stopwords.Len() > 0 {
		out = RemoveStopwords(out, opts.Stopwords)
	}
	if opts.TopK > 0 {
		out = TopK(out, opts.TopK)
	}
	if out == freq {
		return freq.Clone()
	}
	return out
}
