// Package estimate turns aggregated word statistics into the probability
// tables a multinomial Naive Bayes classifier needs.
package estimate

import (
	"errors"
	"sort"

	"github.com/sentinb/sentiment-filter/pkg/frequency"
)

// ErrNoLabels is returned when priors are requested for an empty label list
var ErrNoLabels = errors.New("no training labels")

// Priors maps a class label to P(class)
type Priors map[string]float64

// Classes returns the class labels in lexicographic order
func (p Priors) Classes() []string {
	classes := make([]string, 0, len(p))
	for c := range p {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// Likelihoods maps a class label to P(word | class) for every vocabulary word
type Likelihoods map[string]map[string]float64

// Classes returns the class labels in lexicographic order
func (l Likelihoods) Classes() []string {
	classes := make([]string, 0, len(l))
	for c := range l {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// EstimatePriors computes P(c) = count(c) / N over the training labels. Every
// class in the result was observed at least once, so no prior is zero.
func EstimatePriors(labels []string) (Priors, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	counts := make(map[string]int)
	for _, label := range labels {
		counts[label]++
	}

	n := float64(len(labels))
	priors := make(Priors, len(counts))
	for label, count := range counts {
		priors[label] = float64(count) / n
	}
	return priors, nil
}

// EstimateLikelihoods computes the add-one smoothed likelihood
//
//	P(w|c) = (count(w,c) + 1) / (total(c) + |V|)
//
// for every class in tables and every word of vocab. |V| is the size of the
// global vocabulary, so a word never seen in c still gets 1 / (total(c) + |V|).
// Class totals come from the aggregation snapshot and are not recomputed
// after vocabulary reduction.
func EstimateLikelihoods(tables *frequency.Tables, vocab *frequency.CorpusFrequency) Likelihoods {
	v := float64(vocab.Len())
	out := make(Likelihoods, len(tables.ClassWords))

	for _, class := range tables.Classes {
		words := tables.ClassWords[class]
		denom := tables.ClassTotals[class] + v

		probs := make(map[string]float64, vocab.Len())
		for _, word := range vocab.Words {
			probs[word] = (words[word] + 1) / denom
		}
		out[class] = probs
	}
	return out
}
