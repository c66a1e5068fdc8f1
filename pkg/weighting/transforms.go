// Package weighting implements the document-level term-weighting transforms
// described in Rennie et al. (2003): log term frequency, inverse document
// frequency and Euclidean length normalization.
package weighting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
)

// ZeroNormPolicy decides what length normalization does with a document whose
// weight vector has zero norm
type ZeroNormPolicy string

const (
	// ZeroNormKeep leaves the document unnormalized
	ZeroNormKeep ZeroNormPolicy = "keep"
	// ZeroNormDrop removes the document from the set
	ZeroNormDrop ZeroNormPolicy = "drop"
	// ZeroNormError fails the transform with a DegenerateInputError
	ZeroNormError ZeroNormPolicy = "error"
)

// ParseZeroNormPolicy converts a config string into a policy. Empty means keep.
func ParseZeroNormPolicy(s string) (ZeroNormPolicy, error) {
	switch ZeroNormPolicy(s) {
	case "", ZeroNormKeep:
		return ZeroNormKeep, nil
	case ZeroNormDrop:
		return ZeroNormDrop, nil
	case ZeroNormError:
		return ZeroNormError, nil
	}
	return "", fmt.Errorf("unknown zero norm policy %q (want keep, drop or error)", s)
}

// DegenerateInputError reports a document whose weight vector has zero norm
type DegenerateInputError struct {
	DocumentID string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("document %q has a zero-norm weight vector", e.DocumentID)
}

// LogTermFrequency replaces every weight c with log(c + 1)
func LogTermFrequency(set *corpus.DocumentSet) *corpus.DocumentSet {
	out, _ := set.Map(func(doc corpus.WeightedDocument) (corpus.WeightedDocument, bool, error) {
		return doc.Reweight(func(_ string, w float64) float64 {
			return math.Log(w + 1)
		}), true, nil
	})
	return out
}

// DocumentFrequencies counts, for every word, the number of documents containing it
func DocumentFrequencies(set *corpus.DocumentSet) map[string]int {
	df := make(map[string]int)
	for _, doc := range set.Documents() {
		for _, word := range doc.Words {
			df[word]++
		}
	}
	return df
}

// InverseDocumentFrequency multiplies every weight of w by log(N / df(w)).
// Words found in every document end up with weight zero.
func InverseDocumentFrequency(set *corpus.DocumentSet) *corpus.DocumentSet {
	df := DocumentFrequencies(set)
	n := float64(set.Len())

	out, _ := set.Map(func(doc corpus.WeightedDocument) (corpus.WeightedDocument, bool, error) {
		return doc.Reweight(func(word string, w float64) float64 {
			return w * math.Log(n/float64(df[word]))
		}), true, nil
	})
	return out
}

// LengthNormalize divides each document's weights by the Euclidean norm of its
// weight vector
func LengthNormalize(set *corpus.DocumentSet, policy ZeroNormPolicy) (*corpus.DocumentSet, error) {
	return set.Map(func(doc corpus.WeightedDocument) (corpus.WeightedDocument, bool, error) {
		if doc.Len() == 0 {
			return doc, true, nil
		}

		vec := make([]float64, doc.Len())
		for i, word := range doc.Words {
			vec[i] = doc.Weights[word]
		}

		norm := floats.Norm(vec, 2)
		if norm == 0 {
			switch policy {
			case ZeroNormDrop:
				return doc, false, nil
			case ZeroNormError:
				return doc, false, &DegenerateInputError{DocumentID: doc.ID}
			default:
				return doc, true, nil
			}
		}

		// divide rather than scale by 1/norm so a single-word document lands on exactly 1.0
		return doc.Reweight(func(_ string, w float64) float64 { return w / norm }), true, nil
	})
}
