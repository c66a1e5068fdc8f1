package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLabel is returned when a training record has no label
	ErrMissingLabel = errors.New("training record has no label")

	// ErrDuplicateDocument is returned when two training records share an ID.
	// A document carries exactly one label, so a repeated ID would attach a
	// second label to the same document.
	ErrDuplicateDocument = errors.New("duplicate document id")
)

// TrainingRecord is a labeled, tokenized document handed over by the loader
type TrainingRecord struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Tokens []string `json:"tokens"`
}

// TestRecord is an unlabeled, tokenized document to classify
type TestRecord struct {
	ID     string   `json:"id"`
	Tokens []string `json:"tokens"`
}

// WeightedDocument is a bag of words with a weight per distinct word.
// Words keeps the order in which each word first appeared in the document.
type WeightedDocument struct {
	ID      string
	Label   string
	Words   []string
	Weights map[string]float64
}

// NewWeightedDocument counts token occurrences. A token appearing k times gets weight k.
func NewWeightedDocument(id, label string, tokens []string) WeightedDocument {
	doc := WeightedDocument{
		ID:      id,
		Label:   label,
		Words:   make([]string, 0, len(tokens)),
		Weights: make(map[string]float64, len(tokens)),
	}

	for _, token := range tokens {
		if _, seen := doc.Weights[token]; !seen {
			doc.Words = append(doc.Words, token)
		}
		doc.Weights[token]++
	}

	return doc
}

// Len returns the number of distinct words in the document
func (d WeightedDocument) Len() int {
	return len(d.Words)
}

// withWeights returns a copy of the document carrying new weights in the same word order
func (d WeightedDocument) withWeights(weights map[string]float64) WeightedDocument {
	return WeightedDocument{
		ID:      d.ID,
		Label:   d.Label,
		Words:   d.Words,
		Weights: weights,
	}
}

// Reweight returns a copy of the document with every weight passed through fn.
// The receiver is left untouched.
func (d WeightedDocument) Reweight(fn func(word string, weight float64) float64) WeightedDocument {
	weights := make(map[string]float64, len(d.Weights))
	for _, word := range d.Words {
		weights[word] = fn(word, d.Weights[word])
	}
	return d.withWeights(weights)
}

// DocumentSet is an ordered collection of weighted training documents
type DocumentSet struct {
	docs []WeightedDocument
}

// NewDocumentSet builds a document set from training records.
// Records keep their input order.
func NewDocumentSet(records []TrainingRecord) (*DocumentSet, error) {
	seen := make(map[string]struct{}, len(records))
	docs := make([]WeightedDocument, 0, len(records))

	for i, rec := range records {
		if rec.Label == "" {
			return nil, fmt.Errorf("record %d (id %q): %w", i, rec.ID, ErrMissingLabel)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("record %d: %w: %q", i, ErrDuplicateDocument, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		docs = append(docs, NewWeightedDocument(rec.ID, rec.Label, rec.Tokens))
	}

	return &DocumentSet{docs: docs}, nil
}

// FromDocuments wraps already weighted documents in a set
func FromDocuments(docs []WeightedDocument) *DocumentSet {
	return &DocumentSet{docs: docs}
}

// Documents returns the documents in input order. Callers must not modify them.
func (s *DocumentSet) Documents() []WeightedDocument {
	return s.docs
}

// Len returns the number of documents
func (s *DocumentSet) Len() int {
	return len(s.docs)
}

// Labels returns the label of every document in input order
func (s *DocumentSet) Labels() []string {
	labels := make([]string, len(s.docs))
	for i, doc := range s.docs {
		labels[i] = doc.Label
	}
	return labels
}

// Partition splits the set into at most n contiguous chunks of near-equal size
func (s *DocumentSet) Partition(n int) []*DocumentSet {
	if n < 1 {
		n = 1
	}
	if n > len(s.docs) {
		n = len(s.docs)
	}
	if n == 0 {
		return []*DocumentSet{{}}
	}

	parts := make([]*DocumentSet, 0, n)
	size := len(s.docs) / n
	rem := len(s.docs) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		parts = append(parts, &DocumentSet{docs: s.docs[start:end]})
		start = end
	}
	return parts
}

// Map returns a new set built by applying fn to every document. Documents for
// which fn reports keep == false are left out.
func (s *DocumentSet) Map(fn func(WeightedDocument) (doc WeightedDocument, keep bool, err error)) (*DocumentSet, error) {
	out := make([]WeightedDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		mapped, keep, err := fn(doc)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, mapped)
		}
	}
	return &DocumentSet{docs: out}, nil
}

// Labels returns the labels of the records in input order
func Labels(records []TrainingRecord) []string {
	labels := make([]string, len(records))
	for i, rec := range records {
		labels[i] = rec.Label
	}
	return labels
}
