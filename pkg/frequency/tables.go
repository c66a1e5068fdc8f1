package frequency

import (
	"context"
	"math/big"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
)

// exactPrec holds any sum of float64 values without rounding. The float64
// exponent range spans 2098 bits; the rest leaves room for carries.
const exactPrec = 2200

// CorpusFrequency holds the total weight of every word across all classes.
// Words lists each word once, in the order it was first seen in the corpus;
// that order is the tie-break for top-K selection.
type CorpusFrequency struct {
	Words []string           `json:"words"`
	Freq  map[string]float64 `json:"freq"`
}

// NewCorpusFrequency returns an empty table
func NewCorpusFrequency() *CorpusFrequency {
	return &CorpusFrequency{Freq: make(map[string]float64)}
}

// Add adds weight to a word, appending it to the order if new
func (cf *CorpusFrequency) Add(word string, weight float64) {
	if _, ok := cf.Freq[word]; !ok {
		cf.Words = append(cf.Words, word)
	}
	cf.Freq[word] += weight
}

// Contains reports whether word is in the table
func (cf *CorpusFrequency) Contains(word string) bool {
	_, ok := cf.Freq[word]
	return ok
}

// Len returns the vocabulary size
func (cf *CorpusFrequency) Len() int {
	return len(cf.Words)
}

// Clone returns a deep copy
func (cf *CorpusFrequency) Clone() *CorpusFrequency {
	out := &CorpusFrequency{
		Words: make([]string, len(cf.Words)),
		Freq:  make(map[string]float64, len(cf.Freq)),
	}
	copy(out.Words, cf.Words)
	for w, f := range cf.Freq {
		out.Freq[w] = f
	}
	return out
}

// Tables are the aggregated statistics of one training run.
//
// The float64 tables are rounded from exact running sums, once per value.
// Aggregation therefore gives bitwise identical tables however the documents
// are grouped or merged.
type Tables struct {
	// class -> word -> weight
	ClassWords map[string]map[string]float64 `json:"class_words"`
	// class -> sum of the class's word weights
	ClassTotals map[string]float64 `json:"class_totals"`
	// word -> weight across every class
	Corpus *CorpusFrequency `json:"corpus"`
	// classes in first-seen order
	Classes []string `json:"classes"`
	// number of documents aggregated
	Documents int `json:"documents"`

	// exact sums behind ClassWords and Corpus.Freq
	classSums  map[string]map[string]*big.Float
	corpusSums map[string]*big.Float
}

func newTables() *Tables {
	return &Tables{
		ClassWords:  make(map[string]map[string]float64),
		ClassTotals: make(map[string]float64),
		Corpus:      NewCorpusFrequency(),
		classSums:   make(map[string]map[string]*big.Float),
		corpusSums:  make(map[string]*big.Float),
	}
}

func newSum() *big.Float {
	return new(big.Float).SetPrec(exactPrec)
}

func accumulate(sums map[string]*big.Float, word string, x *big.Float) {
	sum, ok := sums[word]
	if !ok {
		sum = newSum()
		sums[word] = sum
	}
	sum.Add(sum, x)
}

func (t *Tables) ensureClass(label string) map[string]*big.Float {
	sums, ok := t.classSums[label]
	if !ok {
		sums = make(map[string]*big.Float)
		t.classSums[label] = sums
		t.ClassWords[label] = make(map[string]float64)
		t.Classes = append(t.Classes, label)
	}
	return sums
}

func (t *Tables) addCorpus(word string, x *big.Float) {
	if _, ok := t.corpusSums[word]; !ok {
		t.Corpus.Words = append(t.Corpus.Words, word)
	}
	accumulate(t.corpusSums, word, x)
}

// exactSums returns the exact class and corpus sums of t. Tables that were
// decoded rather than aggregated have none, so they are rebuilt from the
// float tables.
func (t *Tables) exactSums() (map[string]map[string]*big.Float, map[string]*big.Float) {
	if t.classSums != nil && t.corpusSums != nil {
		return t.classSums, t.corpusSums
	}
	classSums := make(map[string]map[string]*big.Float, len(t.ClassWords))
	for label, words := range t.ClassWords {
		sums := make(map[string]*big.Float, len(words))
		for word, w := range words {
			sums[word] = new(big.Float).SetFloat64(w)
		}
		classSums[label] = sums
	}
	corpusSums := make(map[string]*big.Float, len(t.Corpus.Freq))
	for word, w := range t.Corpus.Freq {
		corpusSums[word] = new(big.Float).SetFloat64(w)
	}
	return classSums, corpusSums
}

// snapshotTotals rounds the exact sums into the float64 tables and recomputes
// the class totals. Every value is rounded exactly once.
func (t *Tables) snapshotTotals() {
	t.ClassTotals = make(map[string]float64, len(t.classSums))
	total := newSum()
	for label, sums := range t.classSums {
		words := t.ClassWords[label]
		total.SetInt64(0)
		for word, sum := range sums {
			words[word], _ = sum.Float64()
			total.Add(total, sum)
		}
		t.ClassTotals[label], _ = total.Float64()
	}
	for word, sum := range t.corpusSums {
		t.Corpus.Freq[word], _ = sum.Float64()
	}
}

// SortedClasses returns the class labels in lexicographic order
func (t *Tables) SortedClasses() []string {
	classes := make([]string, len(t.Classes))
	copy(classes, t.Classes)
	sort.Strings(classes)
	return classes
}

// Aggregate builds the class word, class total and corpus frequency tables
// from a document set. Every class in the set gets an entry even when all of
// its documents are empty.
func Aggregate(set *corpus.DocumentSet) *Tables {
	t := newTables()
	x := new(big.Float)
	for _, doc := range set.Documents() {
		sums := t.ensureClass(doc.Label)
		for _, word := range doc.Words {
			x.SetFloat64(doc.Weights[word])
			accumulate(sums, word, x)
			t.addCorpus(word, x)
		}
		t.Documents++
	}
	t.snapshotTotals()
	return t
}

// Merge adds two table sets together and returns the sum. Neither input is
// modified. Weights are summed exactly before rounding, so the merge is
// commutative and associative; word and class order follow a then b.
func Merge(a, b *Tables) *Tables {
	t := newTables()
	for _, src := range []*Tables{a, b} {
		if src == nil {
			continue
		}
		classSums, corpusSums := src.exactSums()
		for _, label := range src.Classes {
			sums := t.ensureClass(label)
			for word, x := range classSums[label] {
				accumulate(sums, word, x)
			}
		}
		for _, word := range src.Corpus.Words {
			if x, ok := corpusSums[word]; ok {
				t.addCorpus(word, x)
			}
		}
		t.Documents += src.Documents
	}
	t.snapshotTotals()
	return t
}

// AggregateParallel splits the set into contiguous partitions, aggregates them
// concurrently and merges the partial tables in partition order. The result
// is bitwise equal to Aggregate on the whole set.
func AggregateParallel(ctx context.Context, set *corpus.DocumentSet, partitions int) (*Tables, error) {
	if partitions <= 1 {
		return Aggregate(set), nil
	}

	parts := set.Partition(partitions)
	partial := make([]*Tables, len(parts))

	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[i] = Aggregate(part)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := partial[0]
	for _, p := range partial[1:] {
		merged = Merge(merged, p)
	}
	return merged, nil
}
