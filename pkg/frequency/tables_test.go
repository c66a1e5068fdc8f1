package frequency

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
	"github.com/sentinb/sentiment-filter/pkg/weighting"
)

func newSet(t testing.TB, records ...corpus.TrainingRecord) *corpus.DocumentSet {
	t.Helper()
	set, err := corpus.NewDocumentSet(records)
	require.NoError(t, err)
	return set
}

func sampleRecords() []corpus.TrainingRecord {
	return []corpus.TrainingRecord{
		{ID: "1", Label: "POS", Tokens: []string{"good", "good", "bad"}},
		{ID: "2", Label: "POS", Tokens: []string{"good", "good", "bad"}},
		{ID: "3", Label: "NEG", Tokens: []string{"bad", "bad", "good"}},
		{ID: "4", Label: "NEG", Tokens: []string{"bad", "bad", "good"}},
		{ID: "5", Label: "NEU", Tokens: []string{"okay", "fine"}},
	}
}

func TestAggregate(t *testing.T) {
	tables := Aggregate(newSet(t, sampleRecords()...))

	assert.Equal(t, 4.0, tables.ClassWords["POS"]["good"])
	assert.Equal(t, 2.0, tables.ClassWords["POS"]["bad"])
	assert.Equal(t, 4.0, tables.ClassWords["NEG"]["bad"])
	assert.Equal(t, 6.0, tables.Corpus.Freq["good"])
	assert.Equal(t, 6.0, tables.Corpus.Freq["bad"])
	assert.Equal(t, []string{"good", "bad", "okay", "fine"}, tables.Corpus.Words)
	assert.Equal(t, []string{"POS", "NEG", "NEU"}, tables.Classes)
	assert.Equal(t, []string{"NEG", "NEU", "POS"}, tables.SortedClasses())
	assert.Equal(t, 5, tables.Documents)
}

func TestAggregateInvariants(t *testing.T) {
	tables := Aggregate(newSet(t, sampleRecords()...))

	// class total equals the sum of the class's words
	for label, words := range tables.ClassWords {
		var sum float64
		for _, w := range words {
			sum += w
		}
		assert.InDelta(t, sum, tables.ClassTotals[label], 1e-9, label)
	}

	// corpus frequency equals the sum over classes
	for _, word := range tables.Corpus.Words {
		var sum float64
		for _, words := range tables.ClassWords {
			sum += words[word]
		}
		assert.InDelta(t, sum, tables.Corpus.Freq[word], 1e-9, word)
	}
}

func TestAggregateEmptyDocument(t *testing.T) {
	tables := Aggregate(newSet(t,
		corpus.TrainingRecord{ID: "1", Label: "POS", Tokens: []string{"good"}},
		corpus.TrainingRecord{ID: "2", Label: "NEG"},
	))

	require.Contains(t, tables.ClassWords, "NEG")
	assert.Empty(t, tables.ClassWords["NEG"])
	assert.Equal(t, 0.0, tables.ClassTotals["NEG"])
	assert.Equal(t, 1, tables.Corpus.Len())
}

func TestMerge(t *testing.T) {
	records := sampleRecords()
	whole := Aggregate(newSet(t, records...))
	a := Aggregate(newSet(t, records[:2]...))
	b := Aggregate(newSet(t, records[2:]...))

	ab := Merge(a, b)
	ba := Merge(b, a)

	for _, merged := range []*Tables{ab, ba} {
		assert.Equal(t, whole.ClassWords, merged.ClassWords)
		assert.Equal(t, whole.ClassTotals, merged.ClassTotals)
		assert.Equal(t, whole.Corpus.Freq, merged.Corpus.Freq)
		assert.Equal(t, whole.Documents, merged.Documents)
	}
	assert.Equal(t, whole.Corpus.Words, ab.Corpus.Words)

	// inputs untouched
	assert.Equal(t, 4.0, a.ClassWords["POS"]["good"])
	assert.NotContains(t, a.ClassWords, "NEG")
}

func TestMergeAssociative(t *testing.T) {
	records := sampleRecords()
	a := Aggregate(newSet(t, records[:1]...))
	b := Aggregate(newSet(t, records[1:3]...))
	c := Aggregate(newSet(t, records[3:]...))

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	assert.Equal(t, left.ClassWords, right.ClassWords)
	assert.Equal(t, left.Corpus.Freq, right.Corpus.Freq)
	assert.Equal(t, left.Corpus.Words, right.Corpus.Words)
}

func TestAggregateParallel(t *testing.T) {
	var records []corpus.TrainingRecord
	for i := 0; i < 50; i++ {
		label := "POS"
		if i%3 == 0 {
			label = "NEG"
		}
		records = append(records, corpus.TrainingRecord{
			ID:     fmt.Sprintf("doc-%d", i),
			Label:  label,
			Tokens: []string{fmt.Sprintf("w%d", i%7), "common", fmt.Sprintf("w%d", i%5)},
		})
	}
	set := newSet(t, records...)
	want := Aggregate(set)

	for _, partitions := range []int{0, 1, 2, 3, 8, 64} {
		t.Run(fmt.Sprintf("partitions=%d", partitions), func(t *testing.T) {
			got, err := AggregateParallel(context.Background(), set, partitions)
			require.NoError(t, err)
			assert.Equal(t, want.ClassWords, got.ClassWords)
			assert.Equal(t, want.ClassTotals, got.ClassTotals)
			assert.Equal(t, want.Corpus, got.Corpus)
			assert.Equal(t, want.Documents, got.Documents)
		})
	}
}

// weightedRecords builds documents of uneven length over a skewed vocabulary
// so that log-TF, IDF and length normalization all produce inexact weights.
func weightedRecords(n int) []corpus.TrainingRecord {
	labels := []string{"POS", "NEG", "NEU"}
	records := make([]corpus.TrainingRecord, 0, n)
	for i := 0; i < n; i++ {
		var tokens []string
		for j := 0; j < 3+i%11; j++ {
			tokens = append(tokens, fmt.Sprintf("w%d", (i*j+j*j)%(17+i%5)))
		}
		if i%4 == 0 {
			tokens = append(tokens, "common", "common")
		}
		records = append(records, corpus.TrainingRecord{
			ID:     fmt.Sprintf("doc-%d", i),
			Label:  labels[(i*7)%len(labels)],
			Tokens: tokens,
		})
	}
	return records
}

func TestAggregateParallelFloatWeights(t *testing.T) {
	set, err := weighting.Apply(newSet(t, weightedRecords(300)...), weighting.Options{
		LogTF:      true,
		IDF:        true,
		LengthNorm: true,
	})
	require.NoError(t, err)
	want := Aggregate(set)

	for _, partitions := range []int{2, 3, 4, 7, 16} {
		t.Run(fmt.Sprintf("partitions=%d", partitions), func(t *testing.T) {
			got, err := AggregateParallel(context.Background(), set, partitions)
			require.NoError(t, err)
			assert.Equal(t, want.ClassWords, got.ClassWords)
			assert.Equal(t, want.ClassTotals, got.ClassTotals)
			assert.Equal(t, want.Corpus.Words, got.Corpus.Words)
			assert.Equal(t, want.Corpus.Freq, got.Corpus.Freq)
			assert.Equal(t, want.Documents, got.Documents)
		})
	}
}

func TestMergeAssociativeFloatWeights(t *testing.T) {
	set, err := weighting.Apply(newSet(t, weightedRecords(90)...), weighting.Options{
		LogTF:      true,
		IDF:        true,
		LengthNorm: true,
	})
	require.NoError(t, err)
	parts := set.Partition(3)
	a, b, c := Aggregate(parts[0]), Aggregate(parts[1]), Aggregate(parts[2])

	tests := []struct {
		name   string
		merged *Tables
	}{
		{"(a+b)+c", Merge(Merge(a, b), c)},
		{"a+(b+c)", Merge(a, Merge(b, c))},
		{"(c+a)+b", Merge(Merge(c, a), b)},
		{"b+(c+a)", Merge(b, Merge(c, a))},
	}

	want := Aggregate(set)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want.ClassWords, tt.merged.ClassWords)
			assert.Equal(t, want.ClassTotals, tt.merged.ClassTotals)
			assert.Equal(t, want.Corpus.Freq, tt.merged.Corpus.Freq)
		})
	}
}

func TestMergeDecodedTables(t *testing.T) {
	a := &Tables{
		ClassWords:  map[string]map[string]float64{"POS": {"good": 0.1}},
		ClassTotals: map[string]float64{"POS": 0.1},
		Corpus:      &CorpusFrequency{Words: []string{"good"}, Freq: map[string]float64{"good": 0.1}},
		Classes:     []string{"POS"},
		Documents:   1,
	}
	b := Aggregate(newSet(t, corpus.TrainingRecord{ID: "2", Label: "NEG", Tokens: []string{"bad", "good"}}))

	merged := Merge(a, b)
	assert.Equal(t, 1.1, merged.Corpus.Freq["good"])
	assert.Equal(t, 0.1, merged.ClassTotals["POS"])
	assert.Equal(t, 2.0, merged.ClassTotals["NEG"])
	assert.Equal(t, []string{"POS", "NEG"}, merged.Classes)
	assert.Equal(t, 2, merged.Documents)
}

func TestAggregateParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AggregateParallel(ctx, newSet(t, sampleRecords()...), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorpusFrequencyClone(t *testing.T) {
	cf := NewCorpusFrequency()
	cf.Add("a", 1)
	cf.Add("b", 2)
	cf.Add("a", 1)

	clone := cf.Clone()
	clone.Add("c", 3)

	assert.Equal(t, []string{"a", "b"}, cf.Words)
	assert.Equal(t, 2.0, cf.Freq["a"])
	assert.True(t, clone.Contains("c"))
	assert.False(t, cf.Contains("c"))
}

func BenchmarkAggregate(b *testing.B) {
	var records []corpus.TrainingRecord
	for i := 0; i < 2000; i++ {
		records = append(records, corpus.TrainingRecord{
			ID:     fmt.Sprintf("doc-%d", i),
			Label:  []string{"POS", "NEG", "NEU"}[i%3],
			Tokens: []string{fmt.Sprintf("w%d", i%101), fmt.Sprintf("w%d", i%37), "the", "a"},
		})
	}
	set := newSet(b, records...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(set)
	}
}
