package weighting

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
)

func buildSet(t *testing.T, docs ...[]string) *corpus.DocumentSet {
	t.Helper()
	records := make([]corpus.TrainingRecord, len(docs))
	for i, tokens := range docs {
		records[i] = corpus.TrainingRecord{ID: string(rune('a' + i)), Label: "X", Tokens: tokens}
	}
	set, err := corpus.NewDocumentSet(records)
	require.NoError(t, err)
	return set
}

func TestLogTermFrequency(t *testing.T) {
	set := buildSet(t, []string{"good", "good", "good", "bad"})
	out := LogTermFrequency(set)

	doc := out.Documents()[0]
	assert.InDelta(t, math.Log(4), doc.Weights["good"], 1e-12)
	assert.InDelta(t, math.Log(2), doc.Weights["bad"], 1e-12)
	for _, w := range doc.Weights {
		assert.Greater(t, w, 0.0)
	}

	// input set untouched
	assert.Equal(t, 3.0, set.Documents()[0].Weights["good"])
}

func TestInverseDocumentFrequency(t *testing.T) {
	set := buildSet(t,
		[]string{"the", "good"},
		[]string{"the", "bad"},
		[]string{"the", "bad", "bad"},
	)
	out := InverseDocumentFrequency(set)

	// a word in every document gets log(N/N) = 0
	for _, doc := range out.Documents() {
		assert.Equal(t, 0.0, doc.Weights["the"])
	}

	assert.InDelta(t, math.Log(3.0/1.0), out.Documents()[0].Weights["good"], 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0), out.Documents()[1].Weights["bad"], 1e-12)
	assert.InDelta(t, 2*math.Log(3.0/2.0), out.Documents()[2].Weights["bad"], 1e-12)
}

func TestDocumentFrequencies(t *testing.T) {
	set := buildSet(t, []string{"a", "a", "b"}, []string{"a"})
	df := DocumentFrequencies(set)

	assert.Equal(t, 2, df["a"])
	assert.Equal(t, 1, df["b"])
}

func TestLengthNormalizeSingleWord(t *testing.T) {
	set := buildSet(t, []string{"great", "great", "great"})
	out, err := LengthNormalize(set, ZeroNormKeep)
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.Documents()[0].Weights["great"])
}

func TestLengthNormalizeUnitNorm(t *testing.T) {
	set := buildSet(t, []string{"a", "a", "a", "b", "b", "b", "b"})
	out, err := LengthNormalize(set, ZeroNormKeep)
	require.NoError(t, err)

	doc := out.Documents()[0]
	assert.InDelta(t, 0.6, doc.Weights["a"], 1e-12)
	assert.InDelta(t, 0.8, doc.Weights["b"], 1e-12)
}

func TestLengthNormalizeZeroNorm(t *testing.T) {
	// after IDF every word of the first document has weight zero
	zeroed := func(t *testing.T) *corpus.DocumentSet {
		return InverseDocumentFrequency(buildSet(t,
			[]string{"the"},
			[]string{"the", "movie"},
		))
	}

	t.Run("keep", func(t *testing.T) {
		out, err := LengthNormalize(zeroed(t), ZeroNormKeep)
		require.NoError(t, err)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, 0.0, out.Documents()[0].Weights["the"])
		assert.False(t, math.IsNaN(out.Documents()[0].Weights["the"]))
	})

	t.Run("drop", func(t *testing.T) {
		out, err := LengthNormalize(zeroed(t), ZeroNormDrop)
		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "b", out.Documents()[0].ID)
	})

	t.Run("error", func(t *testing.T) {
		_, err := LengthNormalize(zeroed(t), ZeroNormError)
		var degenerate *DegenerateInputError
		require.True(t, errors.As(err, &degenerate))
		assert.Equal(t, "a", degenerate.DocumentID)
	})
}

func TestLengthNormalizeEmptyDocument(t *testing.T) {
	set := buildSet(t, nil)
	out, err := LengthNormalize(set, ZeroNormError)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestApplyOrder(t *testing.T) {
	set := buildSet(t,
		[]string{"good", "good", "fun"},
		[]string{"bad"},
	)
	out, err := Apply(set, Options{LogTF: true, IDF: true, LengthNorm: true})
	require.NoError(t, err)

	// log-TF, then IDF, then normalization
	good := math.Log(3) * math.Log(2)
	fun := math.Log(2) * math.Log(2)
	norm := math.Sqrt(good*good + fun*fun)

	doc := out.Documents()[0]
	assert.InDelta(t, good/norm, doc.Weights["good"], 1e-12)
	assert.InDelta(t, fun/norm, doc.Weights["fun"], 1e-12)
	assert.Equal(t, 1.0, out.Documents()[1].Weights["bad"])
}

func TestApplyNothingEnabled(t *testing.T) {
	set := buildSet(t, []string{"a"})
	out, err := Apply(set, Options{})
	require.NoError(t, err)
	assert.Same(t, set, out)
	assert.False(t, Options{}.Enabled())
}

func TestParseZeroNormPolicy(t *testing.T) {
	for in, want := range map[string]ZeroNormPolicy{
		"":      ZeroNormKeep,
		"keep":  ZeroNormKeep,
		"drop":  ZeroNormDrop,
		"error": ZeroNormError,
	} {
		got, err := ParseZeroNormPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseZeroNormPolicy("skip")
	assert.Error(t, err)
}
