package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
	"github.com/sentinb/sentiment-filter/pkg/frequency"
	"github.com/sentinb/sentiment-filter/pkg/vocabulary"
)

func TestEstimatePriors(t *testing.T) {
	priors, err := EstimatePriors([]string{"POS", "NEG", "POS", "NEU"})
	require.NoError(t, err)

	assert.Equal(t, 0.5, priors["POS"])
	assert.Equal(t, 0.25, priors["NEG"])
	assert.Equal(t, 0.25, priors["NEU"])
	assert.Equal(t, []string{"NEG", "NEU", "POS"}, priors.Classes())
}

func TestEstimatePriorsSumToOne(t *testing.T) {
	labelSets := [][]string{
		{"A"},
		{"A", "B", "C"},
		{"A", "B", "B", "C", "C", "C", "D", "D", "D", "D", "E", "F", "G"},
	}

	for _, labels := range labelSets {
		priors, err := EstimatePriors(labels)
		require.NoError(t, err)

		values := make([]float64, 0, len(priors))
		for _, p := range priors {
			assert.Greater(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			values = append(values, p)
		}
		assert.InDelta(t, 1.0, floats.Sum(values), 1e-12)
	}
}

func TestEstimatePriorsEmpty(t *testing.T) {
	_, err := EstimatePriors(nil)
	assert.ErrorIs(t, err, ErrNoLabels)
}

func aggregate(t *testing.T, records ...corpus.TrainingRecord) *frequency.Tables {
	t.Helper()
	set, err := corpus.NewDocumentSet(records)
	require.NoError(t, err)
	return frequency.Aggregate(set)
}

func TestEstimateLikelihoods(t *testing.T) {
	tables := aggregate(t,
		corpus.TrainingRecord{ID: "1", Label: "POS", Tokens: []string{"good", "good", "bad"}},
		corpus.TrainingRecord{ID: "2", Label: "NEG", Tokens: []string{"bad", "awful"}},
	)

	l := EstimateLikelihoods(tables, tables.Corpus)

	// |V| = 3, total(POS) = 3, total(NEG) = 2
	assert.InDelta(t, 3.0/6.0, l["POS"]["good"], 1e-12)
	assert.InDelta(t, 2.0/6.0, l["POS"]["bad"], 1e-12)
	assert.InDelta(t, 1.0/6.0, l["POS"]["awful"], 1e-12)
	assert.InDelta(t, 1.0/5.0, l["NEG"]["good"], 1e-12)
	assert.InDelta(t, 2.0/5.0, l["NEG"]["bad"], 1e-12)
	assert.Equal(t, []string{"NEG", "POS"}, l.Classes())
}

func TestEstimateLikelihoodsBounds(t *testing.T) {
	tables := aggregate(t,
		corpus.TrainingRecord{ID: "1", Label: "POS", Tokens: []string{"love", "love", "love", "great", "the"}},
		corpus.TrainingRecord{ID: "2", Label: "NEG", Tokens: []string{"hate", "the", "worst"}},
		corpus.TrainingRecord{ID: "3", Label: "NEU", Tokens: []string{"the", "the"}},
		corpus.TrainingRecord{ID: "4", Label: "NEU"},
	)

	vocab := vocabulary.RemoveStopwords(tables.Corpus, vocabulary.NewStopwords("the"))
	l := EstimateLikelihoods(tables, vocab)

	require.Len(t, l, 3)
	for class, probs := range l {
		assert.Len(t, probs, vocab.Len(), class)
		assert.NotContains(t, probs, "the")
		for word, p := range probs {
			assert.Greater(t, p, 0.0, "%s/%s", class, word)
			assert.Less(t, p, 1.0, "%s/%s", class, word)
		}
	}
}

func TestEstimateLikelihoodsEmptyVocabulary(t *testing.T) {
	tables := aggregate(t,
		corpus.TrainingRecord{ID: "1", Label: "POS", Tokens: []string{"the"}},
	)

	l := EstimateLikelihoods(tables, frequency.NewCorpusFrequency())

	require.Contains(t, l, "POS")
	assert.Empty(t, l["POS"])
}
