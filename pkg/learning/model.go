package learning

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sentinb/sentiment-filter/pkg/estimate"
	"github.com/sentinb/sentiment-filter/pkg/frequency"
)

// ModelInfo contains model information
type ModelInfo struct {
	RunID          string    `json:"run_id"`
	Documents      int       `json:"documents"`
	Classes        []string  `json:"classes"`
	VocabularySize int       `json:"vocabulary_size"`
	TrainedAt      time.Time `json:"trained_at"`
	Weighting      []string  `json:"weighting,omitempty"`
	Stopwords      int       `json:"stopwords"`
	TopK           int       `json:"top_k"`
}

// Model is the output of one training run: the probability tables plus the
// statistics they were estimated from
type Model struct {
	Info        ModelInfo                  `json:"info"`
	Priors      estimate.Priors            `json:"priors"`
	Likelihoods estimate.Likelihoods       `json:"likelihoods"`
	Vocabulary  *frequency.CorpusFrequency `json:"vocabulary"`
	ClassTotals map[string]float64         `json:"class_totals"`
}

// Classifier returns a classifier fitted with the model's tables
func (m *Model) Classifier() (*Classifier, error) {
	c := NewClassifier()
	if err := c.Fit(m.Priors, m.Likelihoods); err != nil {
		return nil, err
	}
	return c, nil
}

// WordStats contains statistics about a word within a class
type WordStats struct {
	Word       string  `json:"word"`
	Likelihood float64 `json:"likelihood"`
	CorpusFreq float64 `json:"corpus_freq"`
}

// TopWords returns the words with the highest likelihood for a class. Equal
// likelihoods are ordered by word.
func (m *Model) TopWords(class string, limit int) []*WordStats {
	probs, ok := m.Likelihoods[class]
	if !ok {
		return nil
	}

	words := make([]*WordStats, 0, len(probs))
	for word, p := range probs {
		ws := &WordStats{Word: word, Likelihood: p}
		if m.Vocabulary != nil {
			ws.CorpusFreq = m.Vocabulary.Freq[word]
		}
		words = append(words, ws)
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Likelihood != words[j].Likelihood {
			return words[i].Likelihood > words[j].Likelihood
		}
		return words[i].Word < words[j].Word
	})

	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// PrintStats prints model statistics
func (m *Model) PrintStats(w io.Writer, topWords int) {
	info := m.Info

	fmt.Fprintf(w, "🧠 Naive Bayes Sentiment Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Run ID: %s\n", info.RunID)
	fmt.Fprintf(w, "  Documents: %d\n", info.Documents)
	fmt.Fprintf(w, "  Classes: %d\n", len(info.Classes))
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)
	if !info.TrainedAt.IsZero() {
		fmt.Fprintf(w, "  Trained: %s\n", info.TrainedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\nPipeline:\n")
	if len(info.Weighting) == 0 {
		fmt.Fprintf(w, "  Weighting: raw counts\n")
	} else {
		fmt.Fprintf(w, "  Weighting: %v\n", info.Weighting)
	}
	fmt.Fprintf(w, "  Stopwords: %d\n", info.Stopwords)
	if info.TopK > 0 {
		fmt.Fprintf(w, "  Top-K: %d\n", info.TopK)
	}

	fmt.Fprintf(w, "\n📊 Priors:\n")
	for _, class := range m.Priors.Classes() {
		fmt.Fprintf(w, "  %-12s %.4f  (total weight %.2f)\n", class, m.Priors[class], m.ClassTotals[class])
	}

	if topWords <= 0 {
		fmt.Fprintf(w, "\n")
		return
	}

	for _, class := range m.Priors.Classes() {
		fmt.Fprintf(w, "\n📈 Top %s Words:\n", class)
		for i, ws := range m.TopWords(class, topWords) {
			fmt.Fprintf(w, "  %2d. %-15s (%.5f likelihood, %.2f corpus)\n",
				i+1, ws.Word, ws.Likelihood, ws.CorpusFreq)
		}
	}

	fmt.Fprintf(w, "\n")
}
