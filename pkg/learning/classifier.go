package learning

import (
	"math"
	"sort"
	"sync"

	"github.com/sentinb/sentiment-filter/pkg/estimate"
)

// Classifier is a multinomial Naive Bayes classifier. It starts untrained;
// Fit moves it to the trained state and a later Fit replaces the parameters.
type Classifier struct {
	mu sync.RWMutex

	priors      estimate.Priors
	likelihoods estimate.Likelihoods
	classes     []string // sorted, also the tie-break order
	trained     bool
}

// ClassScore is the log score of one class for a document
type ClassScore struct {
	Class string  `json:"class"`
	Score float64 `json:"score"`
}

// Prediction pairs a test document ID with its predicted class
type Prediction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// NewClassifier creates an untrained classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Fit stores the priors and likelihoods. Both must cover the same classes.
func (c *Classifier) Fit(priors estimate.Priors, likelihoods estimate.Likelihoods) error {
	if len(priors) == 0 {
		return &ConfigurationError{Err: ErrNoClasses}
	}

	var onlyPriors, onlyLikelihoods []string
	for class := range priors {
		if _, ok := likelihoods[class]; !ok {
			onlyPriors = append(onlyPriors, class)
		}
	}
	for class := range likelihoods {
		if _, ok := priors[class]; !ok {
			onlyLikelihoods = append(onlyLikelihoods, class)
		}
	}
	if len(onlyPriors) > 0 || len(onlyLikelihoods) > 0 {
		sort.Strings(onlyPriors)
		sort.Strings(onlyLikelihoods)
		return &ConfigurationError{
			Err:          ErrClassMismatch,
			OnlyPriors:   onlyPriors,
			OnlyLikelihs: onlyLikelihoods,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.priors = priors
	c.likelihoods = likelihoods
	c.classes = priors.Classes()
	c.trained = true

	return nil
}

// Trained reports whether Fit has succeeded
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trained
}

// Classes returns the known classes in sorted order
func (c *Classifier) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Scores returns log P(c) + sum count(w) * log P(w|c) for every class, in
// sorted class order. Words outside the vocabulary are skipped: they carry no
// information about the class.
func (c *Classifier) Scores(tokens []string) ([]ClassScore, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.trained {
		return nil, ErrNotTrained
	}

	// Count occurrences, remembering first-seen order so the sum is deterministic
	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	scores := make([]ClassScore, len(c.classes))
	for i, class := range c.classes {
		score := math.Log(c.priors[class])
		probs := c.likelihoods[class]
		for _, word := range order {
			p, ok := probs[word]
			if !ok {
				continue
			}
			score += float64(counts[word]) * math.Log(p)
		}
		scores[i] = ClassScore{Class: class, Score: score}
	}

	return scores, nil
}

// Classify returns the class with the highest score. Equal scores resolve to
// the lexicographically smallest class.
func (c *Classifier) Classify(tokens []string) (string, error) {
	scores, err := c.Scores(tokens)
	if err != nil {
		return "", err
	}
	return Best(scores), nil
}

// Best picks the highest scoring class from scores sorted by class name.
// The first maximum wins, which makes ties go to the smallest class name.
func Best(scores []ClassScore) string {
	if len(scores) == 0 {
		return ""
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Class
}
