// Package tracker keeps running counts of predicted classes.
package tracker

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// PredictionTracker counts predictions per class. It is safe for concurrent use.
type PredictionTracker struct {
	mu        sync.RWMutex
	counts    map[string]int
	total     int
	firstSeen time.Time
	lastSeen  time.Time
}

// ClassShare is the number and fraction of predictions for one class
type ClassShare struct {
	Class string
	Count int
	Ratio float64
}

// NewPredictionTracker creates an empty tracker
func NewPredictionTracker() *PredictionTracker {
	return &PredictionTracker{
		counts: make(map[string]int),
	}
}

// Track records one prediction
func (pt *PredictionTracker) Track(class string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	now := time.Now()
	if pt.total == 0 {
		pt.firstSeen = now
	}
	pt.lastSeen = now
	pt.counts[class]++
	pt.total++
}

// Total returns the number of tracked predictions
func (pt *PredictionTracker) Total() int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.total
}

// Count returns the number of predictions for a class
func (pt *PredictionTracker) Count(class string) int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.counts[class]
}

// Distribution returns per-class shares, largest first. Equal counts are
// ordered by class name.
func (pt *PredictionTracker) Distribution() []ClassShare {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	out := make([]ClassShare, 0, len(pt.counts))
	for class, n := range pt.counts {
		out = append(out, ClassShare{
			Class: class,
			Count: n,
			Ratio: float64(n) / float64(pt.total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// Rate returns predictions per second between the first and last Track call
func (pt *PredictionTracker) Rate() float64 {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	elapsed := pt.lastSeen.Sub(pt.firstSeen).Seconds()
	if pt.total < 2 || elapsed <= 0 {
		return 0
	}
	return float64(pt.total) / elapsed
}

// PrintSummary writes the class distribution
func (pt *PredictionTracker) PrintSummary(w io.Writer) {
	dist := pt.Distribution()
	if len(dist) == 0 {
		fmt.Fprintln(w, "📭 No predictions tracked")
		return
	}

	fmt.Fprintf(w, "📊 Predictions: %d\n", pt.Total())
	for _, share := range dist {
		fmt.Fprintf(w, "   %-12s %8d  (%.1f%%)\n", share.Class, share.Count, 100*share.Ratio)
	}
}

// Reset clears all counts
func (pt *PredictionTracker) Reset() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.counts = make(map[string]int)
	pt.total = 0
	pt.firstSeen = time.Time{}
	pt.lastSeen = time.Time{}
}
