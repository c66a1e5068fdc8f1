// Package profiler records wall-clock time spent in each stage of the
// training and classification pipeline.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Pipeline stage names
const (
	StageLoad        = "load"
	StageWeighting   = "weighting"
	StageAggregate   = "aggregate"
	StageVocabulary  = "vocabulary"
	StageLikelihoods = "likelihoods"
	StageClassify    = "classify"
	StageDocument    = "classify_document"
	StageStore       = "store"
)

// Profiler collects stage durations. The zero value is not usable; call New.
type Profiler struct {
	mu    sync.RWMutex
	times map[string][]time.Duration
	order []string
}

// New creates an empty profiler
func New() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer measures one run of a stage
type Timer struct {
	profiler *Profiler
	stage    string
	start    time.Time
}

// Start begins timing a stage. A nil profiler returns a timer that records nothing.
func (p *Profiler) Start(stage string) *Timer {
	return &Timer{profiler: p, stage: stage, start: time.Now()}
}

// Stop records the elapsed time and returns it
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.profiler != nil {
		t.profiler.Record(t.stage, elapsed)
	}
	return elapsed
}

// Record adds a measured duration for a stage
func (p *Profiler) Record(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if _, ok := p.times[stage]; !ok {
		p.order = append(p.order, stage)
	}
	p.times[stage] = append(p.times[stage], d)
	p.mu.Unlock()
}

// Stats summarizes the recorded runs of one stage
type Stats struct {
	Stage   string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
	Median  time.Duration
	P95     time.Duration
}

// GetStats returns the statistics for a stage; Count is zero if it never ran
func (p *Profiler) GetStats(stage string) Stats {
	p.mu.RLock()
	runs := append([]time.Duration(nil), p.times[stage]...)
	p.mu.RUnlock()

	if len(runs) == 0 {
		return Stats{Stage: stage}
	}

	sorted := make([]float64, len(runs))
	var total time.Duration
	for i, d := range runs {
		sorted[i] = float64(d)
		total += d
	}
	sort.Float64s(sorted)

	return Stats{
		Stage:   stage,
		Count:   len(runs),
		Total:   total,
		Average: total / time.Duration(len(runs)),
		Min:     time.Duration(sorted[0]),
		Max:     time.Duration(sorted[len(sorted)-1]),
		Median:  time.Duration(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		P95:     time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil)),
	}
}

// AllStats returns statistics for every stage in first-recorded order
func (p *Profiler) AllStats() []Stats {
	p.mu.RLock()
	stages := append([]string(nil), p.order...)
	p.mu.RUnlock()

	out := make([]Stats, 0, len(stages))
	for _, s := range stages {
		out = append(out, p.GetStats(s))
	}
	return out
}

// Reset clears all recorded timings
func (p *Profiler) Reset() {
	p.mu.Lock()
	p.times = make(map[string][]time.Duration)
	p.order = nil
	p.mu.Unlock()
}

// PrintReport writes a timing table for all stages
func (p *Profiler) PrintReport(w io.Writer) {
	stats := p.AllStats()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	var overall time.Duration
	for _, s := range stats {
		if s.Stage != StageDocument {
			overall += s.Total
		}
	}

	fmt.Fprintf(w, "⏱️  Pipeline Profile\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-18s %7s %10s %9s %9s %9s %9s %6s\n",
		"Stage", "Runs", "Total", "Avg", "Median", "P95", "Max", "Share")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────────────\n")
	for _, s := range stats {
		share := "-"
		if s.Stage != StageDocument && overall > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(s.Total)/float64(overall))
		}
		fmt.Fprintf(w, "%-18s %7d %10s %9s %9s %9s %9s %6s\n",
			truncate(s.Stage, 18),
			s.Count,
			FormatDuration(s.Total),
			FormatDuration(s.Average),
			FormatDuration(s.Median),
			FormatDuration(s.P95),
			FormatDuration(s.Max),
			share,
		)
	}
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════════════\n")
}

// FormatDuration renders a duration with a unit suited to its size
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
