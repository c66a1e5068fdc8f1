package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/corpus"
	"github.com/sentinb/sentiment-filter/pkg/profiler"
	"github.com/sentinb/sentiment-filter/pkg/sentiment"
)

var (
	benchmarkRuns       int
	benchmarkHoldout    float64
	benchmarkPartitions int
	benchmarkWorkers    int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Time the training and classification stages",
	Long: `Train and classify repeatedly and report per-stage timings.

With --holdout the tail of the training set is held back and classified
instead of the test set, and accuracy against its labels is reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchmarkRuns < 1 {
			return fmt.Errorf("runs must be >= 1")
		}
		if benchmarkHoldout < 0 || benchmarkHoldout >= 1 {
			return fmt.Errorf("holdout must be in [0, 1)")
		}

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if cmd.Flags().Changed("partitions") {
			rt.cfg.Performance.Partitions = benchmarkPartitions
		}
		if cmd.Flags().Changed("workers") {
			rt.cfg.Performance.Workers = benchmarkWorkers
		}

		ctx := context.Background()
		prof := profiler.New()

		timer := prof.Start(profiler.StageLoad)
		records, err := sentiment.NewLoader(rt.cfg.Data).LoadTrainingFile(rt.cfg.Data.TrainingSet)
		if err != nil {
			return err
		}
		stopwords, err := loadStopwords(rt.cfg)
		if err != nil {
			return err
		}

		train, held := splitHoldout(records, benchmarkHoldout)
		var tests []corpus.TestRecord
		if held != nil {
			for _, r := range held {
				tests = append(tests, corpus.TestRecord{ID: r.ID, Tokens: r.Tokens})
			}
		} else if tests, err = loadTestSet(rt.cfg); err != nil {
			return err
		}
		timer.Stop()

		fmt.Printf("🚀 SENTINB Performance Benchmark\n")
		fmt.Printf("📁 Training documents: %d\n", len(train))
		fmt.Printf("📝 Documents to classify: %d\n", len(tests))
		fmt.Printf("🔄 Benchmark runs: %d\n", benchmarkRuns)
		fmt.Printf("🧩 Aggregation partitions: %d\n", rt.cfg.Performance.Partitions)
		fmt.Printf("⚡ Classification workers: %d\n", rt.cfg.Performance.Workers)
		fmt.Printf("\n")

		start := time.Now()
		var correct, total int
		for run := 0; run < benchmarkRuns; run++ {
			p := sentiment.New(rt.cfg, sentiment.WithLogger(rt.log), sentiment.WithProfiler(prof))
			if _, err := p.Train(ctx, train, stopwords); err != nil {
				return err
			}
			predictions, err := p.ClassifyAll(ctx, tests)
			if err != nil {
				return err
			}

			if run == 0 && held != nil {
				for i, pred := range predictions {
					total++
					if pred.Label == held[i].Label {
						correct++
					}
				}
			}
		}
		elapsed := time.Since(start)

		prof.PrintReport(os.Stdout)
		fmt.Printf("\n")
		fmt.Printf("⏱️  Total time: %v\n", elapsed)
		perRun := elapsed / time.Duration(benchmarkRuns)
		fmt.Printf("📈 Per run: %s\n", profiler.FormatDuration(perRun))
		if avg := prof.GetStats(profiler.StageClassify).Average; avg > 0 && len(tests) > 0 {
			fmt.Printf("📨 Classification rate: %.0f docs/second\n", float64(len(tests))/avg.Seconds())
		}
		if total > 0 {
			fmt.Printf("🎯 Holdout accuracy: %.2f%% (%d/%d)\n", 100*float64(correct)/float64(total), correct, total)
		}

		return nil
	},
}

// splitHoldout keeps the first part of records for training and returns the
// trailing fraction as held-out records. A zero fraction holds nothing back.
func splitHoldout(records []corpus.TrainingRecord, fraction float64) (train, held []corpus.TrainingRecord) {
	n := int(float64(len(records)) * fraction)
	if n == 0 {
		return records, nil
	}
	cut := len(records) - n
	return records[:cut], records[cut:]
}

func init() {
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 3, "Number of train+classify runs")
	benchmarkCmd.Flags().Float64Var(&benchmarkHoldout, "holdout", 0, "Fraction of the training set to hold out for accuracy, 0 = use the test set")
	benchmarkCmd.Flags().IntVarP(&benchmarkPartitions, "partitions", "p", 1, "Aggregation partitions (overrides config)")
	benchmarkCmd.Flags().IntVarP(&benchmarkWorkers, "workers", "w", 4, "Classification workers (overrides config)")
}
