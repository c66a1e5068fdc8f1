package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/config"
	"github.com/sentinb/sentiment-filter/pkg/dataset"
	"github.com/sentinb/sentiment-filter/pkg/sentiment"
)

var (
	classifyTestSet string
	classifyResults string
	classifyTrain   bool
	classifyWorkers int
	classifySummary bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Predict the sentiment of every post in a test CSV",
	Long: `Classify every id,text row of the test set and write ID,Sentiment rows in
input order.

The model is loaded from the configured backend. With --train the model is
trained from the configured training set first, the way the classic
train-then-predict run works.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if classifyTestSet != "" {
			rt.cfg.Data.TestingSet = classifyTestSet
		}
		if classifyResults != "" {
			rt.cfg.Data.Results = classifyResults
		}
		if cmd.Flags().Changed("workers") {
			rt.cfg.Performance.Workers = classifyWorkers
		}

		ctx := context.Background()
		p := sentiment.New(rt.cfg, sentiment.WithLogger(rt.log))

		if classifyTrain {
			if _, err := trainModel(ctx, rt.cfg, p, nil); err != nil {
				return err
			}
		} else if err := useStoredModel(ctx, rt.cfg, p); err != nil {
			return err
		}

		records, err := loadTestSet(rt.cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		predictions, err := p.ClassifyAll(ctx, records)
		if err != nil {
			return fmt.Errorf("classification failed: %v", err)
		}
		duration := time.Since(start)

		if err := dataset.WriteResultsFile(rt.cfg.Data.Results, predictions); err != nil {
			return err
		}

		fmt.Printf("✅ Classified %d posts in %v\n", len(predictions), duration)
		fmt.Printf("💾 Results written to: %s\n", rt.cfg.Data.Results)

		if classifySummary {
			fmt.Printf("\n")
			p.Tracker().PrintSummary(os.Stdout)
		}

		return nil
	},
}

// useStoredModel loads the model from the configured backend into p
func useStoredModel(ctx context.Context, cfg *config.Config, p *sentiment.Pipeline) error {
	store, err := sentiment.OpenStore(ctx, cfg.Learning)
	if err != nil {
		return fmt.Errorf("failed to open model store: %v", err)
	}
	defer store.Close()

	model, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load model (run 'sentinb train' first): %w", err)
	}
	return p.Use(model)
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyTestSet, "testing", "t", "", "Test CSV (overrides config)")
	classifyCmd.Flags().StringVarP(&classifyResults, "output", "o", "", "Results CSV (overrides config)")
	classifyCmd.Flags().BoolVar(&classifyTrain, "train", false, "Train from the configured training set before classifying")
	classifyCmd.Flags().IntVarP(&classifyWorkers, "workers", "w", 0, "Concurrent classification workers (overrides config)")
	classifyCmd.Flags().BoolVar(&classifySummary, "summary", true, "Print the predicted class distribution")
}
