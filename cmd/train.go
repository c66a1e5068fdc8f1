package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/config"
	"github.com/sentinb/sentiment-filter/pkg/corpus"
	"github.com/sentinb/sentiment-filter/pkg/dataset"
	"github.com/sentinb/sentiment-filter/pkg/learning"
	"github.com/sentinb/sentiment-filter/pkg/profiler"
	"github.com/sentinb/sentiment-filter/pkg/sentiment"
	"github.com/sentinb/sentiment-filter/pkg/vocabulary"
)

var (
	trainSet       string
	trainStopwords string
	trainModelPath string
	trainTopK      int
	trainStats     bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the Naive Bayes model from a labeled CSV",
	Long: `Train a multinomial Naive Bayes model from a CSV of id,label,text rows.

The configured term weighting (log-TF, IDF, length normalization) and vocabulary
reduction (stopwords, top-K) are applied before the probability tables are
estimated. The model is saved to the configured learning backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		applyTrainOverrides(cmd, rt.cfg)

		fmt.Printf("🧠 SENTINB Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Training set: %s\n", rt.cfg.Data.TrainingSet)
		fmt.Printf("⚖️  Weighting: %v\n", rt.cfg.WeightingNames())
		fmt.Printf("💾 Backend: %s\n", rt.cfg.Learning.Backend)
		fmt.Printf("\n")

		ctx := context.Background()
		start := time.Now()

		p := sentiment.New(rt.cfg, sentiment.WithLogger(rt.log))
		model, err := trainModel(ctx, rt.cfg, p, nil)
		if err != nil {
			return err
		}

		store, err := sentiment.OpenStore(ctx, rt.cfg.Learning)
		if err != nil {
			return fmt.Errorf("failed to open model store: %v", err)
		}
		defer store.Close()

		if err := store.Save(ctx, model); err != nil {
			return fmt.Errorf("failed to save model: %v", err)
		}

		duration := time.Since(start)
		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Documents: %d\n", model.Info.Documents)
		fmt.Printf("🏷️  Classes: %v\n", model.Info.Classes)
		fmt.Printf("📖 Vocabulary: %d words\n", model.Info.VocabularySize)
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		fmt.Printf("🔑 Run ID: %s\n", model.Info.RunID)

		if trainStats {
			fmt.Printf("\n")
			model.PrintStats(os.Stdout, rt.cfg.Learning.TopWords)
		}

		return nil
	},
}

// applyTrainOverrides copies explicitly set training flags into the config
func applyTrainOverrides(cmd *cobra.Command, cfg *config.Config) {
	if trainSet != "" {
		cfg.Data.TrainingSet = trainSet
	}
	if trainStopwords != "" {
		cfg.Data.Stopwords = trainStopwords
	}
	if trainModelPath != "" {
		cfg.Learning.File.ModelPath = trainModelPath
	}
	if cmd.Flags().Changed("top-k") {
		cfg.Pipeline.TopK = trainTopK
	}
}

// trainModel loads the training set and stopwords named by cfg and trains p.
// Stage timings go to prof when it is non-nil.
func trainModel(ctx context.Context, cfg *config.Config, p *sentiment.Pipeline, prof *profiler.Profiler) (*learning.Model, error) {
	timer := prof.Start(profiler.StageLoad)
	records, err := sentiment.NewLoader(cfg.Data).LoadTrainingFile(cfg.Data.TrainingSet)
	if err != nil {
		return nil, err
	}
	stopwords, err := loadStopwords(cfg)
	if err != nil {
		return nil, err
	}
	timer.Stop()

	return p.Train(ctx, records, stopwords)
}

func loadStopwords(cfg *config.Config) (vocabulary.Stopwords, error) {
	if !cfg.Pipeline.RemoveStopwords || cfg.Data.Stopwords == "" {
		return nil, nil
	}
	return dataset.LoadStopwords(cfg.Data.Stopwords)
}

func loadTestSet(cfg *config.Config) ([]corpus.TestRecord, error) {
	return sentiment.NewLoader(cfg.Data).LoadTestingFile(cfg.Data.TestingSet)
}

func init() {
	trainCmd.Flags().StringVarP(&trainSet, "training", "t", "", "Training CSV (overrides config)")
	trainCmd.Flags().StringVarP(&trainStopwords, "stopwords", "s", "", "Stopword file (overrides config)")
	trainCmd.Flags().StringVarP(&trainModelPath, "model", "m", "", "Model file for the file backend (overrides config)")
	trainCmd.Flags().IntVarP(&trainTopK, "top-k", "k", 0, "Keep only the K most frequent words, 0 = all")
	trainCmd.Flags().BoolVar(&trainStats, "stats", false, "Print model statistics after training")
}
