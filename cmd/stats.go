package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/dataset"
	"github.com/sentinb/sentiment-filter/pkg/sentiment"
)

var (
	statsTopWords  int
	statsWordsFile string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics of the stored model",
	Long: `Print model information, class priors and the most likely words per class.

With --words the command instead counts the whitespace-separated words of any
text file, most frequent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsWordsFile != "" {
			return printWordCounts(statsWordsFile, statsTopWords)
		}

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := context.Background()
		store, err := sentiment.OpenStore(ctx, rt.cfg.Learning)
		if err != nil {
			return fmt.Errorf("failed to open model store: %v", err)
		}
		defer store.Close()

		model, err := store.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}

		limit := rt.cfg.Learning.TopWords
		if cmd.Flags().Changed("top") {
			limit = statsTopWords
		}
		model.PrintStats(os.Stdout, limit)
		return nil
	},
}

func printWordCounts(path string, limit int) error {
	counts, err := dataset.CountWords(path)
	if err != nil {
		return fmt.Errorf("failed to count words: %v", err)
	}

	fmt.Printf("📖 %s: %d distinct words\n", path, len(counts))
	for i, wc := range counts {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Printf("  %-24s %d\n", wc.Word, wc.Count)
	}
	return nil
}

func init() {
	statsCmd.Flags().IntVarP(&statsTopWords, "top", "n", 10, "Number of words to show")
	statsCmd.Flags().StringVar(&statsWordsFile, "words", "", "Count words in this file instead of reading the model")
}
