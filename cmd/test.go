package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/learning"
	"github.com/sentinb/sentiment-filter/pkg/sentiment"
)

var testCmd = &cobra.Command{
	Use:   "test [text...]",
	Short: "Classify a single piece of text",
	Long:  `Tokenize the given text the way the test set is tokenized and print the score of every class`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		p := sentiment.New(rt.cfg, sentiment.WithLogger(rt.log))
		if err := useStoredModel(context.Background(), rt.cfg, p); err != nil {
			return err
		}

		text := strings.Join(args, " ")
		tokens := sentiment.NewLoader(rt.cfg.Data).Tokenizer.Tokenize(text)

		start := time.Now()
		scores, err := p.Scores(tokens)
		if err != nil {
			return err
		}
		duration := time.Since(start)

		fmt.Printf("SENTINB Test Results:\n")
		fmt.Printf("Text: %s\n", text)
		fmt.Printf("Tokens: %v\n", tokens)
		for _, s := range scores {
			fmt.Printf("  %-12s %12.4f\n", s.Class, s.Score)
		}
		fmt.Printf("Classification: %s\n", learning.Best(scores))
		fmt.Printf("Processing time: %.3fms\n", float64(duration.Nanoseconds())/1e6)

		return nil
	},
}
