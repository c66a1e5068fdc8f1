package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/sentiment"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored model as JSON",
	Long: `Write the stored model (info, priors, likelihoods, vocabulary and class
totals) as indented JSON. Useful for moving a model from Redis to a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var w io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %v", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model); err != nil {
			return fmt.Errorf("failed to encode model: %v", err)
		}

		if exportOutput != "" {
			fmt.Fprintf(os.Stderr, "💾 Model %s exported to: %s\n", model.Info.RunID, exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, default stdout")
}
