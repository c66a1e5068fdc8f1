package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentinb/sentiment-filter/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage SENTINB configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to choose weighting, stopwords and the model backend\n")
		fmt.Printf("🚀 Use 'sentinb train --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if warnings := validateConfigLogic(cfg); len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("📁 Data:\n")
		fmt.Printf("  Training set: %s\n", cfg.Data.TrainingSet)
		fmt.Printf("  Testing set: %s\n", cfg.Data.TestingSet)
		fmt.Printf("  Results: %s\n", cfg.Data.Results)
		fmt.Printf("  Stopwords: %s\n", cfg.Data.Stopwords)
		fmt.Printf("  Unicode NFC: %v, stemming: %v\n", cfg.Data.NormalizeUnicode, cfg.Data.Stem)

		fmt.Printf("\n⚖️  Pipeline:\n")
		fmt.Printf("  Weighting: %v\n", cfg.WeightingNames())
		fmt.Printf("  Zero-norm policy: %s\n", cfg.Pipeline.ZeroNormPolicy)
		fmt.Printf("  Remove stopwords: %v\n", cfg.Pipeline.RemoveStopwords)
		fmt.Printf("  Top-K: %d\n", cfg.Pipeline.TopK)

		fmt.Printf("\n💾 Learning:\n")
		fmt.Printf("  Backend: %s\n", cfg.Learning.Backend)
		if cfg.Learning.Backend == "redis" {
			fmt.Printf("  Redis: %s (db %d, prefix %s)\n",
				cfg.Learning.Redis.RedisURL, cfg.Learning.Redis.DatabaseNum, cfg.Learning.Redis.KeyPrefix)
		} else {
			fmt.Printf("  Model path: %s\n", cfg.Learning.File.ModelPath)
		}

		fmt.Printf("\n⚡ Performance:\n")
		fmt.Printf("  Workers: %d\n", cfg.Performance.Workers)
		fmt.Printf("  Partitions: %d\n", cfg.Performance.Partitions)

		fmt.Printf("\n📜 Logging:\n")
		fmt.Printf("  Level: %s, format: %s\n", cfg.Logging.Level, cfg.Logging.Format)

		return nil
	},
}

// validateConfigLogic reports settings that are valid but probably unintended
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if !cfg.Pipeline.RemoveStopwords && cfg.Data.Stopwords != "" {
		warnings = append(warnings, "Stopword file is set but remove_stopwords is off")
	}

	if cfg.Pipeline.RemoveStopwords && cfg.Data.Stopwords == "" {
		warnings = append(warnings, "remove_stopwords is on but no stopword file is set")
	}

	if !cfg.Pipeline.LengthNorm && cfg.Pipeline.ZeroNormPolicy != "" && cfg.Pipeline.ZeroNormPolicy != "keep" {
		warnings = append(warnings, "zero_norm_policy only applies when length_norm is on")
	}

	if cfg.Pipeline.IDF {
		warnings = append(warnings, "IDF gives zero weight to words present in every training document")
	}

	if cfg.Performance.Workers > 64 {
		warnings = append(warnings, "High worker count might not improve classification speed")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
