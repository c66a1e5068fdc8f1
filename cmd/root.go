package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sentinb/sentiment-filter/pkg/config"
	"github.com/sentinb/sentiment-filter/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sentinb",
	Short: "SENTINB - Naive Bayes sentiment classifier",
	Long: `SENTINB trains a multinomial Naive Bayes model on labeled posts and
predicts the sentiment class of unlabeled ones.

Training and test sets are CSV files; predictions are written as ID,Sentiment.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("SENTINB - Naive Bayes Sentiment Classifier")
		fmt.Println("Use 'sentinb --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (env SENTINB_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "Override logging level (env SENTINB_LOG_LEVEL)")

	viper.SetEnvPrefix("sentinb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(benchmarkCmd)
}

// cliRuntime is the configuration and logger shared by every subcommand
type cliRuntime struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
}

func (r *cliRuntime) Close() error {
	return r.closer.Close()
}

// loadRuntime reads the configuration named by --config or SENTINB_CONFIG and
// builds the logger, applying a --log-level override
func loadRuntime() (*cliRuntime, error) {
	cfg, err := config.LoadConfig(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return &cliRuntime{cfg: cfg, log: log, closer: closer}, nil
}
