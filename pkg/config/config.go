package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents SENTINB configuration
type Config struct {
	// Corpus files and loader settings
	Data DataConfig `yaml:"data"`

	// Term weighting and vocabulary reduction
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Model storage
	Learning LearningConfig `yaml:"learning"`

	// Performance settings
	Performance PerformanceConfig `yaml:"performance"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig describes the CSV corpora and how the loader tokenizes them
type DataConfig struct {
	TrainingSet string `yaml:"training_set"` // id,label,text
	TestingSet  string `yaml:"testing_set"`  // id,text
	Results     string `yaml:"results"`      // ID,Sentiment output
	Stopwords   string `yaml:"stopwords"`    // one word per line, empty = none

	HasHeader        bool `yaml:"has_header"`
	UppercaseLabels  bool `yaml:"uppercase_labels"`
	LowercaseText    bool `yaml:"lowercase_text"`
	NormalizeUnicode bool `yaml:"normalize_unicode"` // NFC before splitting
	Stem             bool `yaml:"stem"`              // Porter stemming
}

// PipelineConfig selects the term-weighting transforms and vocabulary reduction
type PipelineConfig struct {
	LogTF          bool   `yaml:"log_tf"`
	IDF            bool   `yaml:"idf"`
	LengthNorm     bool   `yaml:"length_norm"`
	ZeroNormPolicy string `yaml:"zero_norm_policy"` // keep, drop, error

	RemoveStopwords bool `yaml:"remove_stopwords"`
	TopK            int  `yaml:"top_k"` // 0 = keep the whole vocabulary
}

// LearningConfig contains model storage settings
type LearningConfig struct {
	// Backend selection: "file" or "redis"
	Backend string `yaml:"backend"`

	// File-based backend settings
	File FileBackendConfig `yaml:"file"`

	// Redis-based backend settings
	Redis RedisBackendConfig `yaml:"redis"`

	// Number of top words per class printed with model stats
	TopWords int `yaml:"top_words"`
}

// FileBackendConfig contains file-based storage settings
type FileBackendConfig struct {
	ModelPath string `yaml:"model_path"`
}

// RedisBackendConfig contains Redis-based storage settings
type RedisBackendConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
	BatchSize   int    `yaml:"batch_size"`
}

// PerformanceConfig contains performance tuning
type PerformanceConfig struct {
	Workers    int `yaml:"workers"`    // concurrent classification workers
	Partitions int `yaml:"partitions"` // aggregation partitions, 1 = sequential
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	File   string `yaml:"file"`   // log file path, empty = stderr
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns SENTINB default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			TrainingSet:      "training_set.csv",
			TestingSet:       "testing_set.csv",
			Results:          "Results.csv",
			Stopwords:        "stopwords.txt",
			HasHeader:        true,
			UppercaseLabels:  true,
			LowercaseText:    true,
			NormalizeUnicode: false,
			Stem:             false,
		},
		Pipeline: PipelineConfig{
			LogTF:           false,
			IDF:             true,
			LengthNorm:      false,
			ZeroNormPolicy:  "keep",
			RemoveStopwords: true,
			TopK:            0,
		},
		Learning: LearningConfig{
			Backend: "file",
			File: FileBackendConfig{
				ModelPath: "sentinb-model.json",
			},
			Redis: RedisBackendConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "sentinb:model",
				DatabaseNum: 0,
				BatchSize:   500,
			},
			TopWords: 10,
		},
		Performance: PerformanceConfig{
			Workers:    4,
			Partitions: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	// Write to file
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Pipeline.ZeroNormPolicy {
	case "", "keep", "drop", "error":
	default:
		return fmt.Errorf("zero_norm_policy must be 'keep', 'drop' or 'error'")
	}

	if c.Pipeline.TopK < 0 {
		return fmt.Errorf("top_k must be >= 0")
	}

	if c.Learning.Backend != "file" && c.Learning.Backend != "redis" {
		return fmt.Errorf("learning backend must be 'file' or 'redis'")
	}

	if c.Learning.Backend == "file" && c.Learning.File.ModelPath == "" {
		return fmt.Errorf("model_path cannot be empty for the file backend")
	}

	if c.Learning.Backend == "redis" && c.Learning.Redis.RedisURL == "" {
		return fmt.Errorf("redis_url cannot be empty for the redis backend")
	}

	// Validate performance settings
	if c.Performance.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}

	if c.Performance.Partitions < 1 {
		return fmt.Errorf("partitions must be >= 1")
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'text' or 'json'")
	}

	return nil
}

// WeightingNames lists the enabled transforms in the order they run
func (c *Config) WeightingNames() []string {
	var names []string
	if c.Pipeline.LogTF {
		names = append(names, "log_tf")
	}
	if c.Pipeline.IDF {
		names = append(names, "idf")
	}
	if c.Pipeline.LengthNorm {
		names = append(names, "length_norm")
	}
	return names
}
