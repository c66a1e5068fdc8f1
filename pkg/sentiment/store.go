package sentiment

import (
	"context"
	"fmt"

	"github.com/sentinb/sentiment-filter/pkg/config"
	"github.com/sentinb/sentiment-filter/pkg/dataset"
	"github.com/sentinb/sentiment-filter/pkg/learning"
)

// OpenStore returns the model store selected by the learning backend
func OpenStore(ctx context.Context, cfg config.LearningConfig) (learning.ModelStore, error) {
	switch cfg.Backend {
	case "", "file":
		return learning.NewFileStore(cfg.File.ModelPath), nil
	case "redis":
		store, err := learning.NewRedisStore(ctx, &learning.RedisConfig{
			RedisURL:    cfg.Redis.RedisURL,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DatabaseNum: cfg.Redis.DatabaseNum,
			BatchSize:   cfg.Redis.BatchSize,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown learning backend: %s", cfg.Backend)
	}
}

// NewLoader returns a CSV loader configured by the data section
func NewLoader(cfg config.DataConfig) *dataset.Loader {
	return &dataset.Loader{
		Tokenizer: dataset.Tokenizer{
			Lowercase:        cfg.LowercaseText,
			NormalizeUnicode: cfg.NormalizeUnicode,
			Stem:             cfg.Stem,
		},
		HasHeader:       cfg.HasHeader,
		UppercaseLabels: cfg.UppercaseLabels,
	}
}
