package learning

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentinb/sentiment-filter/pkg/estimate"
	"github.com/sentinb/sentiment-filter/pkg/frequency"
)

// RedisStore keeps a model in Redis hashes:
//
//	<prefix>:meta               model info fields
//	<prefix>:priors             class -> P(class)
//	<prefix>:totals             class -> total weight
//	<prefix>:likelihood:<class> word -> P(word|class)
//	<prefix>:vocab              list of words in first-seen order
//	<prefix>:freq               word -> corpus frequency
type RedisStore struct {
	client *redis.Client
	config *RedisConfig
}

// RedisConfig holds Redis model store configuration
type RedisConfig struct {
	RedisURL    string `json:"redis_url" yaml:"redis_url"`
	KeyPrefix   string `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum int    `json:"database_num" yaml:"database_num"`
	BatchSize   int    `json:"batch_size" yaml:"batch_size"`
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "sentinb:model",
		DatabaseNum: 0,
		BatchSize:   500,
	}
}

// NewRedisStore connects to Redis and returns a model store
func NewRedisStore(ctx context.Context, config *RedisConfig) (*RedisStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	// Parse Redis URL
	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis connection failed: %w", err)
	}

	return &RedisStore{client: client, config: config}, nil
}

// Save replaces any stored model with m in a single MULTI/EXEC transaction.
// The keys of the previous model are collected first and deleted inside the
// same transaction, so a failed write leaves the old model in place.
func (rs *RedisStore) Save(ctx context.Context, m *Model) error {
	stale, err := rs.modelKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list previous model: %w", err)
	}

	classes, err := json.Marshal(m.Info.Classes)
	if err != nil {
		return err
	}
	weighting, err := json.Marshal(m.Info.Weighting)
	if err != nil {
		return err
	}

	pipe := rs.client.TxPipeline()

	if len(stale) > 0 {
		pipe.Del(ctx, stale...)
	}

	pipe.HSet(ctx, rs.key("meta"), map[string]interface{}{
		"run_id":          m.Info.RunID,
		"documents":       m.Info.Documents,
		"classes":         string(classes),
		"vocabulary_size": m.Info.VocabularySize,
		"trained_at":      m.Info.TrainedAt.Unix(),
		"weighting":       string(weighting),
		"stopwords":       m.Info.Stopwords,
		"top_k":           m.Info.TopK,
	})

	if len(m.Priors) > 0 {
		pipe.HSet(ctx, rs.key("priors"), floatFields(m.Priors))
	}
	if len(m.ClassTotals) > 0 {
		pipe.HSet(ctx, rs.key("totals"), floatFields(m.ClassTotals))
	}
	for class, probs := range m.Likelihoods {
		if len(probs) > 0 {
			pipe.HSet(ctx, rs.likelihoodKey(class), floatFields(probs))
		}
	}

	if m.Vocabulary != nil && m.Vocabulary.Len() > 0 {
		words := make([]interface{}, len(m.Vocabulary.Words))
		for i, w := range m.Vocabulary.Words {
			words[i] = w
		}
		pipe.RPush(ctx, rs.key("vocab"), words...)
		pipe.HSet(ctx, rs.key("freq"), floatFields(m.Vocabulary.Freq))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store model: %w", err)
	}
	return nil
}

// Load reads the stored model
func (rs *RedisStore) Load(ctx context.Context) (*Model, error) {
	meta, err := rs.client.HGetAll(ctx, rs.key("meta")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read model info: %w", err)
	}
	if len(meta) == 0 {
		return nil, ErrModelNotFound
	}

	m := &Model{}
	m.Info.RunID = meta["run_id"]
	m.Info.Documents, _ = strconv.Atoi(meta["documents"])
	m.Info.VocabularySize, _ = strconv.Atoi(meta["vocabulary_size"])
	m.Info.Stopwords, _ = strconv.Atoi(meta["stopwords"])
	m.Info.TopK, _ = strconv.Atoi(meta["top_k"])
	if ts, err := strconv.ParseInt(meta["trained_at"], 10, 64); err == nil {
		m.Info.TrainedAt = time.Unix(ts, 0)
	}
	if err := json.Unmarshal([]byte(meta["classes"]), &m.Info.Classes); err != nil {
		return nil, fmt.Errorf("corrupt class list: %w", err)
	}
	if w := meta["weighting"]; w != "" && w != "null" {
		if err := json.Unmarshal([]byte(w), &m.Info.Weighting); err != nil {
			return nil, fmt.Errorf("corrupt weighting list: %w", err)
		}
	}

	// Fetch the remaining tables in one round trip
	pipe := rs.client.Pipeline()
	priorsCmd := pipe.HGetAll(ctx, rs.key("priors"))
	totalsCmd := pipe.HGetAll(ctx, rs.key("totals"))
	vocabCmd := pipe.LRange(ctx, rs.key("vocab"), 0, -1)
	freqCmd := pipe.HGetAll(ctx, rs.key("freq"))
	likelihoodCmds := make(map[string]*redis.MapStringStringCmd, len(m.Info.Classes))
	for _, class := range m.Info.Classes {
		likelihoodCmds[class] = pipe.HGetAll(ctx, rs.likelihoodKey(class))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read model tables: %w", err)
	}

	if m.Priors, err = parseFloatFields(priorsCmd.Val()); err != nil {
		return nil, fmt.Errorf("corrupt priors: %w", err)
	}
	if m.ClassTotals, err = parseFloatFields(totalsCmd.Val()); err != nil {
		return nil, fmt.Errorf("corrupt class totals: %w", err)
	}

	m.Likelihoods = make(estimate.Likelihoods, len(likelihoodCmds))
	for class, cmd := range likelihoodCmds {
		probs, err := parseFloatFields(cmd.Val())
		if err != nil {
			return nil, fmt.Errorf("corrupt likelihoods for %s: %w", class, err)
		}
		m.Likelihoods[class] = probs
	}

	freq, err := parseFloatFields(freqCmd.Val())
	if err != nil {
		return nil, fmt.Errorf("corrupt vocabulary: %w", err)
	}
	m.Vocabulary = frequency.NewCorpusFrequency()
	for _, word := range vocabCmd.Val() {
		m.Vocabulary.Add(word, freq[word])
	}

	return m, nil
}

// modelKeys lists every key under the store prefix
func (rs *RedisStore) modelKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := rs.client.Scan(ctx, 0, rs.config.KeyPrefix+":*", 1000).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Reset deletes every key of the stored model
func (rs *RedisStore) Reset(ctx context.Context) error {
	iter := rs.client.Scan(ctx, 0, rs.config.KeyPrefix+":*", 1000).Iterator()

	batch := rs.config.BatchSize
	if batch <= 0 {
		batch = 500
	}

	pipe := rs.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++

		// Execute in batches
		if count >= batch {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
			pipe = rs.client.Pipeline()
			count = 0
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if count > 0 {
		_, err := pipe.Exec(ctx)
		return err
	}

	return nil
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:%s", rs.config.KeyPrefix, name)
}

func (rs *RedisStore) likelihoodKey(class string) string {
	// Hash long labels to keep key size manageable
	if len(class) > 64 {
		h := sha1.Sum([]byte(class))
		class = fmt.Sprintf("hash_%x", h)
	}
	return fmt.Sprintf("%s:likelihood:%s", rs.config.KeyPrefix, class)
}

func floatFields(m map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

func parseFloatFields(m map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}
