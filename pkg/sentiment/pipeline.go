// Package sentiment wires the corpus, weighting, frequency, vocabulary and
// estimation stages into a train-then-classify pipeline.
package sentiment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sentinb/sentiment-filter/pkg/config"
	"github.com/sentinb/sentiment-filter/pkg/corpus"
	"github.com/sentinb/sentiment-filter/pkg/estimate"
	"github.com/sentinb/sentiment-filter/pkg/frequency"
	"github.com/sentinb/sentiment-filter/pkg/learning"
	"github.com/sentinb/sentiment-filter/pkg/logging"
	"github.com/sentinb/sentiment-filter/pkg/profiler"
	"github.com/sentinb/sentiment-filter/pkg/tracker"
	"github.com/sentinb/sentiment-filter/pkg/vocabulary"
	"github.com/sentinb/sentiment-filter/pkg/weighting"
)

// Pipeline trains a model and classifies test records with it
type Pipeline struct {
	config     *config.Config
	log        logrus.FieldLogger
	profiler   *profiler.Profiler
	tracker    *tracker.PredictionTracker
	classifier *learning.Classifier
	model      *learning.Model
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithProfiler records stage timings into prof
func WithProfiler(prof *profiler.Profiler) Option {
	return func(p *Pipeline) { p.profiler = prof }
}

// New creates a pipeline; a nil config means defaults
func New(cfg *config.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Pipeline{
		config:     cfg,
		log:        logging.Discard(),
		tracker:    tracker.NewPredictionTracker(),
		classifier: learning.NewClassifier(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WeightingOptions converts the pipeline config section
func WeightingOptions(cfg config.PipelineConfig) (weighting.Options, error) {
	policy, err := weighting.ParseZeroNormPolicy(cfg.ZeroNormPolicy)
	if err != nil {
		return weighting.Options{}, err
	}
	return weighting.Options{
		LogTF:          cfg.LogTF,
		IDF:            cfg.IDF,
		LengthNorm:     cfg.LengthNorm,
		ZeroNormPolicy: policy,
	}, nil
}

// Train builds a model from labeled records and fits the pipeline's classifier
func (p *Pipeline) Train(ctx context.Context, records []corpus.TrainingRecord, stopwords vocabulary.Stopwords) (*learning.Model, error) {
	opts, err := WeightingOptions(p.config.Pipeline)
	if err != nil {
		return nil, err
	}

	set, err := corpus.NewDocumentSet(records)
	if err != nil {
		return nil, err
	}

	timer := p.profiler.Start(profiler.StageWeighting)
	set, err = weighting.Apply(set, opts)
	timer.Stop()
	if err != nil {
		return nil, err
	}
	if dropped := len(records) - set.Len(); dropped > 0 {
		p.log.WithField("dropped", dropped).Warn("documents with zero weight vector dropped")
	}

	timer = p.profiler.Start(profiler.StageAggregate)
	tables, err := frequency.AggregateParallel(ctx, set, p.config.Performance.Partitions)
	timer.Stop()
	if err != nil {
		return nil, err
	}

	reduce := vocabulary.Options{TopK: p.config.Pipeline.TopK}
	if p.config.Pipeline.RemoveStopwords {
		reduce.Stopwords = stopwords
	}
	timer = p.profiler.Start(profiler.StageVocabulary)
	vocab := vocabulary.Reduce(tables.Corpus, reduce)
	timer.Stop()

	p.log.WithFields(logrus.Fields{
		"documents":  tables.Documents,
		"classes":    len(tables.Classes),
		"corpus":     tables.Corpus.Len(),
		"vocabulary": vocab.Len(),
	}).Debug("aggregated training corpus")

	timer = p.profiler.Start(profiler.StageLikelihoods)
	likelihoods := estimate.EstimateLikelihoods(tables, vocab)
	priors, err := estimate.EstimatePriors(set.Labels())
	timer.Stop()
	if err != nil {
		return nil, err
	}

	model := &learning.Model{
		Info: learning.ModelInfo{
			RunID:          uuid.NewString(),
			Documents:      tables.Documents,
			Classes:        priors.Classes(),
			VocabularySize: vocab.Len(),
			TrainedAt:      time.Now().UTC(),
			Weighting:      p.config.WeightingNames(),
			Stopwords:      reduce.Stopwords.Len(),
			TopK:           p.config.Pipeline.TopK,
		},
		Priors:      priors,
		Likelihoods: likelihoods,
		Vocabulary:  vocab,
		ClassTotals: tables.ClassTotals,
	}

	if err := p.Use(model); err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"run_id":     model.Info.RunID,
		"documents":  model.Info.Documents,
		"classes":    model.Info.Classes,
		"vocabulary": model.Info.VocabularySize,
	}).Info("model trained")

	return model, nil
}

// Use fits the classifier with an existing model, e.g. one loaded from a store
func (p *Pipeline) Use(model *learning.Model) error {
	if err := p.classifier.Fit(model.Priors, model.Likelihoods); err != nil {
		return err
	}
	p.model = model
	return nil
}

// Model returns the model in use, or nil before Train or Use
func (p *Pipeline) Model() *learning.Model {
	return p.model
}

// Tracker returns the prediction counts of this pipeline
func (p *Pipeline) Tracker() *tracker.PredictionTracker {
	return p.tracker
}

// Classify predicts the class of one tokenized document
func (p *Pipeline) Classify(tokens []string) (string, error) {
	label, err := p.classifier.Classify(tokens)
	if err != nil {
		return "", err
	}
	p.tracker.Track(label)
	return label, nil
}

// Scores returns the per-class log scores of one tokenized document
func (p *Pipeline) Scores(tokens []string) ([]learning.ClassScore, error) {
	return p.classifier.Scores(tokens)
}

// ClassifyAll predicts every record with a pool of workers. Predictions are
// returned in input order.
func (p *Pipeline) ClassifyAll(ctx context.Context, records []corpus.TestRecord) ([]learning.Prediction, error) {
	if !p.classifier.Trained() {
		return nil, learning.ErrNotTrained
	}
	if len(records) == 0 {
		return []learning.Prediction{}, nil
	}

	workers := p.config.Performance.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}

	type classifyJob struct {
		Index int
	}

	type classifyResult struct {
		Index int
		Label string
		Error error
	}

	jobChan := make(chan classifyJob, len(records))
	resultChan := make(chan classifyResult, len(records))

	var processed int32
	defer p.profiler.Start(profiler.StageClassify).Stop()

	var workerWG sync.WaitGroup
	for i := 0; i < workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()

			for job := range jobChan {
				if err := ctx.Err(); err != nil {
					resultChan <- classifyResult{Index: job.Index, Error: err}
					continue
				}

				timer := p.profiler.Start(profiler.StageDocument)
				label, err := p.Classify(records[job.Index].Tokens)
				timer.Stop()

				resultChan <- classifyResult{Index: job.Index, Label: label, Error: err}
				atomic.AddInt32(&processed, 1)
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for i := range records {
			jobChan <- classifyJob{Index: i}
		}
	}()

	go func() {
		defer close(resultChan)
		workerWG.Wait()
	}()

	predictions := make([]learning.Prediction, len(records))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("record %s: %w", records[result.Index].ID, result.Error)
			}
			continue
		}
		predictions[result.Index] = learning.Prediction{
			ID:    records[result.Index].ID,
			Label: result.Label,
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	p.log.WithFields(logrus.Fields{
		"records": atomic.LoadInt32(&processed),
		"workers": workers,
	}).Info("classified test records")

	return predictions, nil
}
