package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MaxSentimentRunes bounds the text handed to the sentiment oracle.
const MaxSentimentRunes = 512

type Service struct {
	log         *slog.Logger
	db          DB
	normalizer  Normalizer
	oracle      SentimentOracle
	modeler     TopicModeler
	source      ReviewSource
	publisher   Publisher
	concurrency int
	batchSize   int
	inProgress  atomic.Bool
}

func NewService(
	log *slog.Logger,
	db DB,
	normalizer Normalizer,
	oracle SentimentOracle,
	modeler TopicModeler,
	source ReviewSource,
	publisher Publisher,
	concurrency int,
	batchSize int,
) (*Service, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("wrong concurrency specified: %d", concurrency)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("wrong batch size specified: %d", batchSize)
	}
	return &Service{
		log:         log,
		db:          db,
		normalizer:  normalizer,
		oracle:      oracle,
		modeler:     modeler,
		source:      source,
		publisher:   publisher,
		concurrency: concurrency,
		batchSize:   batchSize,
	}, nil
}

func (s *Service) Status(ctx context.Context) ServiceStatus {
	if s.inProgress.Load() {
		return StatusRunning
	}
	return StatusIdle
}

func (s *Service) Analyze(ctx context.Context, reviews []Review, params AnalysisParams) (Report, error) {
	if err := params.Validate(); err != nil {
		return Report{}, err
	}
	if err := ValidateReviews(reviews); err != nil {
		s.log.Warn("review batch rejected", "error", err)
		return Report{}, err
	}
	if !s.inProgress.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyExists
	}
	defer s.inProgress.Store(false)

	return s.analyze(ctx, reviews, params, "upload")
}

func (s *Service) AnalyzeScraped(ctx context.Context, req ScrapeRequest, params AnalysisParams) (Report, error) {
	if err := params.Validate(); err != nil {
		return Report{}, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return Report{}, &InvalidConfigurationError{Param: "query", Reason: "empty search query"}
	}
	if s.source == nil {
		return Report{}, ErrServiceUnavailable
	}
	if !s.inProgress.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyExists
	}
	defer s.inProgress.Store(false)

	reviews, err := s.source.Fetch(ctx, req)
	if err != nil {
		s.log.Error("failed to fetch reviews", "query", req.Query, "error", err)
		return Report{}, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	s.log.Debug("fetched reviews", "query", req.Query, "count", len(reviews))
	if err := ValidateReviews(reviews); err != nil {
		s.log.Warn("scraped batch rejected", "error", err)
		return Report{}, err
	}
	return s.analyze(ctx, reviews, params, "scrape:"+req.Query)
}

func (s *Service) analyze(ctx context.Context, reviews []Review, params AnalysisParams, source string) (Report, error) {
	s.log.Info("analysis started", "reviews", len(reviews), "n_topics", params.NTopics)
	defer func(start time.Time) {
		s.log.Info("analysis finished", "duration", time.Since(start))
	}(time.Now())

	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text
	}

	docs, err := s.normalize(ctx, texts)
	if err != nil {
		return Report{}, err
	}

	model, err := s.modeler.Fit(ctx, docs, params)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrInvalidConfiguration) {
			s.log.Warn("topic model not fitted", "error", err)
			return Report{}, err
		}
		s.log.Error("failed to fit topic model", "error", err)
		return Report{}, fmt.Errorf("failed to fit topic model: %w", err)
	}

	topics, err := model.Topics(params.NWordsPerTopic)
	if err != nil {
		s.log.Error("failed to extract topics", "error", err)
		return Report{}, fmt.Errorf("failed to extract topics: %w", err)
	}

	sentiments, distributions, err := s.score(ctx, texts, docs, model)
	if err != nil {
		s.log.Error("failed to score reviews", "error", err)
		return Report{}, fmt.Errorf("failed to score reviews: %w", err)
	}

	analyzed := make([]AnalyzedReview, len(reviews))
	for i, r := range reviews {
		analyzed[i] = AnalyzedReview{
			Review:        r,
			Sentiment:     sentiments[i],
			Score:         sentiments[i].Score(),
			Topics:        distributions[i],
			DominantTopic: distributions[i].Dominant(),
		}
	}

	report := Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Params:    params,
		Topics:    topics,
		Reviews:   analyzed,
		Products:  Aggregate(analyzed),
		Overview:  Overview(sentiments),
	}

	if err := s.db.Save(ctx, report); err != nil {
		s.log.Error("failed to save report", "run_id", report.ID, "error", err)
		return Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	s.log.Debug("report saved", "run_id", report.ID, "products", len(report.Products))

	if err := s.publisher.Publish(EventAnalysisCompleted); err != nil {
		s.log.Error("failed to publish", "error", err)
	}
	return report, nil
}

// normalize sends texts to the normalizer in batches and stops between
// batches once ctx is done.
func (s *Service) normalize(ctx context.Context, texts []string) ([][]string, error) {
	docs := make([][]string, 0, len(texts))
	for lo := 0; lo < len(texts); lo += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+s.batchSize, len(texts))
		batch, err := s.normalizer.Norm(ctx, texts[lo:hi])
		if err != nil {
			s.log.Error("failed to normalize reviews", "from", lo, "to", hi, "error", err)
			return nil, fmt.Errorf("failed to normalize reviews: %w", err)
		}
		if len(batch) != hi-lo {
			return nil, fmt.Errorf("normalizer returned %d documents for %d texts", len(batch), hi-lo)
		}
		docs = append(docs, batch...)
	}
	return docs, nil
}

type jobKind int

const (
	jobSentiment jobKind = iota
	jobTransform
)

type batchJob struct {
	kind   jobKind
	lo, hi int
}

type batchResult struct {
	job           batchJob
	sentiments    []SentimentResult
	distributions []TopicDistribution
	err           error
}

// score runs sentiment and topic projection batches on the worker pool and
// reassembles the results in input order.
func (s *Service) score(
	ctx context.Context, texts []string, docs [][]string, model TopicModel,
) ([]SentimentResult, []TopicDistribution, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var batches []batchJob
	for lo := 0; lo < len(texts); lo += s.batchSize {
		hi := min(lo+s.batchSize, len(texts))
		batches = append(batches, batchJob{kind: jobSentiment, lo: lo, hi: hi})
		batches = append(batches, batchJob{kind: jobTransform, lo: lo, hi: hi})
	}

	jobs := make(chan batchJob, len(batches))
	results := make(chan batchResult, len(batches))

	for w := 1; w <= s.concurrency; w++ {
		go s.worker(ctx, texts, docs, model, jobs, results)
	}
	for _, job := range batches {
		jobs <- job
	}
	close(jobs)

	sentiments := make([]SentimentResult, len(texts))
	distributions := make([]TopicDistribution, len(texts))
	var firstErr error
	for range len(batches) {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		switch res.job.kind {
		case jobSentiment:
			copy(sentiments[res.job.lo:res.job.hi], res.sentiments)
		case jobTransform:
			copy(distributions[res.job.lo:res.job.hi], res.distributions)
		}
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return sentiments, distributions, nil
}

func (s *Service) worker(
	ctx context.Context,
	texts []string,
	docs [][]string,
	model TopicModel,
	jobs <-chan batchJob,
	results chan<- batchResult,
) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- batchResult{job: job, err: err}
			continue
		}
		res := batchResult{job: job}
		switch job.kind {
		case jobSentiment:
			res.sentiments, res.err = s.classify(ctx, texts[job.lo:job.hi])
		case jobTransform:
			res.distributions, res.err = model.Transform(docs[job.lo:job.hi])
			if res.err == nil && len(res.distributions) != job.hi-job.lo {
				res.err = fmt.Errorf("model returned %d distributions for %d documents", len(res.distributions), job.hi-job.lo)
			}
		}
		results <- res
	}
}

// classify asks the oracle about non-blank texts only. Blank texts are
// neutral with full confidence.
func (s *Service) classify(ctx context.Context, texts []string) ([]SentimentResult, error) {
	out := make([]SentimentResult, len(texts))
	var (
		pending []string
		slots   []int
	)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out[i] = NeutralResult()
			continue
		}
		pending = append(pending, truncateRunes(text, MaxSentimentRunes))
		slots = append(slots, i)
	}
	if len(pending) == 0 {
		return out, nil
	}

	results, err := s.oracle.Classify(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to classify sentiment: %w", err)
	}
	if len(results) != len(pending) {
		return nil, fmt.Errorf("sentiment oracle returned %d results for %d texts", len(results), len(pending))
	}
	for j, i := range slots {
		out[i] = results[j]
	}
	return out, nil
}

func truncateRunes(text string, limit int) string {
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// Classify runs sentiment analysis only, batch by batch.
func (s *Service) Classify(ctx context.Context, texts []string) ([]SentimentResult, error) {
	out := make([]SentimentResult, 0, len(texts))
	for lo := 0; lo < len(texts); lo += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+s.batchSize, len(texts))
		batch, err := s.classify(ctx, texts[lo:hi])
		if err != nil {
			s.log.Error("failed to classify texts", "from", lo, "to", hi, "error", err)
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// Topics fits a topic model on documents and projects them onto it.
func (s *Service) Topics(ctx context.Context, documents []string, params AnalysisParams) (TopicsResult, error) {
	if err := params.Validate(); err != nil {
		return TopicsResult{}, err
	}

	docs, err := s.normalize(ctx, documents)
	if err != nil {
		return TopicsResult{}, err
	}
	model, err := s.modeler.Fit(ctx, docs, params)
	if err != nil {
		s.log.Warn("topic model not fitted", "error", err)
		return TopicsResult{}, fmt.Errorf("failed to fit topic model: %w", err)
	}
	topics, err := model.Topics(params.NWordsPerTopic)
	if err != nil {
		return TopicsResult{}, fmt.Errorf("failed to extract topics: %w", err)
	}
	distributions, err := model.Transform(docs)
	if err != nil {
		return TopicsResult{}, fmt.Errorf("failed to project documents: %w", err)
	}
	return TopicsResult{Topics: topics, Distributions: distributions}, nil
}

func (s *Service) Runs(ctx context.Context, filter RunFilter) ([]RunInfo, error) {
	runs, err := s.db.Runs(ctx, filter)
	if err != nil {
		s.log.Error("failed to list runs", "error", err)
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (s *Service) Run(ctx context.Context, id string) (Report, error) {
	report, err := s.db.Run(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("run not found", "run_id", id)
		} else {
			s.log.Error("failed to get run", "run_id", id, "error", err)
		}
		return Report{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return report, nil
}

func (s *Service) Drop(ctx context.Context) error {
	if !s.inProgress.CompareAndSwap(false, true) {
		return ErrAlreadyExists
	}
	defer s.inProgress.Store(false)

	if err := s.db.Drop(ctx); err != nil {
		s.log.Error("failed to drop runs", "error", err)
		return fmt.Errorf("failed to drop runs: %w", err)
	}
	if err := s.publisher.Publish(EventReset); err != nil {
		s.log.Error("failed to publish", "error", err)
	}
	return nil
}
