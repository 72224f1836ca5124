package core

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks.go -package=core

type Analyzer interface {
	Analyze(ctx context.Context, reviews []Review, params AnalysisParams) (Report, error)
	AnalyzeScraped(ctx context.Context, req ScrapeRequest, params AnalysisParams) (Report, error)
	Classify(ctx context.Context, texts []string) ([]SentimentResult, error)
	Topics(ctx context.Context, documents []string, params AnalysisParams) (TopicsResult, error)
	Runs(ctx context.Context, filter RunFilter) ([]RunInfo, error)
	Run(ctx context.Context, id string) (Report, error)
	Status(ctx context.Context) ServiceStatus
	Drop(ctx context.Context) error
}

// Normalizer turns texts into token documents, one per text, in order.
type Normalizer interface {
	Norm(ctx context.Context, texts []string) ([][]string, error)
}

// SentimentOracle returns one result per text, in order.
type SentimentOracle interface {
	Classify(ctx context.Context, texts []string) ([]SentimentResult, error)
}

type TopicModeler interface {
	Fit(ctx context.Context, documents [][]string, params AnalysisParams) (TopicModel, error)
}

// TopicModel is a fitted model. Implementations are immutable and safe for
// concurrent use.
type TopicModel interface {
	NTopics() int
	Topics(nWords int) ([]Topic, error)
	Transform(documents [][]string) ([]TopicDistribution, error)
}

type DB interface {
	Save(ctx context.Context, report Report) error
	Runs(ctx context.Context, filter RunFilter) ([]RunInfo, error)
	Run(ctx context.Context, id string) (Report, error)
	Drop(ctx context.Context) error
}

type ReviewSource interface {
	Fetch(ctx context.Context, req ScrapeRequest) ([]Review, error)
}

type Publisher interface {
	Publish(event EventType) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Authenticator interface {
	CreateToken(name, password string) (string, error)
	ValidateToken(tokenString string) error
}
