package core

import (
	"time"
	"unicode/utf8"
)

type ServiceStatus string

const (
	StatusRunning ServiceStatus = "running"
	StatusIdle    ServiceStatus = "idle"
)

type PingStatus string

const (
	StatusPingOK          PingStatus = "ok"
	StatusPingUnavailable PingStatus = "unavailable"
)

type EventType string

const (
	EventAnalysisCompleted EventType = "analysis.completed"
	EventReset             EventType = "analysis.reset"
)

// Review is a raw customer review as it was ingested. Rating is nil when the
// source did not provide one.
type Review struct {
	ID          string `json:"id" yaml:"id"`
	ProductID   string `json:"product_id" yaml:"product_id"`
	Text        string `json:"text" yaml:"text"`
	Rating      *int   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	ProductName string `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
}

type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

type Probabilities struct {
	Positive float64 `json:"positive" yaml:"positive"`
	Negative float64 `json:"negative" yaml:"negative"`
	Neutral  float64 `json:"neutral" yaml:"neutral"`
}

type SentimentResult struct {
	Label         Label         `json:"label" yaml:"label"`
	Confidence    float64       `json:"confidence" yaml:"confidence"`
	Probabilities Probabilities `json:"probabilities" yaml:"probabilities"`
}

// Score is P(positive) - P(negative), in [-1, 1].
func (r SentimentResult) Score() float64 {
	return r.Probabilities.Positive - r.Probabilities.Negative
}

// NewSentimentResult normalizes p to sum to 1 and picks the most probable
// label. Ties resolve positive, then negative, then neutral.
func NewSentimentResult(p Probabilities) SentimentResult {
	sum := p.Positive + p.Negative + p.Neutral
	if sum <= 0 {
		return NeutralResult()
	}
	p = Probabilities{
		Positive: p.Positive / sum,
		Negative: p.Negative / sum,
		Neutral:  p.Neutral / sum,
	}
	label, confidence := LabelPositive, p.Positive
	if p.Negative > confidence {
		label, confidence = LabelNegative, p.Negative
	}
	if p.Neutral > confidence {
		label, confidence = LabelNeutral, p.Neutral
	}
	return SentimentResult{Label: label, Confidence: confidence, Probabilities: p}
}

// NeutralResult is assigned to reviews without any text.
func NeutralResult() SentimentResult {
	return SentimentResult{
		Label:         LabelNeutral,
		Confidence:    1,
		Probabilities: Probabilities{Neutral: 1},
	}
}

type Keyword struct {
	Term   string  `json:"term" yaml:"term"`
	Weight float64 `json:"weight" yaml:"weight"`
}

type Topic struct {
	ID       int       `json:"topic_id" yaml:"topic_id"`
	Keywords []Keyword `json:"keywords" yaml:"keywords"`
}

func (t Topic) Terms() []string {
	terms := make([]string, len(t.Keywords))
	for i, kw := range t.Keywords {
		terms[i] = kw.Term
	}
	return terms
}

// TopicDistribution holds one probability per topic, summing to 1.
type TopicDistribution []float64

// Dominant returns the most probable topic, the lowest index on ties.
func (d TopicDistribution) Dominant() int {
	best := 0
	for i, p := range d {
		if p > d[best] {
			best = i
		}
	}
	return best
}

type AnalyzedReview struct {
	Review        `yaml:",inline"`
	Sentiment     SentimentResult   `json:"sentiment" yaml:"sentiment"`
	Score         float64           `json:"sentiment_score" yaml:"sentiment_score"`
	Topics        TopicDistribution `json:"topic_distribution" yaml:"topic_distribution"`
	DominantTopic int               `json:"dominant_topic" yaml:"dominant_topic"`
}

type ProductSummary struct {
	ProductID         string   `json:"product_id" yaml:"product_id" db:"product_id"`
	AvgSentimentScore float64  `json:"avg_sentiment_score" yaml:"avg_sentiment_score" db:"avg_sentiment_score"`
	ReviewCount       int      `json:"review_count" yaml:"review_count" db:"review_count"`
	AvgRating         *float64 `json:"avg_rating" yaml:"avg_rating" db:"avg_rating"`
	SentimentRank     int      `json:"sentiment_rank" yaml:"sentiment_rank" db:"sentiment_rank"`
	VolumeRank        int      `json:"volume_rank" yaml:"volume_rank" db:"volume_rank"`
}

type SentimentOverview struct {
	Total         int     `json:"total" yaml:"total"`
	Positive      int     `json:"positive" yaml:"positive"`
	Negative      int     `json:"negative" yaml:"negative"`
	Neutral       int     `json:"neutral" yaml:"neutral"`
	AvgConfidence float64 `json:"avg_confidence" yaml:"avg_confidence"`
}

func Overview(results []SentimentResult) SentimentOverview {
	var o SentimentOverview
	for _, r := range results {
		switch r.Label {
		case LabelPositive:
			o.Positive++
		case LabelNegative:
			o.Negative++
		default:
			o.Neutral++
		}
		o.AvgConfidence += r.Confidence
	}
	o.Total = len(results)
	if o.Total > 0 {
		o.AvgConfidence /= float64(o.Total)
	}
	return o
}

type AnalysisParams struct {
	NTopics          int    `json:"n_topics" yaml:"n_topics"`
	NWordsPerTopic   int    `json:"n_words_per_topic" yaml:"n_words_per_topic"`
	MinCorpusSize    int    `json:"min_corpus_size" yaml:"min_corpus_size"`
	MinTermFrequency int    `json:"min_term_frequency" yaml:"min_term_frequency"`
	Iterations       int    `json:"iterations" yaml:"iterations"`
	Seed             uint64 `json:"seed" yaml:"seed"`
}

const (
	MinTopics     = 2
	MaxTopics     = 20
	MaxIterations = 5000
)

func DefaultParams() AnalysisParams {
	return AnalysisParams{
		NTopics:          5,
		NWordsPerTopic:   10,
		MinCorpusSize:    3,
		MinTermFrequency: 1,
		Iterations:       200,
		Seed:             42,
	}
}

func (p AnalysisParams) Validate() error {
	switch {
	case p.NTopics < MinTopics || p.NTopics > MaxTopics:
		return &InvalidConfigurationError{Param: "n_topics", Value: p.NTopics}
	case p.NWordsPerTopic < 1:
		return &InvalidConfigurationError{Param: "n_words_per_topic", Value: p.NWordsPerTopic}
	case p.MinCorpusSize < 1:
		return &InvalidConfigurationError{Param: "min_corpus_size", Value: p.MinCorpusSize}
	case p.MinTermFrequency < 1:
		return &InvalidConfigurationError{Param: "min_term_frequency", Value: p.MinTermFrequency}
	case p.Iterations < 1 || p.Iterations > MaxIterations:
		return &InvalidConfigurationError{Param: "iterations", Value: p.Iterations}
	}
	return nil
}

// ValidateReviews rejects batches that cannot be analyzed as a whole.
func ValidateReviews(reviews []Review) error {
	seen := make(map[string]struct{}, len(reviews))
	for i, r := range reviews {
		reject := func(reason string) error {
			return &InvalidConfigurationError{Param: "reviews", Index: i, Reason: reason}
		}
		switch {
		case r.ID == "":
			return reject("empty review id")
		case r.ProductID == "":
			return reject("empty product id")
		case !utf8.ValidString(r.ID) || !utf8.ValidString(r.ProductID):
			return reject("id is not valid UTF-8")
		case r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5):
			return reject("rating out of range 1..5")
		}
		if _, ok := seen[r.ID]; ok {
			return reject("duplicate review id " + r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

type TopicsResult struct {
	Topics        []Topic             `json:"topics"`
	Distributions []TopicDistribution `json:"distributions"`
}

// Report is the outcome of one analysis run.
type Report struct {
	ID        string            `json:"id" yaml:"id"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Source    string            `json:"source" yaml:"source"`
	Params    AnalysisParams    `json:"params" yaml:"params"`
	Topics    []Topic           `json:"topics" yaml:"topics"`
	Reviews   []AnalyzedReview  `json:"reviews" yaml:"reviews"`
	Products  []ProductSummary  `json:"products" yaml:"products"`
	Overview  SentimentOverview `json:"overview" yaml:"overview"`
}

func (r Report) Info() RunInfo {
	return RunInfo{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Source:       r.Source,
		NTopics:      r.Params.NTopics,
		ReviewCount:  len(r.Reviews),
		ProductCount: len(r.Products),
	}
}

type RunInfo struct {
	ID           string    `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Source       string    `json:"source" db:"source"`
	NTopics      int       `json:"n_topics" db:"n_topics"`
	ReviewCount  int       `json:"review_count" db:"review_count"`
	ProductCount int       `json:"product_count" db:"product_count"`
}

type RunFilter struct {
	Source string
	Since  time.Time
	Limit  int
	Offset int
}

type ScrapeRequest struct {
	Query       string   `json:"query"`
	Competitors []string `json:"competitors"`
	Domain      string   `json:"domain"`
	MaxReviews  int      `json:"max_reviews"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
