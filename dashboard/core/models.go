package core

import "time"

type PingStatus string

type EventType string

const (
	EventAnalysisCompleted EventType = "analysis.completed"
	EventReset             EventType = "analysis.reset"
)

type PingResponse struct {
	Replies map[string]PingStatus `json:"replies"`
}

type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

type Topic struct {
	ID       int       `json:"topic_id"`
	Keywords []Keyword `json:"keywords"`
}

type ProductSummary struct {
	ProductID         string   `json:"product_id"`
	AvgSentimentScore float64  `json:"avg_sentiment_score"`
	ReviewCount       int      `json:"review_count"`
	AvgRating         *float64 `json:"avg_rating"`
	SentimentRank     int      `json:"sentiment_rank"`
	VolumeRank        int      `json:"volume_rank"`
}

type SentimentOverview struct {
	Total         int     `json:"total"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Share returns the fraction of reviews with each label.
func (o SentimentOverview) Share() (positive, negative, neutral float64) {
	if o.Total == 0 {
		return 0, 0, 0
	}
	total := float64(o.Total)
	return float64(o.Positive) / total, float64(o.Negative) / total, float64(o.Neutral) / total
}

type RunInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	NTopics      int       `json:"n_topics"`
	ReviewCount  int       `json:"review_count"`
	ProductCount int       `json:"product_count"`
}

// Report is the part of an analysis run the dashboard shows. Per-review
// results stay with the analyzer.
type Report struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Source    string            `json:"source"`
	Topics    []Topic           `json:"topics"`
	Products  []ProductSummary  `json:"products"`
	Overview  SentimentOverview `json:"overview"`
}

// Snapshot is the cached report with the time it was fetched.
type Snapshot struct {
	Report    Report    `json:"report"`
	FetchedAt time.Time `json:"fetched_at"`
}
