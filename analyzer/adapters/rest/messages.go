package rest

import (
	"review-insights/analyzer/core"
)

type pingReply struct {
	Replies map[string]core.PingStatus `json:"replies"`
}

type statusReply struct {
	Status core.ServiceStatus `json:"status"`
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentBatchRequest struct {
	Texts []string `json:"texts"`
}

type sentimentReply struct {
	Text string `json:"text"`
	core.SentimentResult
	Score float64 `json:"sentiment_score"`
}

type sentimentBatchReply struct {
	Results  []sentimentReply       `json:"results"`
	Overview core.SentimentOverview `json:"sentiment_summary"`
}

type topicsRequest struct {
	Documents []string      `json:"documents"`
	Params    paramsRequest `json:"params"`
}

type analyzeRequest struct {
	Reviews []core.Review `json:"reviews"`
	Params  paramsRequest `json:"params"`
}

type scrapeRequest struct {
	core.ScrapeRequest
	Params paramsRequest `json:"params"`
}

type runsReply struct {
	Runs  []core.RunInfo `json:"runs"`
	Total int            `json:"total"`
}

// paramsRequest overrides the service defaults field by field.
type paramsRequest struct {
	NTopics          *int    `json:"n_topics"`
	NWordsPerTopic   *int    `json:"n_words_per_topic"`
	MinCorpusSize    *int    `json:"min_corpus_size"`
	MinTermFrequency *int    `json:"min_term_frequency"`
	Iterations       *int    `json:"iterations"`
	Seed             *uint64 `json:"seed"`
}

func (p paramsRequest) apply(params core.AnalysisParams) core.AnalysisParams {
	if p.NTopics != nil {
		params.NTopics = *p.NTopics
	}
	if p.NWordsPerTopic != nil {
		params.NWordsPerTopic = *p.NWordsPerTopic
	}
	if p.MinCorpusSize != nil {
		params.MinCorpusSize = *p.MinCorpusSize
	}
	if p.MinTermFrequency != nil {
		params.MinTermFrequency = *p.MinTermFrequency
	}
	if p.Iterations != nil {
		params.Iterations = *p.Iterations
	}
	if p.Seed != nil {
		params.Seed = *p.Seed
	}
	return params
}
