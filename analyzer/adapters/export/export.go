// Package export serializes the parts of an analysis report independently.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"review-insights/analyzer/core"
)

type Part string

const (
	PartReport   Part = "report"
	PartTopics   Part = "topics"
	PartReviews  Part = "reviews"
	PartProducts Part = "products"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatCSV    Format = "csv"
	FormatYAML   Format = "yaml"
)

func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(s)); p {
	case PartReport, PartTopics, PartReviews, PartProducts:
		return p, nil
	case "":
		return PartReport, nil
	}
	return "", &core.InvalidConfigurationError{Param: "part", Value: s}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatNDJSON, FormatCSV, FormatYAML:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", &core.InvalidConfigurationError{Param: "format", Value: s}
}

func ContentType(f Format) string {
	switch f {
	case FormatNDJSON:
		return "application/x-ndjson"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Write encodes one part of report to w.
func Write(w io.Writer, report core.Report, part Part, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(selectPart(report, part))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(selectPart(report, part)); err != nil {
			return fmt.Errorf("cannot encode yaml: %w", err)
		}
		return enc.Close()
	case FormatNDJSON:
		return writeNDJSON(w, report, part)
	case FormatCSV:
		return writeCSV(w, report, part)
	}
	return &core.InvalidConfigurationError{Param: "format", Value: format}
}

func selectPart(report core.Report, part Part) any {
	switch part {
	case PartTopics:
		return report.Topics
	case PartReviews:
		return report.Reviews
	case PartProducts:
		return report.Products
	default:
		return report
	}
}

func writeNDJSON(w io.Writer, report core.Report, part Part) error {
	enc := json.NewEncoder(w)
	var items []any
	switch part {
	case PartTopics:
		for _, t := range report.Topics {
			items = append(items, t)
		}
	case PartReviews:
		for _, r := range report.Reviews {
			items = append(items, r)
		}
	case PartProducts:
		for _, p := range report.Products {
			items = append(items, p)
		}
	default:
		return &core.InvalidConfigurationError{Param: "part", Reason: "ndjson needs topics, reviews or products"}
	}
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("cannot encode ndjson: %w", err)
		}
	}
	return nil
}

func writeCSV(w io.Writer, report core.Report, part Part) error {
	var rows [][]string
	switch part {
	case PartTopics:
		rows = append(rows, []string{"topic_id", "rank", "term", "weight"})
		for _, t := range report.Topics {
			for i, kw := range t.Keywords {
				rows = append(rows, []string{itoa(t.ID), itoa(i + 1), kw.Term, ftoa(kw.Weight)})
			}
		}
	case PartReviews:
		rows = append(rows, []string{
			"id", "product_id", "rating", "label", "confidence",
			"positive", "negative", "neutral", "sentiment_score",
			"dominant_topic", "topic_distribution", "text",
		})
		for _, r := range report.Reviews {
			rating := ""
			if r.Rating != nil {
				rating = itoa(*r.Rating)
			}
			dist := make([]string, len(r.Topics))
			for i, p := range r.Topics {
				dist[i] = ftoa(p)
			}
			rows = append(rows, []string{
				r.ID, r.ProductID, rating, string(r.Sentiment.Label), ftoa(r.Sentiment.Confidence),
				ftoa(r.Sentiment.Probabilities.Positive), ftoa(r.Sentiment.Probabilities.Negative),
				ftoa(r.Sentiment.Probabilities.Neutral), ftoa(r.Score),
				itoa(r.DominantTopic), strings.Join(dist, ";"), r.Text,
			})
		}
	case PartProducts:
		rows = append(rows, []string{
			"product_id", "avg_sentiment_score", "review_count", "avg_rating", "sentiment_rank", "volume_rank",
		})
		for _, p := range report.Products {
			avgRating := ""
			if p.AvgRating != nil {
				avgRating = ftoa(*p.AvgRating)
			}
			rows = append(rows, []string{
				p.ProductID, ftoa(p.AvgSentimentScore), itoa(p.ReviewCount), avgRating,
				itoa(p.SentimentRank), itoa(p.VolumeRank),
			})
		}
	default:
		return &core.InvalidConfigurationError{Param: "part", Reason: "csv needs topics, reviews or products"}
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("cannot write csv: %w", err)
	}
	return nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
