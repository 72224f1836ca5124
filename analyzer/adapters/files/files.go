// Package files reads review batches from CSV and NDJSON documents.
package files

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"review-insights/analyzer/core"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
)

const maxLineSize = 4 << 20

// columns maps accepted header names to review fields.
var columns = map[string]string{
	"id":           "id",
	"review_id":    "id",
	"product_id":   "product_id",
	"asin":         "product_id",
	"text":         "text",
	"review_text":  "text",
	"content":      "text",
	"rating":       "rating",
	"score":        "rating",
	"source":       "source",
	"platform":     "source",
	"product_name": "product_name",
	"title":        "title",
	"author":       "author",
	"user_name":    "author",
	"username":     "author",
	"date":         "date",
	"at":           "date",
	"url":          "url",
}

// DetectFormat picks the format from a content type, falling back to the
// file extension.
func DetectFormat(contentType, filename string) (Format, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/csv", "application/csv":
			return FormatCSV, nil
		case "application/x-ndjson", "application/ndjson", "application/jsonl", "application/x-jsonlines":
			return FormatNDJSON, nil
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	}
	return "", &core.InvalidConfigurationError{Param: "format", Reason: "unsupported content type " + contentType}
}

func ReadReviews(r io.Reader, format Format) ([]core.Review, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatNDJSON:
		return readNDJSON(r)
	default:
		return nil, &core.InvalidConfigurationError{Param: "format", Value: format}
	}
}

func readCSV(r io.Reader) ([]core.Review, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &core.InvalidConfigurationError{Param: "reviews", Reason: "empty csv"}
		}
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	index := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := columns[name]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"id", "product_id", "text"} {
		if _, ok := index[required]; !ok {
			return nil, &core.InvalidConfigurationError{Param: "reviews", Reason: "csv must contain a '" + required + "' column"}
		}
	}

	var reviews []core.Review
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read csv row %d: %w", row, err)
		}
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		rating, err := parseRating(get("rating"))
		if err != nil {
			return nil, &core.InvalidConfigurationError{Param: "reviews", Index: row, Reason: err.Error()}
		}
		reviews = append(reviews, core.Review{
			ID:          get("id"),
			ProductID:   get("product_id"),
			Text:        get("text"),
			Rating:      rating,
			Source:      get("source"),
			ProductName: get("product_name"),
			Title:       get("title"),
			Author:      get("author"),
			Date:        get("date"),
			URL:         get("url"),
		})
	}
	return reviews, nil
}

type record struct {
	ID          string          `json:"id"`
	ReviewID    string          `json:"review_id"`
	ProductID   string          `json:"product_id"`
	Text        string          `json:"text"`
	ReviewText  string          `json:"review_text"`
	Rating      json.RawMessage `json:"rating"`
	Score       json.RawMessage `json:"score"`
	Source      string          `json:"source"`
	ProductName string          `json:"product_name"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	UserName    string          `json:"user_name"`
	Date        string          `json:"date"`
	URL         string          `json:"url"`
}

func readNDJSON(r io.Reader) ([]core.Review, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var reviews []core.Review
	for line := 0; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, &core.InvalidConfigurationError{Param: "reviews", Index: line, Reason: "malformed json: " + err.Error()}
		}
		rawRating := rec.Rating
		if len(rawRating) == 0 {
			rawRating = rec.Score
		}
		rating, err := parseRating(strings.Trim(string(rawRating), `"`))
		if err != nil {
			return nil, &core.InvalidConfigurationError{Param: "reviews", Index: line, Reason: err.Error()}
		}
		reviews = append(reviews, core.Review{
			ID:          firstOf(rec.ID, rec.ReviewID),
			ProductID:   rec.ProductID,
			Text:        firstOf(rec.Text, rec.ReviewText),
			Rating:      rating,
			Source:      rec.Source,
			ProductName: rec.ProductName,
			Title:       rec.Title,
			Author:      firstOf(rec.Author, rec.UserName),
			Date:        rec.Date,
			URL:         rec.URL,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ndjson: %w", err)
	}
	return reviews, nil
}

// parseRating accepts integral star values such as "4" or "4.0"; an empty
// value or null means no rating.
func parseRating(s string) (*int, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) {
		return nil, fmt.Errorf("rating %q is not a whole number", s)
	}
	rating := int(v)
	return &rating, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
