package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"review-insights/analyzer/core"
)

// FinBERT classifies texts with a hosted text-classification model that
// follows the Hugging Face inference API: {"inputs": [...]} in, one list of
// label scores per input out.
type FinBERT struct {
	log    *slog.Logger
	client http.Client
	url    string
	token  string
}

type inferenceRequest struct {
	Inputs  []string         `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func NewFinBERT(url, token string, timeout time.Duration, log *slog.Logger) (*FinBERT, error) {
	if url == "" {
		return nil, fmt.Errorf("empty model url specified")
	}
	return &FinBERT{
		log:    log,
		client: http.Client{Timeout: timeout},
		url:    url,
		token:  token,
	}, nil
}

func (f *FinBERT) Classify(ctx context.Context, texts []string) ([]core.SentimentResult, error) {
	if len(texts) == 0 {
		return []core.SentimentResult{}, nil
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:  texts,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot get response: %w: %w", core.ErrServiceUnavailable, err)
	}
	defer f.closeBody(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("model replied %d: %w", resp.StatusCode, core.ErrServiceUnavailable)
	default:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var reply [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("cannot decode reply: %w", err)
	}
	if len(reply) != len(texts) {
		return nil, fmt.Errorf("model returned %d results for %d texts", len(reply), len(texts))
	}

	results := make([]core.SentimentResult, len(reply))
	for i, scores := range reply {
		probs, err := toProbabilities(scores)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		results[i] = core.NewSentimentResult(probs)
	}
	f.log.Debug("classified texts", "count", len(results))
	return results, nil
}

func toProbabilities(scores []labelScore) (core.Probabilities, error) {
	var p core.Probabilities
	for _, s := range scores {
		if s.Score < 0 {
			return p, fmt.Errorf("negative score %v for label %q", s.Score, s.Label)
		}
		switch core.Label(strings.ToLower(s.Label)) {
		case core.LabelPositive:
			p.Positive = s.Score
		case core.LabelNegative:
			p.Negative = s.Score
		case core.LabelNeutral:
			p.Neutral = s.Score
		default:
			return p, fmt.Errorf("unknown label %q", s.Label)
		}
	}
	return p, nil
}

// Ping checks that the model endpoint answers.
func (f *FinBERT) Ping(ctx context.Context) error {
	_, err := f.Classify(ctx, []string{"ok"})
	return err
}

func (f *FinBERT) closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		f.log.Warn("failed to close response body", "error", err)
	}
}
