package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"review-insights/analyzer/adapters/export"
	"review-insights/analyzer/adapters/files"
	"review-insights/analyzer/core"
)

const (
	paramSource = "source"
	paramSince  = "since"
	paramLimit  = "limit"
	paramOffset = "offset"
	paramPart   = "part"
	paramFormat = "format"
	paramFile   = "file"
	pathID      = "id"

	runsLimit = 50
)

func encodeReply(w io.Writer, reply any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reply); err != nil {
		return fmt.Errorf("could not encode reply: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, reply any) {
	w.Header().Set("Content-Type", "application/json")
	if err := encodeReply(w, reply); err != nil {
		log.Error("failed to encode", "error", err)
	}
}

// writeError maps core errors to HTTP statuses. Validation errors carry their
// message so that clients can see which parameter or record was rejected.
func writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
	case errors.Is(err, core.ErrInvalidConfiguration), errors.Is(err, core.ErrBadArguments):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrInsufficientData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, core.ErrAlreadyExists):
		log.Debug("analysis already running", "op", op)
		http.Error(w, "analysis is already running", http.StatusConflict)
	case errors.Is(err, core.ErrServiceUnavailable):
		log.Debug("dependency unavailable", "op", op, "error", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
	default:
		log.Warn("request failed", "op", op, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: malformed json: %v", core.ErrBadArguments, err)
	}
	return nil
}

func NewPingHandler(log *slog.Logger, pingers map[string]core.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := pingReply{
			Replies: make(map[string]core.PingStatus, len(pingers)),
		}
		for name, pinger := range pingers {
			err := pinger.Ping(r.Context())
			if err == nil {
				reply.Replies[name] = core.StatusPingOK
				continue
			}
			if errors.Is(err, core.ErrServiceUnavailable) {
				log.Debug("service unavailable", "service", name)
			} else {
				log.Warn("service ping failed", "service", name, "error", err)
			}
			reply.Replies[name] = core.StatusPingUnavailable
		}
		writeJSON(w, log, reply)
	}
}

func NewStatusHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, statusReply{Status: analyzer.Status(r.Context())})
	}
}

func NewLoginHandler(log *slog.Logger, auth core.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var login core.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		tokenString, err := auth.CreateToken(login.Name, login.Password)
		if err != nil {
			if errors.Is(err, core.ErrInvalidCredentials) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			} else {
				log.Error("failed to create token", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(tokenString))
	}
}

func newSentimentReply(text string, result core.SentimentResult) sentimentReply {
	return sentimentReply{Text: text, SentimentResult: result, Score: result.Score()}
}

func NewSentimentHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sentimentRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, "sentiment", err)
			return
		}
		results, err := analyzer.Classify(r.Context(), []string{req.Text})
		if err != nil {
			writeError(w, log, "sentiment", err)
			return
		}
		writeJSON(w, log, newSentimentReply(req.Text, results[0]))
	}
}

func NewSentimentBatchHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sentimentBatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, "sentiment batch", err)
			return
		}
		if len(req.Texts) == 0 {
			http.Error(w, "texts must not be empty", http.StatusBadRequest)
			return
		}
		results, err := analyzer.Classify(r.Context(), req.Texts)
		if err != nil {
			writeError(w, log, "sentiment batch", err)
			return
		}
		reply := sentimentBatchReply{
			Results:  make([]sentimentReply, len(results)),
			Overview: core.Overview(results),
		}
		for i, res := range results {
			reply.Results[i] = newSentimentReply(req.Texts[i], res)
		}
		writeJSON(w, log, reply)
	}
}

func NewTopicsHandler(log *slog.Logger, analyzer core.Analyzer, defaults core.AnalysisParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req topicsRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, "topics", err)
			return
		}
		result, err := analyzer.Topics(r.Context(), req.Documents, req.Params.apply(defaults))
		if err != nil {
			writeError(w, log, "topics", err)
			return
		}
		writeJSON(w, log, result)
	}
}

func NewAnalyzeHandler(log *slog.Logger, analyzer core.Analyzer, defaults core.AnalysisParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, "analyze", err)
			return
		}
		report, err := analyzer.Analyze(r.Context(), req.Reviews, req.Params.apply(defaults))
		if err != nil {
			writeError(w, log, "analyze", err)
			return
		}
		writeJSON(w, log, report)
	}
}

// NewUploadHandler analyzes a CSV or NDJSON file sent either as the raw body
// or as the "file" field of a multipart form. Analysis parameters come from
// the query string.
func NewUploadHandler(log *slog.Logger, analyzer core.Analyzer, defaults core.AnalysisParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paramsFromQuery(r.URL.Query(), defaults)
		if err != nil {
			writeError(w, log, "upload", err)
			return
		}

		body, contentType, filename := io.Reader(r.Body), r.Header.Get("Content-Type"), r.URL.Query().Get(paramFile)
		if file, header, err := r.FormFile(paramFile); err == nil {
			defer func() { _ = file.Close() }()
			body, contentType, filename = file, header.Header.Get("Content-Type"), header.Filename
		} else if !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, log, "upload", fmt.Errorf("%w: %v", core.ErrBadArguments, err))
			return
		}

		format, err := files.DetectFormat(contentType, filename)
		if err != nil {
			writeError(w, log, "upload", err)
			return
		}
		reviews, err := files.ReadReviews(body, format)
		if err != nil {
			writeError(w, log, "upload", err)
			return
		}
		report, err := analyzer.Analyze(r.Context(), reviews, params)
		if err != nil {
			writeError(w, log, "upload", err)
			return
		}
		writeJSON(w, log, report)
	}
}

func NewScrapeHandler(log *slog.Logger, analyzer core.Analyzer, defaults core.AnalysisParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scrapeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, log, "scrape", err)
			return
		}
		if req.Query == "" {
			http.Error(w, "query must not be empty", http.StatusBadRequest)
			return
		}
		report, err := analyzer.AnalyzeScraped(r.Context(), req.ScrapeRequest, req.Params.apply(defaults))
		if err != nil {
			writeError(w, log, "scrape", err)
			return
		}
		writeJSON(w, log, report)
	}
}

func NewRunsHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := core.RunFilter{
			Source: query.Get(paramSource),
			Limit:  runsLimit,
		}
		if s := query.Get(paramSince); s != "" {
			since, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "since must be an RFC 3339 timestamp", http.StatusBadRequest)
				return
			}
			filter.Since = since
		}
		var err error
		if filter.Limit, err = intParam(query, paramLimit, filter.Limit); err != nil || filter.Limit <= 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if filter.Offset, err = intParam(query, paramOffset, 0); err != nil || filter.Offset < 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		runs, err := analyzer.Runs(r.Context(), filter)
		if err != nil {
			writeError(w, log, "runs", err)
			return
		}
		writeJSON(w, log, runsReply{Runs: runs, Total: len(runs)})
	}
}

func NewRunHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := analyzer.Run(r.Context(), r.PathValue(pathID))
		if err != nil {
			writeError(w, log, "run", err)
			return
		}
		writeJSON(w, log, report)
	}
}

func NewExportHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		part, err := export.ParsePart(r.URL.Query().Get(paramPart))
		if err != nil {
			writeError(w, log, "export", err)
			return
		}
		format, err := export.ParseFormat(r.URL.Query().Get(paramFormat))
		if err != nil {
			writeError(w, log, "export", err)
			return
		}
		id := r.PathValue(pathID)
		report, err := analyzer.Run(r.Context(), id)
		if err != nil {
			writeError(w, log, "export", err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, report, part, format); err != nil {
			writeError(w, log, "export", err)
			return
		}
		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("run-%s-%s.%s", id, part, format)))
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn("failed to write export", "error", err)
		}
	}
}

func NewDropHandler(log *slog.Logger, analyzer core.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := analyzer.Drop(r.Context()); err != nil {
			writeError(w, log, "drop", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func intParam(query url.Values, name string, def int) (int, error) {
	s := query.Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func paramsFromQuery(query url.Values, params core.AnalysisParams) (core.AnalysisParams, error) {
	ints := []struct {
		name string
		dst  *int
	}{
		{"n_topics", &params.NTopics},
		{"n_words_per_topic", &params.NWordsPerTopic},
		{"min_corpus_size", &params.MinCorpusSize},
		{"min_term_frequency", &params.MinTermFrequency},
		{"iterations", &params.Iterations},
	}
	for _, p := range ints {
		v, err := intParam(query, p.name, *p.dst)
		if err != nil {
			return params, &core.InvalidConfigurationError{Param: p.name, Value: query.Get(p.name)}
		}
		*p.dst = v
	}
	if s := query.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return params, &core.InvalidConfigurationError{Param: "seed", Value: s}
		}
		params.Seed = seed
	}
	return params, nil
}
