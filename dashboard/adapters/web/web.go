package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"review-insights/dashboard/core"
)

//go:embed templates/*.html
var templateFiles embed.FS

const pageTemplate = "dashboard.html"

var funcs = template.FuncMap{
	"fixed": func(v float64) string { return fmt.Sprintf("%.3f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"rating": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"terms": func(t core.Topic) string {
		terms := make([]string, len(t.Keywords))
		for i, kw := range t.Keywords {
			terms[i] = kw.Term
		}
		return strings.Join(terms, ", ")
	},
}

// ParseTemplates parses the embedded dashboard page.
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.New(pageTemplate).Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("cannot parse templates: %w", err)
	}
	return tmpl, nil
}

type pageData struct {
	HasReport bool
	Snapshot  core.Snapshot
	Positive  float64
	Negative  float64
	Neutral   float64
}

func encodeReply(w io.Writer, reply any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reply); err != nil {
		return fmt.Errorf("could not encode reply: %v", err)
	}
	return nil
}

func NewPageHandler(log *slog.Logger, tmpl *template.Template, provider core.SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data pageData
		data.Snapshot, data.HasReport = provider.Snapshot()
		data.Positive, data.Negative, data.Neutral = data.Snapshot.Report.Overview.Share()

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, pageTemplate, data); err != nil {
			log.Error("cannot render page", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn("failed to write page", "error", err)
		}
	}
}

func NewReportHandler(log *slog.Logger, provider core.SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := provider.Snapshot()
		if !ok {
			http.Error(w, "no analysis report yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := encodeReply(w, snapshot); err != nil {
			log.Error("cannot encode reply", "error", err)
		}
	}
}

func NewRefreshHandler(log *slog.Logger, refresher core.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := refresher.Refresh(r.Context()); err != nil {
			if errors.Is(err, core.ErrServiceUnavailable) {
				log.Debug("analyzer unavailable")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			} else {
				log.Warn("refresh failed", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func NewPingHandler(log *slog.Logger, pinger core.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, err := pinger.Ping(r.Context())
		if err != nil {
			if errors.Is(err, core.ErrServiceUnavailable) {
				log.Debug("ping endpoint unavailable")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			} else {
				log.Warn("ping endpoint failed", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := encodeReply(w, reply); err != nil {
			log.Error("cannot encode reply", "error", err)
		}
	}
}
