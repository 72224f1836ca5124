package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"review-insights/analyzer/adapters/db"
	"review-insights/analyzer/adapters/publisher"
	"review-insights/analyzer/adapters/rest"
	"review-insights/analyzer/adapters/rest/middleware"
	"review-insights/analyzer/adapters/scraper"
	"review-insights/analyzer/adapters/sentiment"
	"review-insights/analyzer/adapters/topics"
	"review-insights/analyzer/adapters/words"
	"review-insights/analyzer/config"
	"review-insights/analyzer/core"
	textnorm "review-insights/words/words"
)

type normalizer interface {
	core.Normalizer
	core.Pinger
}

type oracle interface {
	core.SentimentOracle
	core.Pinger
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	var cfg config.Config
	config.MustLoad(configPath, &cfg)

	// Logger
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting analyzer server")
	log.Debug("debug messages are enabled")

	defaults := cfg.Topics.Params()
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("wrong default analysis params: %w", err)
	}

	// Database adapter
	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer storage.Close()
	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}

	// Words adapter
	norm, closeNorm, err := makeNormalizer(cfg.Words, log)
	if err != nil {
		return fmt.Errorf("cannot init words adapter: %w", err)
	}
	defer closeNorm()

	// Sentiment adapter
	sentimentOracle, err := makeOracle(cfg.Sentiment, log)
	if err != nil {
		return fmt.Errorf("cannot init sentiment adapter: %w", err)
	}

	// Topics adapter
	modeler, err := topics.NewCache(log, topics.NewModeler(log), cfg.Topics.CacheSize)
	if err != nil {
		return fmt.Errorf("cannot init topics cache: %w", err)
	}

	// Scraper adapter
	reviewSource, err := scraper.New(scraper.Config{
		UserAgent:  cfg.Scraper.UserAgent,
		Timeout:    cfg.Scraper.Timeout,
		Delay:      cfg.Scraper.Delay,
		MaxReviews: cfg.Scraper.MaxReviews,
		MaxPages:   cfg.Scraper.MaxPages,
		Domain:     cfg.Scraper.Domain,
	}, log)
	if err != nil {
		return fmt.Errorf("cannot init scraper: %w", err)
	}

	// Broker adapter
	events, err := publisher.NewNatsPublisher(cfg.Broker.Address, cfg.Broker.Subject, log)
	if err != nil {
		return fmt.Errorf("cannot init publisher: %w", err)
	}
	defer events.Close()

	analyzer, err := core.NewService(
		log, storage, norm, sentimentOracle, modeler, reviewSource, events,
		cfg.Concurrency, cfg.BatchSize,
	)
	if err != nil {
		return fmt.Errorf("cannot create analyzer service: %w", err)
	}

	// Limiters
	analyzeLimiter := middleware.NewConcurrencyLimiter(cfg.Limits.AnalyzeConcurrency, cfg.Limits.RetryAfter)
	scrapeLimiter := middleware.NewRateLimiter(cfg.Limits.ScrapeRate, cfg.Limits.ScrapeBurst)
	limitBody := func(h http.Handler) http.Handler {
		return http.MaxBytesHandler(h, cfg.HTTP.MaxBodySize)
	}

	// JWT authenticator
	jwtAth, err := middleware.NewJwtAuthenticator(cfg.Auth.AdminUser, cfg.Auth.AdminPassword, cfg.Auth.JwtSecret, cfg.Auth.TokenTtl)
	if err != nil {
		return fmt.Errorf("cannot init jwt authenticator: %w", err)
	}

	mux := http.NewServeMux()

	// API endpoints
	mux.Handle("GET /api/ping", rest.NewPingHandler(log, map[string]core.Pinger{
		"db":        storage,
		"words":     norm,
		"sentiment": sentimentOracle,
		"broker":    events,
	}))
	mux.Handle("GET /api/status", rest.NewStatusHandler(log, analyzer))
	mux.Handle("POST /api/login", rest.NewLoginHandler(log, jwtAth))

	mux.Handle("POST /api/sentiment", limitBody(rest.NewSentimentHandler(log, analyzer)))
	mux.Handle("POST /api/sentiment/batch", limitBody(rest.NewSentimentBatchHandler(log, analyzer)))
	mux.Handle("POST /api/topics", analyzeLimiter.Limit(limitBody(rest.NewTopicsHandler(log, analyzer, defaults))))

	mux.Handle("POST /api/analyze", analyzeLimiter.Limit(limitBody(rest.NewAnalyzeHandler(log, analyzer, defaults))))
	mux.Handle("POST /api/analyze/upload", analyzeLimiter.Limit(limitBody(rest.NewUploadHandler(log, analyzer, defaults))))
	mux.Handle("POST /api/analyze/scrape", scrapeLimiter.Limit(analyzeLimiter.Limit(limitBody(rest.NewScrapeHandler(log, analyzer, defaults)))))

	mux.Handle("GET /api/runs", rest.NewRunsHandler(log, analyzer))
	mux.Handle("GET /api/runs/{id}", rest.NewRunHandler(log, analyzer))
	mux.Handle("GET /api/runs/{id}/export", rest.NewExportHandler(log, analyzer))

	// API admin endpoints (requires JWT)
	mux.Handle("DELETE /api/runs", jwtAth.CheckToken(rest.NewDropHandler(log, analyzer)))

	handler := middleware.Logging(mux, log)
	handler = middleware.PanicRecovery(handler, log)

	server := http.Server{
		Addr:         cfg.HTTP.Address,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      handler,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Debug("shutting down analyzer server...")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxTimeout); err != nil {
			log.Error("erroneous shutdown", "error", err)
			return
		}
		log.Debug("analyzer server stopped gracefully")
	}()

	log.Info("running analyzer server", "address", cfg.HTTP.Address)
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed unexpectedly: %w", err)
		}
	}
	return nil
}

func makeNormalizer(cfg config.WordsConfig, log *slog.Logger) (normalizer, func(), error) {
	if cfg.Address == "" {
		opts := []textnorm.Option{textnorm.WithMinTokenLength(cfg.MinTokenLength)}
		if len(cfg.StopWords) > 0 {
			opts = append(opts, textnorm.WithStopWords(cfg.StopWords...))
		}
		log.Info("normalizing in process")
		return words.NewLocal(textnorm.New(opts...)), func() {}, nil
	}
	client, err := words.NewClient(cfg.Address, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func makeOracle(cfg config.SentimentConfig, log *slog.Logger) (oracle, error) {
	switch cfg.Oracle {
	case "finbert":
		return sentiment.NewFinBERT(cfg.URL, cfg.Token, cfg.Timeout, log)
	case "lexicon":
		return sentiment.DefaultLexicon(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment oracle %q", cfg.Oracle)
	}
}

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		panic("unknown log level: " + logLevel)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level})
	return slog.New(handler)
}
