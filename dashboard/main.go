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

	"review-insights/dashboard/adapters/api"
	"review-insights/dashboard/adapters/scheduler"
	"review-insights/dashboard/adapters/subscriber"
	"review-insights/dashboard/adapters/web"
	"review-insights/dashboard/adapters/web/middleware"
	"review-insights/dashboard/config"
	"review-insights/dashboard/core"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	var cfg config.Config
	config.MustLoad(configPath, &cfg)

	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// brokerPinger adds the broker connection to the analyzer's ping reply.
type brokerPinger struct {
	analyzer core.Pinger
	broker   *subscriber.NatsSubscriber
}

func (p brokerPinger) Ping(ctx context.Context) (core.PingResponse, error) {
	reply, err := p.analyzer.Ping(ctx)
	if err != nil {
		return core.PingResponse{}, err
	}
	if reply.Replies == nil {
		reply.Replies = make(map[string]core.PingStatus)
	}
	reply.Replies["dashboard-broker"] = "ok"
	if err := p.broker.Ping(ctx); err != nil {
		reply.Replies["dashboard-broker"] = "unavailable"
	}
	return reply, nil
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting dashboard server")
	log.Debug("debug messages are enabled")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := api.NewClient(cfg.Api.Address, cfg.Api.Timeout, log)
	service := core.NewService(log, client)

	sub, err := subscriber.NewNatsSubscriber(cfg.Broker.Address, cfg.Broker.Subject, cfg.Broker.EventTimeout, service, log)
	if err != nil {
		return fmt.Errorf("cannot init subscriber: %w", err)
	}
	defer sub.Unsubscribe()

	scheduler.NewRefreshScheduler(log, service, cfg.RefreshInterval).Start(ctx)

	tmpl, err := web.ParseTemplates()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", web.NewPageHandler(log, tmpl, service))
	mux.Handle("GET /api/report", web.NewReportHandler(log, service))
	mux.Handle("POST /api/refresh", web.NewRefreshHandler(log, service))
	mux.Handle("GET /api/ping", web.NewPingHandler(log, brokerPinger{analyzer: client, broker: sub}))

	handler := middleware.Logging(mux, log)
	handler = middleware.PanicRecovery(handler, log)

	server := http.Server{
		Addr:        cfg.Web.Address,
		ReadTimeout: cfg.Web.Timeout,
		Handler:     handler,
	}

	go func() {
		<-ctx.Done()
		log.Debug("shutting down dashboard server...")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxTimeout); err != nil {
			log.Error("erroneous shutdown", "error", err)
			return
		}
		log.Debug("dashboard server stopped gracefully")
	}()

	log.Info("running dashboard server", "address", cfg.Web.Address)
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed unexpectedly: %w", err)
		}
	}
	return nil
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
