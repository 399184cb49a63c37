package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	fchttp "github.com/fincompare/fincompare/internal/adapter/http"
	"github.com/fincompare/fincompare/internal/adapter/openai"
	fcotel "github.com/fincompare/fincompare/internal/adapter/otel"
	"github.com/fincompare/fincompare/internal/adapter/yahoo"
	"github.com/fincompare/fincompare/internal/config"
	"github.com/fincompare/fincompare/internal/logger"
	"github.com/fincompare/fincompare/internal/resilience"
	"github.com/fincompare/fincompare/internal/service"
	"github.com/fincompare/fincompare/internal/session"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"model", cfg.OpenAI.Model,
		"log_level", cfg.Logging.Level,
		"max_tool_rounds", cfg.Agent.MaxToolRounds,
	)

	if cfg.OpenAI.APIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; model calls will fail")
	}

	// --- Telemetry ---
	var metrics *fcotel.Metrics
	if cfg.Telemetry.Enabled {
		shutdown, err := fcotel.InitTracer(cfg.Logging.Service)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()

		metrics, err = fcotel.NewMetrics()
		if err != nil {
			return fmt.Errorf("otel metrics: %w", err)
		}
	}

	// --- Outbound clients ---
	llmClient := openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	quotes := yahoo.NewClient(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout)
	quotes.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Services ---
	sessions, err := session.NewStore(cfg.Session)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer sessions.Close()

	compareSvc := service.NewCompareService(quotes)
	tools := service.NewToolRegistry()
	service.RegisterComparisonTool(tools, compareSvc)

	agentSvc := service.NewAgentService(llmClient, tools, sessions,
		cfg.Agent.MaxToolRounds, cfg.Agent.MaxConcurrentLLM, metrics)

	// --- HTTP ---
	addr := ":" + cfg.Server.Port
	handlers := &fchttp.Handlers{
		Agent:   agentSvc,
		BaseURL: "http://localhost" + addr,
	}

	r := chi.NewRouter()
	r.Use(fchttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chimw.RequestID)
	r.Use(fchttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * time.Minute))
	if cfg.Telemetry.Enabled {
		r.Use(fcotel.HTTPMiddleware(cfg.Logging.Service))
	}

	fchttp.MountRoutes(r, handlers)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
