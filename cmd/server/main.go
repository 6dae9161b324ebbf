package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickwarner/creativeserve/internal/agent"
	"github.com/patrickwarner/creativeserve/internal/api"
	"github.com/patrickwarner/creativeserve/internal/catalog"
	"github.com/patrickwarner/creativeserve/internal/config"
	"github.com/patrickwarner/creativeserve/internal/gen"
	"github.com/patrickwarner/creativeserve/internal/macros"
	"github.com/patrickwarner/creativeserve/internal/middleware"
	"github.com/patrickwarner/creativeserve/internal/observability"
	"github.com/patrickwarner/creativeserve/internal/storage"
	"github.com/patrickwarner/creativeserve/internal/validation"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	cat, err := catalog.New(catalog.Standard(cfg.AgentURL))
	if err != nil {
		return fmt.Errorf("build format catalog: %w", err)
	}
	logger.Info("Format catalog loaded", zap.Int("formats", cat.Len()))

	store, err := storage.InitRedis(cfg.RedisAddr, cfg.PreviewTTL)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	// Initialize metrics registry
	metricsRegistry := observability.NewPrometheusRegistry()

	validator := validation.New(cfg.MIMECheckTimeout)
	expander := macros.NewExpander(logger)

	var generator gen.Generator
	if cfg.GeminiAPIKey != "" {
		generator = gen.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, logger, metricsRegistry)
		logger.Info("Gemini generation backend enabled", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set, generative formats will be unavailable")
	}

	svc := agent.New(agent.Options{
		Catalog:         cat,
		Validator:       validator,
		Store:           store,
		Generator:       generator,
		Expander:        expander,
		Logger:          logger,
		Metrics:         metricsRegistry,
		AgentURL:        cfg.AgentURL,
		AgentName:       cfg.AgentName,
		PublicBaseURL:   cfg.PublicBaseURL,
		PreviewTTL:      cfg.PreviewTTL,
		CheckRemoteMIME: cfg.MIMECheckEnabled,
	})

	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(logger))

	srvDeps := api.NewServer(logger, svc, store, metricsRegistry)
	srvDeps.Routes(r)

	var handler http.Handler = r
	if cfg.TracingEnabled {
		// keep scrape and probe traffic out of the trace pipeline
		handler = otelhttp.NewHandler(r, "creativeserve",
			otelhttp.WithFilter(func(req *http.Request) bool {
				return req.URL.Path != "/metrics" && req.URL.Path != "/health"
			}))
	}

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Creative agent running", zap.String("addr", addr), zap.String("agent_url", cfg.AgentURL))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
