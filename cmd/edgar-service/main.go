// cmd/edgar-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"edgar-content-service/internal/common/config"
	"edgar-content-service/internal/common/database"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/middleware"
	"edgar-content-service/internal/common/observability"
	"edgar-content-service/internal/directory"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/filings"
	"edgar-content-service/internal/handlers/health"
	"edgar-content-service/internal/store"
	"edgar-content-service/pkg/forms"

	// Comparison Handlers (1)
	fc "edgar-content-service/internal/handlers/compare/filing-compare"

	// Extraction Handlers (4)
	bd "edgar-content-service/internal/handlers/extract/business-description"
	fin "edgar-content-service/internal/handlers/extract/financial-statements"
	md "edgar-content-service/internal/handlers/extract/mda"
	rf "edgar-content-service/internal/handlers/extract/risk-factors"

	// Search Handlers (3)
	cs "edgar-content-service/internal/handlers/search/company-search"
	fs "edgar-content-service/internal/handlers/search/filing-search"
	it "edgar-content-service/internal/handlers/search/insider-transactions"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting EDGAR content service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(health.ServiceName)
	defer obs.Shutdown()

	var tracing *observability.Tracing
	if cfg.Observability.TracingEnabled {
		tracing, err = observability.NewTracing(health.ServiceName, cfg.App.Version, cfg.Observability.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown()
		}
	}

	ctx := context.Background()

	// --- Init Redis (optional) with retry ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			// The service degrades to direct EDGAR calls without Redis.
			zapLog.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init PostgreSQL (optional) with retry ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, section store disabled", zap.Error(err))
			pg = nil
		} else {
			defer pg.Close()
			zapLog.Info("PostgreSQL connected successfully")
		}
	}

	// --- Init Elasticsearch (optional) with retry ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, section index disabled", zap.Error(err))
			esClient = nil
		} else {
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Init EDGAR client ---
	edgarClient, err := edgar.NewClientWithConfig(&edgar.ClientConfig{
		UserAgent:         cfg.Edgar.UserAgent,
		ArchivesBaseURL:   cfg.Edgar.ArchivesBaseURL,
		DataBaseURL:       cfg.Edgar.DataBaseURL,
		FullTextBaseURL:   cfg.Edgar.FullTextBaseURL,
		RequestsPerSecond: cfg.Edgar.RequestsPerSecond,
		RequestTimeout:    config.GetDuration(cfg.Edgar.Timeout),
		MaxDocumentBytes:  cfg.Edgar.MaxDocumentBytes,
		RetryConfig: &edgar.RetryConfig{
			MaxRetries: cfg.Edgar.MaxRetries,
			BaseDelay:  1 * time.Second,
			MaxDelay:   10 * time.Second,
		},
	}, log)
	if err != nil {
		zapLog.Fatal("edgar client failed", zap.Error(err))
	}
	zapLog.Info("EDGAR client initialized", zap.String("userAgent", cfg.Edgar.UserAgent))

	// --- Init form registry ---
	registry, err := forms.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("form registry load failed", zap.Error(err), zap.String("path", cfg.Registry.Path))
	}
	zapLog.Info("Form registry loaded", zap.String("path", cfg.Registry.Path))

	// --- Init shared services ---
	cache := edgar.NewCache(redisClient, log)
	sectionStore := store.NewSectionStore(pg, log)
	sectionIndex := store.NewSectionIndex(esClient, cfg.Database.Elasticsearch.Index, log)

	if sectionStore.Enabled() {
		if err := sectionStore.EnsureSchema(ctx); err != nil {
			zapLog.Warn("section store schema check failed", zap.Error(err))
		}
	}

	dir := directory.New(edgarClient, cache, config.GetTTL(cfg.Cache.TickersTTL), log)
	filingSvc := filings.NewService(edgarClient, cache, sectionStore, sectionIndex, registry, filings.TTLConfig{
		Submissions: config.GetTTL(cfg.Cache.SubmissionsTTL),
		Facts:       config.GetTTL(cfg.Cache.FactsTTL),
	}, log)

	zapLog.Info("All shared services initialized")

	// --- Router & Middleware ---
	router := mux.NewRouter()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS())
	if cfg.Observability.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	if tracing != nil {
		router.Use(middleware.Tracing(tracing))
	}

	// --- Health & Metrics ---
	checks := []health.Check{
		{Name: "edgar", Critical: true, Probe: edgarClient.HealthCheck},
	}
	if redisClient != nil {
		checks = append(checks, health.Check{Name: "redis", Critical: false, Probe: redisClient.Ping})
	}
	if pg != nil {
		checks = append(checks, health.Check{Name: "postgres", Critical: false, Probe: pg.Ping})
	}
	if esClient != nil {
		checks = append(checks, health.Check{Name: "elasticsearch", Critical: false, Probe: func(ctx context.Context) error {
			return esClient.Ping()
		}})
	}
	readiness := health.NewReadiness(log, 10*time.Second, checks...)

	router.Handle("/health", health.NewHandler(log)).Methods(http.MethodGet)
	router.Handle("/ready", readiness).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// --- START: Register ALL 8 Endpoint Handlers ---

	// --- 1. Search Handlers (3) ---
	if hc := config.GetHandlerConfig(cfg, cs.HandlerName); hc.Enabled {
		handler := cs.NewHandler(
			&cs.Config{
				Timeout: config.GetDuration(hc.Timeout),
			},
			dir, log,
		)
		router.Handle("/search/company", handler).Methods(http.MethodGet)
		zapLog.Info("handler registered", zap.String("handler", cs.HandlerName))
	}

	if hc := config.GetHandlerConfig(cfg, fs.HandlerName); hc.Enabled {
		handler := fs.NewHandler(
			&fs.Config{
				Timeout:            config.GetDuration(hc.Timeout),
				MaxConcurrentFetch: cfg.Edgar.MaxConcurrentFetch,
			},
			dir, filingSvc, log,
		)
		router.Handle("/search/filings", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", fs.HandlerName))
	}

	if hc := config.GetHandlerConfig(cfg, it.HandlerName); hc.Enabled {
		handler := it.NewHandler(
			&it.Config{
				Timeout:            config.GetDuration(hc.Timeout),
				MaxConcurrentFetch: cfg.Edgar.MaxConcurrentFetch,
			},
			dir, filingSvc, log,
		)
		router.Handle("/search/insider-transactions", handler).Methods(http.MethodGet)
		zapLog.Info("handler registered", zap.String("handler", it.HandlerName))
	}

	// --- 2. Extraction Handlers (4) ---
	if hc := config.GetHandlerConfig(cfg, bd.HandlerName); hc.Enabled {
		handler := bd.NewHandler(
			&bd.Config{
				Timeout:  config.GetDuration(hc.Timeout),
				MaxChars: cfg.Extraction.DescriptionMaxChars,
			},
			filingSvc, log,
		)
		router.Handle("/extract/business-description", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", bd.HandlerName))
	}

	if hc := config.GetHandlerConfig(cfg, rf.HandlerName); hc.Enabled {
		handler := rf.NewHandler(
			&rf.Config{
				Timeout:        config.GetDuration(hc.Timeout),
				MaxRiskFactors: cfg.Extraction.MaxRiskFactors,
			},
			filingSvc, log,
		)
		router.Handle("/extract/risk-factors", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", rf.HandlerName))
	}

	if hc := config.GetHandlerConfig(cfg, fin.HandlerName); hc.Enabled {
		handler := fin.NewHandler(
			&fin.Config{
				Timeout: config.GetDuration(hc.Timeout),
			},
			filingSvc, log,
		)
		router.Handle("/extract/financial-statements", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", fin.HandlerName))
	}

	if hc := config.GetHandlerConfig(cfg, md.HandlerName); hc.Enabled {
		handler := md.NewHandler(
			&md.Config{
				Timeout:  config.GetDuration(hc.Timeout),
				MaxChars: cfg.Extraction.MDAMaxChars,
			},
			filingSvc, log,
		)
		router.Handle("/extract/mda", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", md.HandlerName))
	}

	// --- 3. Comparison Handlers (1) ---
	if hc := config.GetHandlerConfig(cfg, fc.HandlerName); hc.Enabled {
		handler := fc.NewHandler(
			&fc.Config{
				Timeout: config.GetDuration(hc.Timeout),
			},
			filingSvc, log,
		)
		router.Handle("/compare/filings", handler).Methods(http.MethodPost)
		zapLog.Info("handler registered", zap.String("handler", fc.HandlerName))
	}

	zapLog.Info("All endpoint handlers registered")

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("EDGAR content service stopped gracefully")
}
