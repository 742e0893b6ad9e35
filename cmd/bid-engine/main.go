// cmd/bid-engine/main.go
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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rfp-bid-engine/internal/api"
	"rfp-bid-engine/internal/catalog"
	"rfp-bid-engine/internal/common/aws"
	"rfp-bid-engine/internal/common/config"
	"rfp-bid-engine/internal/common/database"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/common/observability"
	"rfp-bid-engine/internal/inference"
	"rfp-bid-engine/internal/listings"
	"rfp-bid-engine/internal/notify"
	"rfp-bid-engine/internal/orchestrator"

	cb "rfp-bid-engine/internal/workers/bid/consolidate-bid"
	ed "rfp-bid-engine/internal/workers/bid/extract-document"
	mp "rfp-bid-engine/internal/workers/bid/match-products"
	pr "rfp-bid-engine/internal/workers/bid/parse-requirements"
	pi "rfp-bid-engine/internal/workers/bid/price-items"
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

func stepTimeout(cfg *config.Config, taskType string) time.Duration {
	return time.Duration(cfg.Steps[taskType].Timeout) * time.Millisecond
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting bid engine...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Catalog ---
	var store *catalog.Store
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		store, err = catalog.LoadFromPostgres(ctx, pg.GetDB(), log)
	default:
		store, err = catalog.LoadFromCSV(cfg.Catalog, log)
	}
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Catalog loaded", zap.Int("products", store.Size()))

	// --- Workflow Store ---
	var workflowStore orchestrator.Store
	if cfg.Workflow.StoreBackend == "redis" {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rc.Close()
		zapLog.Info("Redis connected successfully")

		workflowStore = orchestrator.NewRedisStore(rc.GetClient(), time.Duration(cfg.Workflow.TTLHours)*time.Hour)
	} else {
		workflowStore = orchestrator.NewMemoryStore()
	}

	// --- Inference Client ---
	gemini, err := inference.NewGeminiClient(ctx, cfg.Inference.APIKey, cfg.Inference.Model)
	if err != nil {
		zapLog.Fatal("gemini client failed", zap.Error(err))
	}
	zapLog.Info("Gemini client initialized", zap.String("model", gemini.Model()))

	// --- Completion Notifier ---
	var notifier orchestrator.Notifier
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		notifier = notify.NewSNSNotifier(cfg.Notifications.SNS, snsClient, log)
		zapLog.Info("SNS notifier enabled", zap.String("topic", cfg.Notifications.SNS.TopicARN))
	}

	// --- Step Handlers ---
	selector := listings.NewSelector(cfg.Listings, log)
	handlers := orchestrator.Handlers{
		ExtractDocument: ed.NewHandler(
			&ed.Config{Timeout: stepTimeout(cfg, ed.TaskType)},
			gemini, selector, log,
		),
		ParseRequirements: pr.NewHandler(
			&pr.Config{Timeout: stepTimeout(cfg, pr.TaskType)},
			log,
		),
		MatchProducts: mp.NewHandler(
			&mp.Config{Timeout: stepTimeout(cfg, mp.TaskType)},
			store, log,
		),
		PriceItems: pi.NewHandler(
			&pi.Config{Timeout: stepTimeout(cfg, pi.TaskType)},
			store, log,
		),
		ConsolidateBid: cb.NewHandler(
			&cb.Config{Timeout: stepTimeout(cfg, cb.TaskType)},
			gemini, log,
		),
	}

	orch := orchestrator.New(workflowStore, handlers, obs, notifier, log)
	server := api.NewServer(orch, log)

	// --- HTTP Server ---
	mux := server.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ready","time":%q}`, time.Now().Format(time.RFC3339))
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Bid engine stopped gracefully")
}
