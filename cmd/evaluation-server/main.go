// cmd/evaluation-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"loan-evaluation/internal/audit"
	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/database"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/observability"
	"loan-evaluation/internal/orchestrator"
	"loan-evaluation/internal/policy"
	"loan-evaluation/internal/server"
	"loan-evaluation/internal/stages/credit"
	"loan-evaluation/internal/stages/extraction"
	"loan-evaluation/internal/stages/notification"
	"loan-evaluation/internal/stages/valuation"
	"loan-evaluation/internal/store"
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
			delay *= 2
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
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting evaluation server...")

	obs := observability.New("evaluation-server")
	defer obs.Shutdown()

	ctx := context.Background()

	requestStore, cleanup, err := buildStore(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("store init failed", zap.Error(err))
	}
	defer cleanup()

	var auditSink orchestrator.AuditSink = audit.Disabled{}
	if cfg.Audit.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := esClient.Ping(); err != nil {
			zapLog.Warn("elasticsearch unreachable, audit indexing degraded", zap.Error(err))
		}
		auditSink = audit.NewIndexer(esClient, cfg.Audit.Index, log)
		zapLog.Info("Audit indexing enabled", zap.String("index", cfg.Audit.Index))
	}

	orch := orchestrator.New(
		extraction.NewClient(cfg.Stages.Extraction, log),
		credit.NewClient(cfg.Stages.Credit, log),
		valuation.NewClient(cfg.Stages.Valuation, log),
		notification.NewDecisionNotifier(notification.NewClient(cfg.Stages.Notification, log)),
		auditSink,
		requestStore,
		policy.NewEngine(log),
		log,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(orch, obs, log).Router(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}
	zapLog.Info("Evaluation server stopped")
}

// buildStore selects and connects the configured request store backend.
func buildStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, nil, err
		}
		zapLog.Info("Redis store connected")
		return store.NewRedisStore(redisClient.Client), func() { redisClient.Close() }, nil

	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, err
		}
		pgStore := store.NewPostgresStore(pg.DB)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		zapLog.Info("PostgreSQL store connected")
		return pgStore, func() { pg.Close() }, nil

	default:
		zapLog.Info("File store selected", zap.String("path", cfg.Store.FilePath))
		return store.NewFileStore(cfg.Store.FilePath, log), func() {}, nil
	}
}
