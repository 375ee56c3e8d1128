// cmd/stage-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loan-evaluation/internal/common/aws"
	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/stages/credit"
	"loan-evaluation/internal/stages/extraction"
	"loan-evaluation/internal/stages/notification"
	"loan-evaluation/internal/stages/valuation"
)

// The stage server hosts all four collaborator services on one port so a
// single process can back every stage base URL in development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting stage server...")

	ctx := context.Background()

	var emailSender notification.EmailSender
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		emailSender = sesClient
		zapLog.Info("SES email channel enabled")
	}

	var smsSender notification.SMSSender
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		smsSender = snsClient
		zapLog.Info("SNS sms channel enabled")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	extraction.NewService(log).RegisterRoutes(router)
	credit.NewService(log).RegisterRoutes(router)
	valuation.NewService(log).RegisterRoutes(router)
	notification.NewService(cfg.Notifications, emailSender, smsSender, log).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.StagePort),
		Handler: router,
	}

	go func() {
		zapLog.Info("Stage server listening", zap.Int("port", cfg.Server.StagePort))
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
	zapLog.Info("Stage server stopped")
}
