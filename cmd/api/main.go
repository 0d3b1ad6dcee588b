package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"github.com/Dan9191/voucher-service/internal/config"
	"github.com/Dan9191/voucher-service/internal/handler"
	"github.com/Dan9191/voucher-service/internal/integrations/inegi"
	"github.com/Dan9191/voucher-service/internal/metrics"
	"github.com/Dan9191/voucher-service/internal/repository"
	"github.com/Dan9191/voucher-service/internal/scheduler"
	"github.com/Dan9191/voucher-service/internal/service"
	"github.com/Dan9191/voucher-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo := repository.NewRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize layers
	svc := service.NewVoucherService(repo, repo, logger, service.WithRecorder(m))
	auth := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, logger)

	var updater *service.IndexUpdater
	if cfg.INEGIEnabled() {
		var notifier service.Notifier
		if cfg.EmailEnabled() {
			notifier = email.NewSender(cfg, logger)
		}
		updater = service.NewIndexUpdater(inegi.NewClient(cfg, logger), repo, notifier, m, logger)
	} else {
		logger.Warn("INEGI_API_KEY not set, UMA refresh disabled")
	}

	if updater != nil && cfg.UMARefreshSchedule != "" {
		sched, err := scheduler.NewScheduler(cfg.UMARefreshSchedule, updater, logger)
		if err != nil {
			logger.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	h := handler.NewHandler(svc, updater, auth, logger)
	r := handler.NewRouter(h, cfg, logger, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
