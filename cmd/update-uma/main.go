package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/config"
	"github.com/Dan9191/voucher-service/internal/integrations/inegi"
	"github.com/Dan9191/voucher-service/internal/repository"
	"github.com/Dan9191/voucher-service/internal/service"
	"github.com/Dan9191/voucher-service/internal/utils/email"
)

// update-uma fetches the current UMA from INEGI and stores it
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.INEGIEnabled() {
		logger.Fatal("INEGI API key not found in environment variables")
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	var notifier service.Notifier
	if cfg.EmailEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	updater := service.NewIndexUpdater(inegi.NewClient(cfg, logger), repo, notifier, nil, logger)

	value, created, err := updater.Update(ctx)
	if err != nil {
		fmt.Println("Failed to update UMA value")
		logger.Errorf("UMA update failed: %v", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Successfully updated UMA value to %s\n", value.DailyValue.StringFixed(2))
		return
	}
	fmt.Printf("UMA value already up to date: %s\n", value.DailyValue.StringFixed(2))
}
