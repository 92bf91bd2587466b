package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kelechionyeama/Finance-app/internal/config"
	"github.com/kelechionyeama/Finance-app/internal/database"
	"github.com/kelechionyeama/Finance-app/internal/finance"
	"github.com/kelechionyeama/Finance-app/internal/logger"
	"github.com/kelechionyeama/Finance-app/internal/quote"
	"github.com/kelechionyeama/Finance-app/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	startingCash, err := decimal.NewFromString(cfg.Finance.StartingCash)
	if err != nil {
		log.Fatal("Invalid finance.starting_cash", zap.String("value", cfg.Finance.StartingCash), zap.Error(err))
	}

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	provider := quote.NewClient(&cfg.Quote, log)
	creds := finance.NewCredentialStore(db, log, startingCash)
	ledger := finance.NewLedger(db, log)
	portfolio := finance.NewCalculator(ledger, provider, log)

	srv, err := server.New(&cfg.Server, log, creds, ledger, portfolio, provider)
	if err != nil {
		log.Fatal("Failed to set up server", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	// Block until interrupted, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}
