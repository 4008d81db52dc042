package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	logger := cli.SetupLogger().WithComponent(applog.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker always reconciles against the CSV ledger, whatever backend
	// the interactive binary uses.
	ledgerStore := ledger.New(ledger.Config{Path: cfg.LedgerPath})
	if err := ledgerStore.Initialize(context.Background()); err != nil {
		logger.Error("Failed to initialize ledger", applog.FieldError, err, applog.FieldPath, cfg.LedgerPath)
		os.Exit(1)
	}

	mirror := cli.InitMirror(logger, cfg.SQLiteDBPath)
	defer mirror.Close()

	// Google Sheets export is optional
	var exporter sheets.TransactionExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewMirrorWorker(mirror, ledgerStore, exporter)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		mirror.Close()
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		if err := w.Run(ctx, client, cfg.ReconcileInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Worker failed", applog.FieldError, err)
			os.Exit(1)
		}
	} else {
		// No broker: periodic reconcile is the only mirror path.
		logger.Info("AMQP disabled - running reconcile-only loop")
		runReconcileLoop(ctx, w, cfg.ReconcileInterval, logger)
	}

	<-done
	logger.Info("Worker stopped")
}

func runReconcileLoop(ctx context.Context, w *worker.MirrorWorker, interval time.Duration, logger *applog.Logger) {
	if err := w.Reconcile(ctx); err != nil {
		logger.Error("Startup reconcile failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Reconcile(ctx); err != nil {
				logger.Error("Periodic reconcile failed", applog.FieldError, err)
			}
		}
	}
}
