package main

import (
	"context"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/menu"
	"fintrack/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg)

	// Mirror events are optional: without a broker the ledger still works,
	// the SQLite mirror just falls behind until the worker reconciles.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without mirror events",
				applog.FieldError, err)
		} else {
			publisher = client
		}
	}

	svc := services.NewLedgerService(store, publisher)
	defer svc.Close()

	logger.Info("Starting fintrack",
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldPath, cfg.LedgerPath)

	m := menu.New(svc, os.Stdin, os.Stdout)
	if err := m.Run(context.Background()); err != nil {
		logger.Error("Menu loop failed", applog.FieldError, err)
		os.Exit(1)
	}
}
