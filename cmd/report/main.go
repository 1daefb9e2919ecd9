package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cividata/nyc-shooting-report/internal/config"
	"github.com/cividata/nyc-shooting-report/internal/dataset"
	"github.com/cividata/nyc-shooting-report/internal/observability"
	"github.com/cividata/nyc-shooting-report/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := dataset.NewClient(cfg.DatasetURL, cfg.HTTPTimeout, cfg.FetchRetries, logger)
	gen := report.New(client, logger, metrics, report.Options{
		DatasetURL:  cfg.DatasetURL,
		OutputDir:   cfg.OutputDir,
		PreviewRows: cfg.PreviewRows,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := gen.Run(ctx); err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
}
