package main

import (
	"context"
	"flag"
	"log"

	"github.com/memoria-app/memoria/app"
	"github.com/memoria-app/memoria/config"
	"go.uber.org/zap"
)

// reembed sweeps stored items and regenerates vectors. By default it only
// fills in missing embeddings; -full rechecks every item against its
// content hash, picking up edits made since the last sweep.
func main() {
	full := flag.Bool("full", false, "Recheck every item, not just those missing embeddings")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.New(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer func() { _ = deps.Close(ctx) }()

	svc := deps.EmbeddingService

	if *full {
		res, err := svc.ReconcileAll(ctx)
		if err != nil {
			logger.Fatal("reconcile failed", zap.Error(err))
		}
		logger.Info("full reconcile complete",
			zap.Int("scanned", res.Scanned),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed))
		return
	}

	res, err := svc.Backfill(ctx)
	if err != nil {
		logger.Fatal("backfill failed", zap.Error(err))
	}
	logger.Info("backfill complete",
		zap.Int("scanned", res.Scanned),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed))
}
