package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	"github.com/fasalmitra/crop-advisor/internal/infra/config"
	"github.com/fasalmitra/crop-advisor/internal/infra/dataset"
	"github.com/fasalmitra/crop-advisor/internal/infra/modelstore"
	"github.com/fasalmitra/crop-advisor/pkg/logger"
	"github.com/fasalmitra/crop-advisor/pkg/util"
)

// Trains the yield model from the configured dataset and writes the
// snapshot where the API server will pick it up.
func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for reproducible training runs")
	epochs := flag.Int("epochs", 0, "override training epochs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg := logger.New().With("component", "pretrain")
	ctx := context.Background()

	catalog := dataset.NewCatalog(cfg.Dataset.Path, logg)
	samples, err := catalog.Samples(ctx)
	if err != nil {
		log.Fatalf("load training samples: %v", err)
	}
	logg.Info("training samples loaded", "count", len(samples))

	trainCfg := predictor.DefaultTrainingConfig()
	if *epochs > 0 {
		trainCfg.Epochs = *epochs
	}

	rng := rand.New(rand.NewSource(*seed))
	start := time.Now()
	result, err := predictor.Train(samples, trainCfg, rng, func(p predictor.EpochProgress) {
		if p.Epoch%10 == 0 || p.Epoch == p.Epochs {
			logg.Info("epoch complete",
				"epoch", p.Epoch,
				"epochs", p.Epochs,
				"loss", p.Loss,
				"mae", p.MAE,
				"val_loss", p.ValLoss)
		}
	})
	if err != nil {
		log.Fatalf("train model: %v", err)
	}
	logg.Info("training finished",
		"duration", time.Since(start).String(),
		"final_loss", result.Loss,
		"final_mae", result.MAE,
		"final_val_loss", result.ValLoss)

	store := modelstore.NewFSStore(cfg.Model.Dir)
	snap := predictor.SnapshotFromResult(result, util.NowUTC())
	if err := store.Save(ctx, snap); err != nil {
		log.Fatalf("save model snapshot: %v", err)
	}
	logg.Info("model snapshot saved", "dir", cfg.Model.Dir, "samples", result.Samples)
}
