package dataset

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

// Catalog loads the crop dataset once and serves it from memory. It
// implements advisor.Catalog and feeds the model trainer.
type Catalog struct {
	path   string
	logger *slog.Logger

	once   sync.Once
	result *ParseResult
	err    error
}

func NewCatalog(path string, logger *slog.Logger) *Catalog {
	return &Catalog{
		path:   path,
		logger: logger.With("component", "dataset.catalog"),
	}
}

func (c *Catalog) load() (*ParseResult, error) {
	c.once.Do(func() {
		f, err := os.Open(c.path)
		if err != nil {
			c.err = apperrors.Wrap(apperrors.CodeDatasetError, "open crop dataset", err)
			return
		}
		defer f.Close()

		res, err := Parse(f)
		if err != nil {
			c.err = apperrors.Wrap(apperrors.CodeDatasetError, "parse crop dataset", err)
			return
		}
		c.result = res
		c.logger.Info("crop dataset loaded",
			"path", c.path,
			"rows", res.TotalRows,
			"observations", len(res.Observations),
			"skipped", len(res.Skipped))
	})
	return c.result, c.err
}

func (c *Catalog) Observations(ctx context.Context) ([]advisor.CropObservation, error) {
	res, err := c.load()
	if err != nil {
		return nil, err
	}
	return res.Observations, nil
}

// Samples converts the loaded observations into trainer rows.
func (c *Catalog) Samples(ctx context.Context) ([]predictor.Sample, error) {
	res, err := c.load()
	if err != nil {
		return nil, err
	}
	samples := make([]predictor.Sample, 0, len(res.Observations))
	for _, obs := range res.Observations {
		samples = append(samples, predictor.Sample{
			Crop:       obs.Crop,
			State:      obs.State,
			Season:     obs.Season,
			Rainfall:   obs.RainfallMm,
			Fertilizer: obs.FertilizerPerHectare,
			Pesticide:  obs.PesticidePerHectare,
			Yield:      obs.YieldPerHectare,
		})
	}
	return samples, nil
}

// Skipped exposes the per-row rejection report from the last load.
func (c *Catalog) Skipped(ctx context.Context) ([]SkippedRow, error) {
	res, err := c.load()
	if err != nil {
		return nil, err
	}
	return res.Skipped, nil
}
