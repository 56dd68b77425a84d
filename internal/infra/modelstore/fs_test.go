package modelstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
)

func sampleSnapshot() *predictor.Snapshot {
	return &predictor.Snapshot{
		Topology: predictor.DefaultTopology(),
		Weights:  []float64{0.5, -1.25, 3, 0.0625},
		Scaler: &predictor.Scaler{
			Mean: []float64{1, 2, 3, 4, 5, 6},
			Std:  []float64{1, 1, 2, 2, 1, 1},
		},
		Metadata: predictor.Metadata{
			TrainedAt:    time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			Samples:      1000,
			Epochs:       100,
			FinalLoss:    0.42,
			FinalMAE:     0.31,
			FinalValLoss: 0.55,
			Features:     predictor.FeatureNames,
		},
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(filepath.Join(dir, "ml-model"))

	require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	for _, name := range []string{modelFile, weightsFile, scalerFile, metadataFile} {
		_, err := os.Stat(filepath.Join(dir, "ml-model", name))
		require.NoError(t, err, "expected artifact %s", name)
	}

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	// Chosen weights are exactly representable in float32.
	require.Equal(t, sampleSnapshot().Weights, loaded.Weights)
	require.Equal(t, sampleSnapshot().Topology, loaded.Topology)
	require.Equal(t, sampleSnapshot().Scaler, loaded.Scaler)
	require.Equal(t, sampleSnapshot().Metadata, loaded.Metadata)
}

func TestFSStoreLoadMissing(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "nothing-here"))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestFSStoreDetectsTruncatedWeights(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ml-model")
	store := NewFSStore(dir)
	require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, weightsFile), []byte{1, 2, 3}, 0o644))

	_, err := store.Load(context.Background())
	require.Error(t, err)
}

func TestFSStoreOverwrite(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "ml-model"))
	require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	updated := sampleSnapshot()
	updated.Weights = []float64{9, 8}
	updated.Metadata.Samples = 2000
	require.NoError(t, store.Save(context.Background(), updated))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []float64{9, 8}, loaded.Weights)
	require.Equal(t, 2000, loaded.Metadata.Samples)
}
