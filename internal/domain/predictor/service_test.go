package predictor

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSnapshotStore struct {
	snap  *Snapshot
	err   error
	saved *Snapshot
}

func (s *stubSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	return s.snap, s.err
}

func (s *stubSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	s.saved = snap
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func trainedSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	samples := syntheticSamples(150, rand.New(rand.NewSource(2)))
	cfg := DefaultTrainingConfig()
	cfg.Epochs = 20
	result, err := Train(samples, cfg, rand.New(rand.NewSource(4)), nil)
	require.NoError(t, err)
	return SnapshotFromResult(result, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestPredictWithoutModel(t *testing.T) {
	svc := NewService(&stubSnapshotStore{}, discardLogger())

	_, err := svc.Predict(context.Background(), Input{Rainfall: 1000})
	require.ErrorIs(t, err, ErrModelNotLoaded)

	status := svc.Status(context.Background())
	require.False(t, status.Loaded)
	require.Nil(t, status.Metadata)
}

func TestPredictContract(t *testing.T) {
	snap := trainedSnapshot(t)
	svc := NewService(&stubSnapshotStore{snap: snap}, discardLogger())

	inputs := []Input{
		{Rainfall: 1200, Fertilizer: 80, Pesticide: 12, Acreage: 1, Season: "Kharif", SoilType: "Red"},
		{Rainfall: 400, Fertilizer: 20, Pesticide: 5, Acreage: 1, Season: "Rabi", SoilType: "Sandy"},
		{Rainfall: 2000, Fertilizer: 140, Pesticide: 25, Acreage: 1, Season: "Summer", SoilType: "Unknown"},
	}
	for _, in := range inputs {
		p, err := svc.Predict(context.Background(), in)
		require.NoError(t, err)
		require.GreaterOrEqual(t, p.YieldPrediction, 0.0)
		require.GreaterOrEqual(t, p.SuitabilityScore, 0.0)
		require.LessOrEqual(t, p.SuitabilityScore, 100.0)
		require.Contains(t, []float64{0.5, 0.85}, p.Confidence)
	}
}

func TestPredictUnknownCategoriesStillWork(t *testing.T) {
	snap := trainedSnapshot(t)
	svc := NewService(&stubSnapshotStore{snap: snap}, discardLogger())

	p, err := svc.Predict(context.Background(), Input{
		Rainfall: 900, Fertilizer: 60, Pesticide: 10, Acreage: 1,
		Season: "Monsoonish", SoilType: "Volcanic",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, p.YieldPrediction, 0.0)
}

func TestBatchPredict(t *testing.T) {
	snap := trainedSnapshot(t)
	svc := NewService(&stubSnapshotStore{snap: snap}, discardLogger())

	in := Input{Rainfall: 1000, Fertilizer: 50, Pesticide: 10, Acreage: 1, Season: "Kharif", SoilType: "Loamy"}
	out, err := svc.BatchPredict(context.Background(), []Input{in, in, in})

	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, out[0], out[1])
	require.Equal(t, out[1], out[2])
}

func TestStatusReportsMetadata(t *testing.T) {
	snap := trainedSnapshot(t)
	svc := NewService(&stubSnapshotStore{snap: snap}, discardLogger())

	status := svc.Status(context.Background())

	require.True(t, status.Loaded)
	require.NotNil(t, status.Metadata)
	require.Equal(t, 150, status.Metadata.Samples)
	require.Equal(t, FeatureNames, status.Metadata.Features)
}

func TestReloadPicksUpNewSnapshot(t *testing.T) {
	store := &stubSnapshotStore{}
	svc := NewService(store, discardLogger())

	_, err := svc.Predict(context.Background(), Input{})
	require.ErrorIs(t, err, ErrModelNotLoaded)

	store.snap = trainedSnapshot(t)
	require.NoError(t, svc.Reload(context.Background()))

	_, err = svc.Predict(context.Background(), Input{Rainfall: 1000, Acreage: 1})
	require.NoError(t, err)
}

func TestEncodeSeasonAndSoil(t *testing.T) {
	require.Equal(t, 0.0, encodeSeason("Kharif"))
	require.Equal(t, 1.0, encodeSeason("Rabi"))
	require.Equal(t, 7.0, encodeSeason("No Such Season"))

	require.Equal(t, 0.0, encodeSoil("Loamy"))
	require.Equal(t, 5.0, encodeSoil("Alluvial"))
	require.Equal(t, 6.0, encodeSoil("Volcanic"))

	require.Equal(t, "Red", SoilForState("Karnataka"))
	require.Equal(t, "Unknown", SoilForState("Atlantis"))
}
