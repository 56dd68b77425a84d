package predictor

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

// ErrModelNotLoaded is returned by Predict when no trained snapshot is
// available yet.
var ErrModelNotLoaded = apperrors.Wrap(apperrors.CodeModelNotReady, "yield model not loaded", nil)

// Prediction is the farmer-facing output for one input row.
type Prediction struct {
	YieldPrediction  float64 `json:"yieldPrediction"`
	SuitabilityScore float64 `json:"suitabilityScore"`
	Confidence       float64 `json:"confidence"`
}

// Metadata describes the training run behind the loaded snapshot.
type Metadata struct {
	TrainedAt    time.Time `json:"trainedAt"`
	Samples      int       `json:"samples"`
	Epochs       int       `json:"epochs"`
	FinalLoss    float64   `json:"finalLoss"`
	FinalMAE     float64   `json:"finalMae"`
	FinalValLoss float64   `json:"finalValLoss"`
	Features     []string  `json:"features"`
}

// Snapshot is a fully trained model as persisted by the model store.
type Snapshot struct {
	Topology []LayerSpec
	Weights  []float64
	Scaler   *Scaler
	Metadata Metadata
}

// SnapshotFromResult packages a training result for persistence.
func SnapshotFromResult(res *TrainingResult, trainedAt time.Time) *Snapshot {
	return &Snapshot{
		Topology: res.Topology,
		Weights:  res.Network.flatWeights(),
		Scaler:   res.Scaler,
		Metadata: Metadata{
			TrainedAt:    trainedAt,
			Samples:      res.Samples,
			Epochs:       res.Epochs,
			FinalLoss:    res.Loss,
			FinalMAE:     res.MAE,
			FinalValLoss: res.ValLoss,
			Features:     FeatureNames,
		},
	}
}

// Store persists and restores trained snapshots. Load returns (nil, nil)
// when no snapshot exists yet.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Status reports whether a model is serving and what it was trained on.
type Status struct {
	Loaded   bool      `json:"loaded"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Service serves yield predictions from the most recently loaded snapshot.
type Service interface {
	Predict(ctx context.Context, in Input) (Prediction, error)
	BatchPredict(ctx context.Context, ins []Input) ([]Prediction, error)
	Status(ctx context.Context) Status
	Reload(ctx context.Context) error
}

type service struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	net    *network
	scaler *Scaler
	meta   Metadata
}

// NewService builds the prediction service and eagerly loads any persisted
// snapshot. A missing snapshot is not an error; Predict reports
// ErrModelNotLoaded until one appears.
func NewService(store Store, logger *slog.Logger) Service {
	s := &service{
		store:  store,
		logger: logger.With("component", "predictor.service"),
	}
	if err := s.Reload(context.Background()); err != nil {
		s.logger.Warn("initial model load failed", "error", err)
	}
	return s
}

func (s *service) Reload(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "load model snapshot", err)
	}
	if snap == nil {
		s.logger.Info("no trained model found, predictions disabled until training completes")
		return nil
	}
	net := newNetworkFromSnapshot(snap)
	if err := net.setFlatWeights(snap.Weights); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "restore model weights", err)
	}
	s.mu.Lock()
	s.net = net
	s.scaler = snap.Scaler
	s.meta = snap.Metadata
	s.mu.Unlock()
	s.logger.Info("yield model loaded",
		"samples", snap.Metadata.Samples,
		"trained_at", snap.Metadata.TrainedAt,
		"val_loss", snap.Metadata.FinalValLoss)
	return nil
}

// newNetworkFromSnapshot builds an uninitialized network matching the
// snapshot topology. Weights are overwritten immediately after, so the
// rand source only seeds throwaway values.
func newNetworkFromSnapshot(snap *Snapshot) *network {
	inputDim := len(snap.Metadata.Features)
	if inputDim == 0 {
		inputDim = len(FeatureNames)
	}
	n := &network{inputDim: inputDim}
	in := inputDim
	for _, spec := range snap.Topology {
		n.layers = append(n.layers, &denseLayer{
			w:       zeroDense(in, spec.Units),
			b:       make([]float64, spec.Units),
			act:     spec.Activation,
			dropout: spec.Dropout,
		})
		in = spec.Units
	}
	return n
}

func (s *service) Predict(ctx context.Context, in Input) (Prediction, error) {
	s.mu.RLock()
	net, scaler := s.net, s.scaler
	s.mu.RUnlock()
	if net == nil {
		return Prediction{}, ErrModelNotLoaded
	}
	raw := net.predictOne(scaler.Transform(encode(in)))

	confidence := 0.5
	if raw > 0 && raw < 15 {
		confidence = 0.85
	}
	return Prediction{
		YieldPrediction:  round2(math.Max(0, raw)),
		SuitabilityScore: round2(clamp(raw*10, 0, 100)),
		Confidence:       confidence,
	}, nil
}

func (s *service) BatchPredict(ctx context.Context, ins []Input) ([]Prediction, error) {
	out := make([]Prediction, 0, len(ins))
	for _, in := range ins {
		p, err := s.Predict(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) Status(ctx context.Context) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.net == nil {
		return Status{Loaded: false}
	}
	meta := s.meta
	return Status{Loaded: true, Metadata: &meta}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
