package modelstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
)

const (
	modelFile    = "model.json"
	weightsFile  = "weights.bin"
	scalerFile   = "scaler.json"
	metadataFile = "metadata.json"
)

// FSStore persists model snapshots as four sibling files under one
// directory: a topology manifest, a little-endian float32 weight blob,
// the feature scaler and the training metadata.
type FSStore struct {
	dir string
}

// NewFSStore builds a store rooted at dir. The directory is created on
// first save.
func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

type manifest struct {
	Layers      []predictor.LayerSpec `json:"layers"`
	WeightCount int                   `json:"weightCount"`
	WeightsFile string                `json:"weightsFile"`
}

// Load restores the latest snapshot, or (nil, nil) when none was saved.
func (s *FSStore) Load(ctx context.Context) (*predictor.Snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, modelFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model manifest: %w", err)
	}

	blob, err := os.ReadFile(filepath.Join(s.dir, weightsFile))
	if err != nil {
		return nil, fmt.Errorf("read weight blob: %w", err)
	}
	if len(blob) != m.WeightCount*4 {
		return nil, fmt.Errorf("weight blob is %d bytes, manifest expects %d", len(blob), m.WeightCount*4)
	}
	weights := make([]float64, m.WeightCount)
	for i := range weights {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		weights[i] = float64(math.Float32frombits(bits))
	}

	var scaler predictor.Scaler
	if err := readJSON(filepath.Join(s.dir, scalerFile), &scaler); err != nil {
		return nil, fmt.Errorf("read scaler: %w", err)
	}
	var meta predictor.Metadata
	if err := readJSON(filepath.Join(s.dir, metadataFile), &meta); err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	return &predictor.Snapshot{
		Topology: m.Layers,
		Weights:  weights,
		Scaler:   &scaler,
		Metadata: meta,
	}, nil
}

// Save writes all four artifact files, replacing any previous snapshot.
func (s *FSStore) Save(ctx context.Context, snap *predictor.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	blob := make([]byte, len(snap.Weights)*4)
	for i, w := range snap.Weights {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(float32(w)))
	}
	if err := os.WriteFile(filepath.Join(s.dir, weightsFile), blob, 0o644); err != nil {
		return fmt.Errorf("write weight blob: %w", err)
	}

	m := manifest{
		Layers:      snap.Topology,
		WeightCount: len(snap.Weights),
		WeightsFile: weightsFile,
	}
	if err := writeJSON(filepath.Join(s.dir, modelFile), m); err != nil {
		return fmt.Errorf("write model manifest: %w", err)
	}
	if err := writeJSON(filepath.Join(s.dir, scalerFile), snap.Scaler); err != nil {
		return fmt.Errorf("write scaler: %w", err)
	}
	if err := writeJSON(filepath.Join(s.dir, metadataFile), snap.Metadata); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

var _ predictor.Store = (*FSStore)(nil)
