package predictor

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

const (
	defaultRainfall   = 1000
	defaultFertilizer = 50
	defaultPesticide  = 10
	trainingAcreage   = 1
	maxPlausibleYield = 100
)

// ErrNoTrainingData is returned when every dataset row was filtered out.
var ErrNoTrainingData = apperrors.Wrap(apperrors.CodeDatasetError, "no usable training rows", nil)

// Sample is one raw dataset row offered to the trainer.
type Sample struct {
	Crop       string
	State      string
	Season     string
	Rainfall   float64
	Fertilizer float64
	Pesticide  float64
	Yield      float64
}

// TrainingConfig carries the fixed hyperparameters of the yield model.
type TrainingConfig struct {
	Epochs          int
	BatchSize       int
	LearningRate    float64
	ValidationSplit float64
}

func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Epochs:          100,
		BatchSize:       32,
		LearningRate:    0.001,
		ValidationSplit: 0.2,
	}
}

// EpochProgress reports per-epoch training metrics to the caller.
type EpochProgress struct {
	Epoch   int
	Epochs  int
	Loss    float64
	MAE     float64
	ValLoss float64
}

// TrainingResult bundles everything the model store persists.
type TrainingResult struct {
	Network  *network
	Scaler   *Scaler
	Samples  int
	Epochs   int
	Loss     float64
	MAE      float64
	ValLoss  float64
	Topology []LayerSpec
}

// buildTrainingSet filters implausible rows and fills missing agronomic
// inputs with conservative defaults. Soil is inferred from the state since
// the dataset does not record it.
func buildTrainingSet(samples []Sample) (features [][]float64, targets []float64) {
	for _, s := range samples {
		if s.Yield <= 0 || s.Yield > maxPlausibleYield {
			continue
		}
		rainfall := s.Rainfall
		if rainfall <= 0 {
			rainfall = defaultRainfall
		}
		fertilizer := s.Fertilizer
		if fertilizer <= 0 {
			fertilizer = defaultFertilizer
		}
		pesticide := s.Pesticide
		if pesticide <= 0 {
			pesticide = defaultPesticide
		}
		features = append(features, encode(Input{
			Rainfall:   rainfall,
			Fertilizer: fertilizer,
			Pesticide:  pesticide,
			Acreage:    trainingAcreage,
			Season:     s.Season,
			SoilType:   SoilForState(s.State),
		}))
		targets = append(targets, s.Yield)
	}
	return features, targets
}

// Train fits the yield model on the given samples. The rng drives weight
// init, shuffling and dropout, so a seeded source makes runs reproducible.
// onEpoch may be nil.
func Train(samples []Sample, cfg TrainingConfig, rng *rand.Rand, onEpoch func(EpochProgress)) (*TrainingResult, error) {
	features, targets := buildTrainingSet(samples)
	if len(features) == 0 {
		return nil, ErrNoTrainingData
	}

	scaler, err := fitScaler(features)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatasetError, "fit feature scaler", err)
	}
	scaled := scaler.transformAll(features)

	perm := rng.Perm(len(scaled))
	valCount := int(float64(len(scaled)) * cfg.ValidationSplit)
	if valCount >= len(scaled) {
		valCount = len(scaled) - 1
	}
	trainIdx := perm[:len(scaled)-valCount]
	valIdx := perm[len(scaled)-valCount:]

	net := newNetwork(len(FeatureNames), DefaultTopology(), rng)
	opt := newAdam(cfg.LearningRate, net.layers)

	result := &TrainingResult{
		Network:  net,
		Scaler:   scaler,
		Samples:  len(scaled),
		Epochs:   cfg.Epochs,
		Topology: net.topology(),
	}

	order := make([]int, len(trainIdx))
	copy(order, trainIdx)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss, epochMAE float64
		var batches int
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}
			loss, mae := trainBatch(net, opt, scaled, targets, order[start:end], rng)
			epochLoss += loss
			epochMAE += mae
			batches++
		}
		epochLoss /= float64(batches)
		epochMAE /= float64(batches)

		valLoss := evaluate(net, scaled, targets, valIdx)
		result.Loss = epochLoss
		result.MAE = epochMAE
		result.ValLoss = valLoss
		if onEpoch != nil {
			onEpoch(EpochProgress{Epoch: epoch, Epochs: cfg.Epochs, Loss: epochLoss, MAE: epochMAE, ValLoss: valLoss})
		}
	}
	return result, nil
}

func trainBatch(net *network, opt *adam, features [][]float64, targets []float64, idx []int, rng *rand.Rand) (loss, mae float64) {
	b := len(idx)
	dims := len(features[0])
	data := make([]float64, 0, b*dims)
	y := make([]float64, 0, b)
	for _, i := range idx {
		data = append(data, features[i]...)
		y = append(y, targets[i])
	}
	x := mat.NewDense(b, dims, data)

	opt.beginStep()
	out, caches := net.forwardTrain(x, rng)

	// MSE loss and its gradient w.r.t. the single output unit.
	delta := mat.NewDense(b, 1, nil)
	draw := delta.RawMatrix().Data
	for i := 0; i < b; i++ {
		diff := out.At(i, 0) - y[i]
		loss += diff * diff
		mae += math.Abs(diff)
		draw[i] = 2 * diff / float64(b)
	}
	loss /= float64(b)
	mae /= float64(b)

	net.backward(caches, delta, opt)
	return loss, mae
}

// evaluate computes MSE over an index subset with dropout disabled.
func evaluate(net *network, features [][]float64, targets []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		diff := net.predictOne(features[i]) - targets[i]
		sum += diff * diff
	}
	return sum / float64(len(idx))
}
