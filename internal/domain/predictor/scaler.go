package predictor

import (
	"github.com/montanaflynn/stats"
)

// Scaler standardizes feature columns to zero mean and unit variance. The
// fitted moments are persisted next to the weights so inference sees the
// same distribution the model trained on.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func fitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, ErrNoTrainingData
	}
	dims := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, dims),
		Std:  make([]float64, dims),
	}
	col := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, row := range rows {
			col[i] = row[d]
		}
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, err
		}
		std, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, err
		}
		if std == 0 {
			std = 1
		}
		s.Mean[d] = mean
		s.Std[d] = std
	}
	return s, nil
}

// Transform standardizes a single row in place-safe fashion.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Std[i]
	}
	return out
}

func (s *Scaler) transformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
