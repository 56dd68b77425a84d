package predictor

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

type adamState struct {
	mw, vw *mat.Dense
	mb, vb []float64
}

// adam is a per-layer Adam optimizer with bias correction.
type adam struct {
	lr     float64
	t      int
	states []adamState
}

func newAdam(lr float64, layers []*denseLayer) *adam {
	a := &adam{lr: lr, states: make([]adamState, len(layers))}
	for i, l := range layers {
		r, c := l.w.Dims()
		a.states[i] = adamState{
			mw: mat.NewDense(r, c, nil),
			vw: mat.NewDense(r, c, nil),
			mb: make([]float64, len(l.b)),
			vb: make([]float64, len(l.b)),
		}
	}
	return a
}

func (a *adam) beginStep() {
	a.t++
}

func (a *adam) step(layer int, l *denseLayer, gradW *mat.Dense, gradB []float64) {
	s := a.states[layer]
	corr1 := 1 - math.Pow(adamBeta1, float64(a.t))
	corr2 := 1 - math.Pow(adamBeta2, float64(a.t))

	w := l.w.RawMatrix().Data
	gw := gradW.RawMatrix().Data
	mw := s.mw.RawMatrix().Data
	vw := s.vw.RawMatrix().Data
	for i := range w {
		mw[i] = adamBeta1*mw[i] + (1-adamBeta1)*gw[i]
		vw[i] = adamBeta2*vw[i] + (1-adamBeta2)*gw[i]*gw[i]
		w[i] -= a.lr * (mw[i] / corr1) / (math.Sqrt(vw[i]/corr2) + adamEpsilon)
	}
	for i := range l.b {
		s.mb[i] = adamBeta1*s.mb[i] + (1-adamBeta1)*gradB[i]
		s.vb[i] = adamBeta2*s.vb[i] + (1-adamBeta2)*gradB[i]*gradB[i]
		l.b[i] -= a.lr * (s.mb[i] / corr1) / (math.Sqrt(s.vb[i]/corr2) + adamEpsilon)
	}
}
