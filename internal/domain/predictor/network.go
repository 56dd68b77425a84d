package predictor

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	actReLU   = "relu"
	actLinear = "linear"
)

// LayerSpec describes one dense layer of the yield model, as persisted in
// the model manifest.
type LayerSpec struct {
	Units      int     `json:"units"`
	Activation string  `json:"activation"`
	Dropout    float64 `json:"dropout"`
}

// DefaultTopology is the fixed regression head: three shrinking ReLU blocks
// with dropout on the wide ones, and a single linear output unit.
func DefaultTopology() []LayerSpec {
	return []LayerSpec{
		{Units: 64, Activation: actReLU, Dropout: 0.2},
		{Units: 32, Activation: actReLU, Dropout: 0.2},
		{Units: 16, Activation: actReLU},
		{Units: 1, Activation: actLinear},
	}
}

type denseLayer struct {
	w       *mat.Dense // in x out
	b       []float64
	act     string
	dropout float64
}

type network struct {
	inputDim int
	layers   []*denseLayer
}

func newNetwork(inputDim int, specs []LayerSpec, rng *rand.Rand) *network {
	n := &network{inputDim: inputDim}
	in := inputDim
	for _, spec := range specs {
		n.layers = append(n.layers, &denseLayer{
			w:       heInit(in, spec.Units, rng),
			b:       make([]float64, spec.Units),
			act:     spec.Activation,
			dropout: spec.Dropout,
		})
		in = spec.Units
	}
	return n
}

// heInit draws weights from N(0, 2/fanIn), the usual choice for ReLU stacks.
func heInit(in, out int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, in*out)
	std := math.Sqrt(2 / float64(in))
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	return mat.NewDense(in, out, data)
}

func (n *network) topology() []LayerSpec {
	specs := make([]LayerSpec, len(n.layers))
	for i, l := range n.layers {
		_, units := l.w.Dims()
		specs[i] = LayerSpec{Units: units, Activation: l.act, Dropout: l.dropout}
	}
	return specs
}

// forward runs inference without dropout.
func (n *network) forward(x *mat.Dense) *mat.Dense {
	a := x
	for _, l := range n.layers {
		var z mat.Dense
		z.Mul(a, l.w)
		addBias(&z, l.b)
		if l.act == actReLU {
			applyReLU(&z)
		}
		a = &z
	}
	return a
}

// predictOne runs a single standardized row through the network.
func (n *network) predictOne(row []float64) float64 {
	out := n.forward(mat.NewDense(1, len(row), row))
	return out.At(0, 0)
}

type layerCache struct {
	input *mat.Dense // activations fed into this layer, post-dropout
	z     *mat.Dense // pre-activation
	mask  []float64  // inverted-dropout mask over this layer's output, nil when inactive
}

// forwardTrain runs a batch with dropout enabled and keeps the
// intermediates backprop needs.
func (n *network) forwardTrain(x *mat.Dense, rng *rand.Rand) (*mat.Dense, []layerCache) {
	caches := make([]layerCache, len(n.layers))
	a := x
	for i, l := range n.layers {
		var z mat.Dense
		z.Mul(a, l.w)
		addBias(&z, l.b)
		caches[i].input = a
		caches[i].z = mat.DenseCopyOf(&z)
		if l.act == actReLU {
			applyReLU(&z)
		}
		if l.dropout > 0 {
			caches[i].mask = dropoutMask(z.RawMatrix().Data, l.dropout, rng)
		}
		a = &z
	}
	return a, caches
}

// backward computes gradients for a batch given dL/dOut and applies them
// through the optimizer.
func (n *network) backward(caches []layerCache, delta *mat.Dense, opt *adam) {
	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]
		c := caches[i]
		if c.mask != nil {
			mulElem(delta, c.mask)
		}
		if l.act == actReLU {
			reluBackward(delta, c.z)
		}
		var gradW mat.Dense
		gradW.Mul(c.input.T(), delta)
		gradB := colSums(delta)
		var next *mat.Dense
		if i > 0 {
			next = &mat.Dense{}
			next.Mul(delta, l.w.T())
		}
		opt.step(i, l, &gradW, gradB)
		delta = next
	}
}

// flatWeights serializes all weights then biases, layer by layer.
func (n *network) flatWeights() []float64 {
	var out []float64
	for _, l := range n.layers {
		out = append(out, l.w.RawMatrix().Data...)
		out = append(out, l.b...)
	}
	return out
}

func (n *network) setFlatWeights(flat []float64) error {
	off := 0
	for i, l := range n.layers {
		raw := l.w.RawMatrix().Data
		if off+len(raw)+len(l.b) > len(flat) {
			return fmt.Errorf("weight blob truncated at layer %d", i)
		}
		copy(raw, flat[off:off+len(raw)])
		off += len(raw)
		copy(l.b, flat[off:off+len(l.b)])
		off += len(l.b)
	}
	if off != len(flat) {
		return fmt.Errorf("weight blob has %d trailing values", len(flat)-off)
	}
	return nil
}

func zeroDense(r, c int) *mat.Dense {
	return mat.NewDense(r, c, nil)
}

func addBias(z *mat.Dense, b []float64) {
	r, c := z.Dims()
	raw := z.RawMatrix().Data
	for i := 0; i < r; i++ {
		row := raw[i*c : (i+1)*c]
		for j := range row {
			row[j] += b[j]
		}
	}
}

func applyReLU(z *mat.Dense) {
	raw := z.RawMatrix().Data
	for i, v := range raw {
		if v < 0 {
			raw[i] = 0
		}
	}
}

// reluBackward zeroes gradient entries where the pre-activation was negative.
func reluBackward(delta, z *mat.Dense) {
	d := delta.RawMatrix().Data
	pre := z.RawMatrix().Data
	for i := range d {
		if pre[i] <= 0 {
			d[i] = 0
		}
	}
}

// dropoutMask applies inverted dropout to data in place and returns the
// mask used, so the backward pass can mirror it.
func dropoutMask(data []float64, rate float64, rng *rand.Rand) []float64 {
	scale := 1 / (1 - rate)
	mask := make([]float64, len(data))
	for i := range data {
		if rng.Float64() < rate {
			mask[i] = 0
		} else {
			mask[i] = scale
		}
		data[i] *= mask[i]
	}
	return mask
}

func mulElem(m *mat.Dense, mask []float64) {
	raw := m.RawMatrix().Data
	for i := range raw {
		raw[i] *= mask[i]
	}
}

func colSums(m *mat.Dense) []float64 {
	r, c := m.Dims()
	raw := m.RawMatrix().Data
	sums := make([]float64, c)
	for i := 0; i < r; i++ {
		row := raw[i*c : (i+1)*c]
		for j := range row {
			sums[j] += row[j]
		}
	}
	return sums
}
