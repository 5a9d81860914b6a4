package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func newParam(t *testing.T, data []float32) *nn.Parameter[Backend] {
	t.Helper()
	b := autodiff.New(cpu.New())
	tt, err := tensor.FromSlice(data, tensor.Shape{len(data)}, b)
	require.NoError(t, err)
	return nn.NewParameter("p", tt)
}

func gradFor(t *testing.T, p *nn.Parameter[Backend], g []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromData(g, tensor.Shape{len(g)})
	require.NoError(t, err)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): raw}
}

func TestSGDStep(t *testing.T) {
	p := newParam(t, []float32{1, 2})
	opt := NewSGD([]*nn.Parameter[Backend]{p}, SGDConfig{LR: 0.1})

	opt.Step(gradFor(t, p, []float32{1, -1}))
	assert.InDelta(t, 0.9, p.Tensor().Data()[0], 1e-6)
	assert.InDelta(t, 2.1, p.Tensor().Data()[1], 1e-6)
}

func TestAdamStepMovesAgainstGradient(t *testing.T) {
	p := newParam(t, []float32{1, 1})
	opt := NewAdam([]*nn.Parameter[Backend]{p}, AdamConfig{LR: 0.1})

	opt.Step(gradFor(t, p, []float32{1, -2}))
	// First Adam step moves each weight by roughly lr in the gradient's
	// opposite direction regardless of magnitude.
	assert.Less(t, float64(p.Tensor().Data()[0]), 1.0)
	assert.Greater(t, float64(p.Tensor().Data()[1]), 1.0)
	assert.Equal(t, 1, opt.Timestep())
}

func TestAdamSkipsMissingGradients(t *testing.T) {
	p := newParam(t, []float32{1})
	opt := NewAdam([]*nn.Parameter[Backend]{p}, AdamConfig{LR: 0.1})

	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})
	assert.Equal(t, float32(1), p.Tensor().Data()[0])
}

func TestSetLR(t *testing.T) {
	p := newParam(t, []float32{1})
	opt := NewAdam([]*nn.Parameter[Backend]{p}, AdamConfig{LR: 0.1})

	opt.SetLR(0.05)
	assert.InDelta(t, 0.05, opt.GetLR(), 1e-9)
}

func TestExpDecayEndpoints(t *testing.T) {
	s := NewExpDecay(5e-3, 0.1, 200)

	assert.InDelta(t, 5e-3, s.At(0), 1e-9)
	assert.InDelta(t, 5e-4, s.At(200), 1e-9)
	// Holds at the floor after the budget.
	assert.InDelta(t, 5e-4, s.At(500), 1e-9)
}

func TestExpDecayMonotone(t *testing.T) {
	s := NewExpDecay(1, 0.2, 100)
	prev := s.At(0)
	for epoch := 1; epoch <= 120; epoch++ {
		cur := s.At(epoch)
		assert.LessOrEqual(t, float64(cur), float64(prev))
		prev = cur
	}
}
