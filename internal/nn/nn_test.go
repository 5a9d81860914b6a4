package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, b Backend, data []float32, shape tensor.Shape) *tensor.Tensor[Backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, b)
	require.NoError(t, err)
	return x
}

func TestLinearForwardShape(t *testing.T) {
	b := newBackend()
	layer := NewLinear[Backend](3, 5, b)

	x := fromSlice(t, b, make([]float32, 2*3), tensor.Shape{2, 3})
	out := layer.Forward(x)
	assert.Equal(t, tensor.Shape{2, 5}, out.Shape())
}

func TestLinearBiasApplied(t *testing.T) {
	b := newBackend()
	layer := NewLinear[Backend](2, 2, b)
	// Zero the weights so only the bias reaches the output.
	for i := range layer.Weight().Tensor().Data() {
		layer.Weight().Tensor().Data()[i] = 0
	}
	copy(layer.Bias().Tensor().Data(), []float32{1.5, -2})

	x := fromSlice(t, b, []float32{3, 4}, tensor.Shape{1, 2})
	out := layer.Forward(x)
	assert.Equal(t, []float32{1.5, -2}, out.Data())
}

func TestSineActivation(t *testing.T) {
	b := newBackend()
	act := NewSine[Backend](2)

	x := fromSlice(t, b, []float32{0, float32(math.Pi / 4)}, tensor.Shape{2})
	out := act.Forward(x).Data()
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 1, out[1], 1e-6) // sin(2·π/4)
}

func TestGaussianActivation(t *testing.T) {
	b := newBackend()
	act := NewGaussian[Backend](2)

	x := fromSlice(t, b, []float32{0, 1}, tensor.Shape{2})
	out := act.Forward(x).Data()
	assert.InDelta(t, 1, out[0], 1e-6)
	assert.InDelta(t, math.Exp(-4), out[1], 1e-5)
}

func TestGaborActivation(t *testing.T) {
	b := newBackend()
	act := NewGabor[Backend](3, 2)

	x := fromSlice(t, b, []float32{0.5}, tensor.Shape{1})
	out := act.Forward(x).Data()
	want := math.Sin(1.5) * math.Exp(-1)
	assert.InDelta(t, want, out[0], 1e-5)
}

func TestMSELoss(t *testing.T) {
	b := newBackend()
	loss := NewMSELoss[Backend]()

	pred := fromSlice(t, b, []float32{1, 2, 3}, tensor.Shape{3, 1})
	target := fromSlice(t, b, []float32{1, 0, 3}, tensor.Shape{3, 1})

	out := loss.Forward(pred, target)
	assert.Equal(t, tensor.Shape{1}, out.Shape())
	assert.InDelta(t, 4.0/3, out.Data()[0], 1e-6)
}

func TestSequentialStateDictRoundTrip(t *testing.T) {
	b := newBackend()
	model := NewSequential[Backend](
		NewLinear[Backend](2, 4, b),
		NewReLU[Backend](),
		NewLinear[Backend](4, 1, b),
	)

	state := model.StateDict()
	assert.Len(t, state, 4)
	assert.Contains(t, state, "0.weight")
	assert.Contains(t, state, "2.bias")

	// Clone weights, zero the model, restore, and compare.
	saved := make(map[string]*tensor.RawTensor, len(state))
	for name, raw := range state {
		saved[name] = raw.Clone()
	}
	for _, p := range model.Parameters() {
		for i := range p.Tensor().Data() {
			p.Tensor().Data()[i] = 0
		}
	}
	require.NoError(t, model.LoadStateDict(saved))
	for name, raw := range model.StateDict() {
		assert.Equal(t, saved[name].Data(), raw.Data(), name)
	}
}

func TestLoadStateDictRejectsShapeMismatch(t *testing.T) {
	b := newBackend()
	layer := NewLinear[Backend](2, 3, b)

	bad, err := tensor.NewRaw(tensor.Shape{2, 2})
	require.NoError(t, err)
	err = layer.LoadStateDict(map[string]*tensor.RawTensor{
		"weight": bad,
		"bias":   layer.Bias().Tensor().Raw(),
	})
	assert.Error(t, err)
}

func TestUniformRespectsBound(t *testing.T) {
	b := newBackend()
	w := Uniform(tensor.Shape{64, 64}, 0.1, b)
	for _, v := range w.Data() {
		assert.LessOrEqual(t, float64(v), 0.1)
		assert.GreaterOrEqual(t, float64(v), -0.1)
	}
}
