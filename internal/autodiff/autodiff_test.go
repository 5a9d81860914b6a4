package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

func raw(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromData(data, shape)
	require.NoError(t, err)
	return r
}

func ones(shape tensor.Shape) *tensor.RawTensor {
	r, _ := tensor.NewRaw(shape)
	for i := range r.Data() {
		r.Data()[i] = 1
	}
	return r
}

func TestTapeRecordsOnlyWhileRecording(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{1, 2}, tensor.Shape{2})
	y := raw(t, []float32{3, 4}, tensor.Shape{2})

	b.Add(x, y)
	assert.Equal(t, 0, b.Tape().NumOps())

	b.Tape().StartRecording()
	b.Add(x, y)
	assert.Equal(t, 1, b.Tape().NumOps())

	b.Tape().Paused(func() {
		b.Add(x, y)
	})
	assert.Equal(t, 1, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}

func TestBackwardThroughMul(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{2, 3}, tensor.Shape{2})
	y := raw(t, []float32{5, 7}, tensor.Shape{2})

	b.Tape().StartRecording()
	b.Mul(x, y)
	grads := b.Tape().Backward(ones(tensor.Shape{2}), b)

	assert.Equal(t, []float32{5, 7}, grads[x].Data())
	assert.Equal(t, []float32{2, 3}, grads[y].Data())
}

func TestBackwardThroughMatMulChain(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := raw(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

	b.Tape().StartRecording()
	prod := b.MatMul(x, w)
	b.Mean(prod)
	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)

	// d(mean(x@I))/dx spreads 1/4 along the identity columns.
	require.NotNil(t, grads[x])
	for _, g := range grads[x].Data() {
		assert.InDelta(t, 0.25, g, 1e-6)
	}
	require.NotNil(t, grads[w])
}

func TestBackwardAccumulatesSharedInput(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{3}, tensor.Shape{1})

	b.Tape().StartRecording()
	// y = x·x, dy/dx = 2x
	b.Mul(x, x)
	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)

	assert.InDelta(t, 6, grads[x].Data()[0], 1e-6)
}

func TestBackwardSinNumericalCheck(t *testing.T) {
	b := New(cpu.New())
	const x0 = 0.7
	x := raw(t, []float32{x0}, tensor.Shape{1})

	b.Tape().StartRecording()
	b.Sin(x)
	grads := b.Tape().Backward(ones(tensor.Shape{1}), b)

	const eps = 1e-3
	lo := b.Inner().Sin(raw(t, []float32{x0 - eps}, tensor.Shape{1})).Data()[0]
	hi := b.Inner().Sin(raw(t, []float32{x0 + eps}, tensor.Shape{1})).Data()[0]
	numeric := (hi - lo) / (2 * eps)

	assert.InDelta(t, numeric, grads[x].Data()[0], 1e-3)
}

func TestBackwardBroadcastReducesBiasGrad(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := raw(t, []float32{1, 1, 1}, tensor.Shape{1, 3})

	b.Tape().StartRecording()
	b.Add(x, bias)
	grads := b.Tape().Backward(ones(tensor.Shape{2, 3}), b)

	require.NotNil(t, grads[bias])
	assert.Equal(t, tensor.Shape{1, 3}, grads[bias].Shape())
	assert.Equal(t, []float32{2, 2, 2}, grads[bias].Data())
}

func TestClearDropsOperations(t *testing.T) {
	b := New(cpu.New())
	x := raw(t, []float32{1}, tensor.Shape{1})

	b.Tape().StartRecording()
	b.AddScalar(x, 1)
	require.Equal(t, 1, b.Tape().NumOps())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}
