package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

func raw(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromData(data, shape)
	require.NoError(t, err)
	return r
}

func TestElementwise(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	y := raw(t, []float32{4, 3, 2, 1}, tensor.Shape{4})

	assert.Equal(t, []float32{5, 5, 5, 5}, b.Add(x, y).Data())
	assert.Equal(t, []float32{-3, -1, 1, 3}, b.Sub(x, y).Data())
	assert.Equal(t, []float32{4, 6, 6, 4}, b.Mul(x, y).Data())
	assert.Equal(t, []float32{0.25, 2.0 / 3, 1.5, 4}, b.Div(x, y).Data())
}

func TestBroadcastAdd(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := raw(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	out := b.Add(x, bias)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.Data())
}

func TestMatMul(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := raw(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := b.MatMul(x, y)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.Data())
}

func TestTranspose(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := b.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.Data())
}

func TestUnaryOps(t *testing.T) {
	b := New()
	x := raw(t, []float32{-1, 0, 1}, tensor.Shape{3})

	assert.Equal(t, []float32{0, 0, 1}, b.ReLU(x).Data())

	exp := b.Exp(raw(t, []float32{0, 1}, tensor.Shape{2})).Data()
	assert.InDelta(t, 1, exp[0], 1e-6)
	assert.InDelta(t, 2.7182817, exp[1], 1e-5)

	sin := b.Sin(raw(t, []float32{0, 1.5707964}, tensor.Shape{2})).Data()
	assert.InDelta(t, 0, sin[0], 1e-6)
	assert.InDelta(t, 1, sin[1], 1e-6)
}

func TestMean(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	out := b.Mean(x)
	assert.Equal(t, tensor.Shape{1}, out.Shape())
	assert.InDelta(t, 2.5, out.Data()[0], 1e-6)
}

func TestScalarOps(t *testing.T) {
	b := New()
	x := raw(t, []float32{1, 2}, tensor.Shape{2})

	assert.Equal(t, []float32{3, 6}, b.MulScalar(x, 3).Data())
	assert.Equal(t, []float32{2, 3}, b.AddScalar(x, 1).Data())
}
