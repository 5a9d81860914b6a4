// Package cpu implements the tensor.Backend compute contract in pure Go.
//
// Kernels operate on dense float32 buffers. Binary operations support
// NumPy-style broadcasting. Matrix multiplication parallelizes across
// output rows; everything else is sequential.
package cpu

import (
	"fmt"
	"math"

	"github.com/fieldfit-ml/fieldfit/internal/parallel"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Backend is the CPU compute backend.
type Backend struct {
	par parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{par: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Add performs elementwise addition with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs elementwise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs elementwise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs elementwise division with broadcasting.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y, func(a, c float32) float32 { return a / c })
}

// MatMul performs 2D matrix multiplication: [M,K] @ [K,N] -> [M,N].
// Rows of the output are computed in parallel.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("MatMul: expected 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("MatMul: inner dimensions differ: %v @ %v", xs, ys))
	}

	m, k, n := xs[0], xs[1], ys[1]
	out := mustRaw(tensor.Shape{m, n})

	xd, yd, od := x.Data(), y.Data(), out.Data()
	parallel.For(m, func(i int) {
		rowX := xd[i*k : (i+1)*k]
		rowO := od[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			a := rowX[p]
			if a == 0 {
				continue
			}
			rowY := yd[p*n : (p+1)*n]
			for j := 0; j < n; j++ {
				rowO[j] += a * rowY[j]
			}
		}
	}, b.par)

	return out
}

// Transpose swaps the axes of a 2D tensor, copying the data.
func (b *Backend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	s := t.Shape()
	if len(s) != 2 {
		panic(fmt.Sprintf("Transpose: expected 2D tensor, got %v", s))
	}
	rows, cols := s[0], s[1]
	out := mustRaw(tensor.Shape{cols, rows})

	td, od := t.Data(), out.Data()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			od[j*rows+i] = td[i*cols+j]
		}
	}
	return out
}

// Reshape returns a view of t under a new shape.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("Reshape: %v", err))
	}
	return out
}

// MulScalar multiplies every element by s.
func (b *Backend) MulScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return v * s })
}

// AddScalar adds s to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, s float32) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return v + s })
}

// Exp computes the elementwise exponential.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Sin computes the elementwise sine.
func (b *Backend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return float32(math.Sin(float64(v))) })
}

// Cos computes the elementwise cosine.
func (b *Backend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return float32(math.Cos(float64(v))) })
}

// Sqrt computes the elementwise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// ReLU computes max(0, x) elementwise.
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Mean reduces x to its scalar mean with shape [1].
// Accumulates in float64 so large coordinate batches keep precision.
func (b *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	out := mustRaw(tensor.Shape{1})
	data := x.Data()
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	out.Data()[0] = float32(sum / float64(len(data)))
	return out
}

// unary applies f to every element, allocating a fresh output.
func (b *Backend) unary(x *tensor.RawTensor, f func(float32) float32) *tensor.RawTensor {
	out := mustRaw(x.Shape())
	xd, od := x.Data(), out.Data()
	for i, v := range xd {
		od[i] = f(v)
	}
	return out
}

func mustRaw(shape tensor.Shape) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape)
	if err != nil {
		panic(err)
	}
	return out
}
