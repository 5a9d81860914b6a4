// Package tensor provides dense float32 tensors for the fieldfit training
// core.
//
// The package defines three layers:
//   - RawTensor: a flat float32 buffer with shape and strides
//   - Backend: the compute contract implemented by backend/cpu and
//     decorated by autodiff
//   - Tensor[B]: a thin typed wrapper whose methods dispatch to the backend
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

// Tensor is a shape-checked tensor bound to a compute backend.
//
// B is the backend implementation; operations on Tensor call the backend,
// so wrapping a backend with autodiff makes every Tensor method recordable.
type Tensor[B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a raw tensor.
func New[B Backend](raw *RawTensor, b B) *Tensor[B] {
	return &Tensor[B]{raw: raw, backend: b}
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(err)
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(err)
	}
	data := raw.Data()
	for i := range data {
		data[i] = value
	}
	return New(raw, b)
}

// FromSlice creates a tensor from a Go slice. The slice is owned by the
// tensor afterwards.
func FromSlice[B Backend](data []float32, shape Shape, b B) (*Tensor[B], error) {
	raw, err := FromData(data, shape)
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Raw returns the underlying raw tensor.
func (t *Tensor[B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the tensor's compute backend.
func (t *Tensor[B]) Backend() B {
	return t.backend
}

// Shape returns the tensor's shape.
func (t *Tensor[B]) Shape() Shape {
	return t.raw.Shape()
}

// Data returns the underlying float32 slice.
func (t *Tensor[B]) Data() []float32 {
	return t.raw.Data()
}

// Add performs elementwise addition with broadcasting.
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs elementwise subtraction with broadcasting.
func (t *Tensor[B]) Sub(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs elementwise multiplication with broadcasting.
func (t *Tensor[B]) Mul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs elementwise division with broadcasting.
func (t *Tensor[B]) Div(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication: [M,K] @ [K,N] -> [M,N].
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	return New(t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Transpose swaps the two axes of a 2D tensor.
func (t *Tensor[B]) Transpose() *Tensor[B] {
	return New(t.backend.Transpose(t.raw), t.backend)
}

// Reshape returns a tensor with the same data under a new shape.
func (t *Tensor[B]) Reshape(dims ...int) *Tensor[B] {
	return New(t.backend.Reshape(t.raw, Shape(dims)), t.backend)
}

// MulScalar multiplies every element by s.
func (t *Tensor[B]) MulScalar(s float32) *Tensor[B] {
	return New(t.backend.MulScalar(t.raw, s), t.backend)
}

// AddScalar adds s to every element.
func (t *Tensor[B]) AddScalar(s float32) *Tensor[B] {
	return New(t.backend.AddScalar(t.raw, s), t.backend)
}

// Exp applies the elementwise exponential.
func (t *Tensor[B]) Exp() *Tensor[B] {
	return New(t.backend.Exp(t.raw), t.backend)
}

// Sin applies the elementwise sine.
func (t *Tensor[B]) Sin() *Tensor[B] {
	return New(t.backend.Sin(t.raw), t.backend)
}

// Cos applies the elementwise cosine.
func (t *Tensor[B]) Cos() *Tensor[B] {
	return New(t.backend.Cos(t.raw), t.backend)
}

// Sqrt applies the elementwise square root.
func (t *Tensor[B]) Sqrt() *Tensor[B] {
	return New(t.backend.Sqrt(t.raw), t.backend)
}

// ReLU applies max(0, x) elementwise.
func (t *Tensor[B]) ReLU() *Tensor[B] {
	return New(t.backend.ReLU(t.raw), t.backend)
}

// Mean reduces the tensor to its scalar mean, shape [1].
func (t *Tensor[B]) Mean() *Tensor[B] {
	return New(t.backend.Mean(t.raw), t.backend)
}
