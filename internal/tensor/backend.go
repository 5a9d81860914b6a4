package tensor

// Backend defines the compute contract for tensor operations. The CPU
// backend implements the arithmetic; the autodiff backend decorates any
// Backend and records operations for the backward pass.
//
// Binary elementwise operations follow NumPy broadcasting rules. All
// operations allocate fresh output tensors.
type Backend interface {
	// Elementwise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations (2D)
	MatMul(a, b *RawTensor) *RawTensor
	Transpose(t *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Scalar operations
	MulScalar(x *RawTensor, s float32) *RawTensor
	AddScalar(x *RawTensor, s float32) *RawTensor

	// Elementwise math
	Exp(x *RawTensor) *RawTensor
	Sin(x *RawTensor) *RawTensor
	Cos(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Activations
	ReLU(x *RawTensor) *RawTensor

	// Reductions
	Mean(x *RawTensor) *RawTensor // scalar result, shape [1]

	// Metadata
	Name() string
}
