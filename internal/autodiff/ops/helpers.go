package ops

import (
	"fmt"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// reduceBroadcast sums a gradient down to the target shape, undoing any
// broadcasting the forward pass performed.
//
// Example: forward a[1,C] + b[N,C] -> c[N,C]; the gradient for a is
// grad_c summed over axis 0 and reshaped to [1,C].
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	if gradShape.Equal(target) {
		return grad.Clone()
	}

	// Sum away leading axes the target does not have.
	result := grad
	for len(result.Shape()) > len(target) {
		result = sumAxis(result, 0, false)
	}

	// Sum axes where the target is 1.
	for d := 0; d < len(target); d++ {
		if target[d] == 1 && result.Shape()[d] > 1 {
			result = sumAxis(result, d, true)
		}
	}

	if !result.Shape().Equal(target) {
		result = backend.Reshape(result, target)
	}
	return result
}

// sumAxis sums t along axis dim. When keep is true the axis is retained
// with size 1, otherwise it is dropped.
func sumAxis(t *tensor.RawTensor, dim int, keep bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAxis: invalid axis %d for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for d, n := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, n)
		case keep:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	out, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("sumAxis: %v", err))
	}

	// outer × axis × inner traversal of the row-major buffer.
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	axis := shape[dim]

	td, od := t.Data(), out.Data()
	for o := 0; o < outer; o++ {
		for a := 0; a < axis; a++ {
			base := (o*axis + a) * inner
			outBase := o * inner
			for i := 0; i < inner; i++ {
				od[outBase+i] += td[base+i]
			}
		}
	}
	return out
}

// fullLike returns a tensor of the given shape filled with value.
func fullLike(shape tensor.Shape, value float32) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("fullLike: %v", err))
	}
	data := out.Data()
	for i := range data {
		data[i] = value
	}
	return out
}
