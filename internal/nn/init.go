package nn

import (
	"math"
	"math/rand"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Xavier initializes a tensor with the Glorot uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(shape, float32(bound), backend)
}

// Uniform initializes a tensor with values drawn from U(-bound, +bound).
//
// Sinusoidal layers depend on this: the first layer uses bound = 1/fanIn
// and hidden layers sqrt(6/fanIn)/omega so that pre-activations stay in the
// sine's well-conditioned range.
func Uniform[B tensor.Backend](shape tensor.Shape, bound float32, backend B) *tensor.Tensor[B] {
	t := tensor.Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = (rand.Float32()*2 - 1) * bound
	}
	return t
}

// Zeros creates a zero tensor, used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}
