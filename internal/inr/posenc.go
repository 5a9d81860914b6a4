package inr

import (
	"math"

	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// posEncoding expands coordinates with NeRF-style sinusoids: the raw
// coordinate followed by sin(2^l·π·x) and cos(2^l·π·x) for each frequency
// level. The level count follows the Nyquist rate of the signal extent,
// floor(log2(sidelength/4)).
//
// The encoding is a fixed input transform with no trainable state, and
// coordinates never need gradients, so it is computed directly on the raw
// buffer instead of through recorded tensor ops.
type posEncoding[B tensor.Backend] struct {
	inFeatures  int
	frequencies int
}

func newPosEncoding[B tensor.Backend](inFeatures, sidelength int) *posEncoding[B] {
	freqs := int(math.Floor(math.Log2(float64(sidelength) / 4)))
	if freqs < 1 {
		freqs = 1
	}
	return &posEncoding[B]{inFeatures: inFeatures, frequencies: freqs}
}

// OutFeatures returns the encoded width, in·(1 + 2·frequencies).
func (p *posEncoding[B]) OutFeatures() int {
	return p.inFeatures * (1 + 2*p.frequencies)
}

// Forward encodes an [N, in] coordinate batch to [N, OutFeatures()].
func (p *posEncoding[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	n := shape[0]
	in := p.inFeatures
	out := p.OutFeatures()

	src := input.Data()
	encoded := tensor.Zeros(tensor.Shape{n, out}, input.Backend())
	dst := encoded.Data()
	for i := 0; i < n; i++ {
		row := dst[i*out : (i+1)*out]
		copy(row, src[i*in:(i+1)*in])
		col := in
		for l := 0; l < p.frequencies; l++ {
			freq := math.Pi * math.Pow(2, float64(l))
			for d := 0; d < in; d++ {
				x := freq * float64(src[i*in+d])
				row[col] = float32(math.Sin(x))
				row[col+1] = float32(math.Cos(x))
				col += 2
			}
		}
	}
	return encoded
}

// Parameters returns an empty slice.
func (p *posEncoding[B]) Parameters() []*nn.Parameter[B] {
	return nil
}
