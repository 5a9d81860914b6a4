package nn

import (
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// ReLU applies max(0, x) elementwise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the rectifier.
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.ReLU()
}

// Parameters returns an empty slice.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sine applies sin(omega·x) elementwise.
//
// The frequency omega is a fixed hyperparameter, not a trainable weight.
// With matched initialization this is the SIREN nonlinearity.
type Sine[B tensor.Backend] struct {
	omega float32
}

// NewSine creates a sinusoidal activation with frequency omega.
func NewSine[B tensor.Backend](omega float32) *Sine[B] {
	return &Sine[B]{omega: omega}
}

// Forward computes sin(omega·x).
func (s *Sine[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.MulScalar(s.omega).Sin()
}

// Omega returns the activation frequency.
func (s *Sine[B]) Omega() float32 {
	return s.omega
}

// Parameters returns an empty slice.
func (s *Sine[B]) Parameters() []*Parameter[B] {
	return nil
}

// Gaussian applies exp(-(scale·x)²) elementwise.
type Gaussian[B tensor.Backend] struct {
	scale float32
}

// NewGaussian creates a Gaussian activation with the given width scale.
func NewGaussian[B tensor.Backend](scale float32) *Gaussian[B] {
	return &Gaussian[B]{scale: scale}
}

// Forward computes exp(-(scale·x)²).
func (g *Gaussian[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	sx := input.MulScalar(g.scale)
	return sx.Mul(sx).MulScalar(-1).Exp()
}

// Parameters returns an empty slice.
func (g *Gaussian[B]) Parameters() []*Parameter[B] {
	return nil
}

// Gabor applies the real Gabor wavelet sin(omega·x)·exp(-(scale·x)²):
// a sinusoid under a Gaussian envelope. Localized in both space and
// frequency, which is what makes it effective for denoising tasks.
type Gabor[B tensor.Backend] struct {
	omega float32
	scale float32
}

// NewGabor creates a Gabor activation with frequency omega and envelope
// width scale.
func NewGabor[B tensor.Backend](omega, scale float32) *Gabor[B] {
	return &Gabor[B]{omega: omega, scale: scale}
}

// Forward computes sin(omega·x)·exp(-(scale·x)²).
func (g *Gabor[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	carrier := input.MulScalar(g.omega).Sin()
	sx := input.MulScalar(g.scale)
	envelope := sx.Mul(sx).MulScalar(-1).Exp()
	return carrier.Mul(envelope)
}

// Parameters returns an empty slice.
func (g *Gabor[B]) Parameters() []*Parameter[B] {
	return nil
}
