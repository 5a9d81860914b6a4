package nn

import (
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// MSELoss computes mean((predictions - targets)²).
//
// The reduction runs through the backend, so with an autodiff backend the
// whole loss is on the tape and Backward seeds a [1]-shaped ones tensor.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a mean-squared-error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes the scalar loss, shape [1].
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	diff := predictions.Sub(targets)
	return diff.Mul(diff).Mean()
}

// Parameters returns an empty slice.
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
