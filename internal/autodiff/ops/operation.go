// Package ops defines the differentiable operation records used by the
// gradient tape.
//
// Each operation stores the raw tensors touched during the forward pass and
// knows how to turn the gradient of its output into gradients of its
// inputs. Forward arithmetic lives in the backend; this package only holds
// the backward rules.
package ops

import "github.com/fieldfit-ml/fieldfit/internal/tensor"

// Operation is a recorded step in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice is parallel to Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by this operation.
	Output() *tensor.RawTensor
}
