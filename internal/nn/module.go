// Package nn implements the neural-network building blocks used by the
// implicit-function models.
//
// Provided components:
//   - Module interface and Parameter with gradient tracking
//   - Linear: fully connected layer
//   - Activations: ReLU, Sine, Gaussian, Gabor
//   - MSELoss
//   - Sequential: container for stacking layers
package nn

import (
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Module is the base interface for all network components.
//
// Modules compose into architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 256, backend),
//	    nn.NewSine[B](30),
//	    nn.NewLinear(256, 1, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module output for the given input.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module.
	// Modules without parameters return an empty slice.
	Parameters() []*Parameter[B]
}

// StatefulModule is a module whose parameters can be exported and restored
// as a named tensor map, for checkpointing.
type StatefulModule[B tensor.Backend] interface {
	Module[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
