// Package optim implements the optimizers and the learning-rate schedule
// used by the batched trainer.
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 5e-3})
//	schedule := optim.NewExpDecay(5e-3, 0.1, totalEpochs)
//
//	for epoch := 0; epoch < totalEpochs; epoch++ {
//	    optimizer.SetLR(schedule.At(epoch))
//	    // ... minibatches: forward, backward, optimizer.Step(grads) ...
//	}
package optim

import (
	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Optimizer updates model parameters from a gradient map.
type Optimizer interface {
	// Step applies one update to all parameters using the gradient map
	// produced by the tape's Backward. Parameters absent from the map are
	// skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate; called by schedules between epochs.
	SetLR(lr float32)
}

// getGradient retrieves the gradient for a parameter from the tape's map,
// or nil when the parameter did not participate in the forward pass.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
