package nn

import (
	"fmt"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Linear is a fully connected layer: y = x @ Wᵀ + b.
//
// Shapes:
//   - x: [batch, inFeatures]
//   - W: [outFeatures, inFeatures]
//   - b: [outFeatures]
//   - y: [batch, outFeatures]
//
// Weights default to Xavier initialization; callers with layer-specific
// schemes (sinusoidal layers) reinitialize through Weight().
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
}

// NewLinear creates a Linear layer with Xavier weights and zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend))
	bias := NewParameter("bias", Zeros[B](tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ Wᵀ + b.
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected %d input features, got %d", l.inFeatures, shape[1]))
	}

	output := input.MatMul(l.weight.Tensor().Transpose())

	// Bias broadcasts from [1, out] over the batch.
	b := l.bias.Tensor().Reshape(1, l.outFeatures)
	return output.Add(b)
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict exports the layer parameters.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict restores the layer parameters, validating shapes.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	weight, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}
	wantW := tensor.Shape{l.outFeatures, l.inFeatures}
	if !weight.Shape().Equal(wantW) {
		return fmt.Errorf("weight shape mismatch: expected %v, got %v", wantW, weight.Shape())
	}
	copy(l.weight.Tensor().Data(), weight.Data())

	bias, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}
	wantB := tensor.Shape{l.outFeatures}
	if !bias.Shape().Equal(wantB) {
		return fmt.Errorf("bias shape mismatch: expected %v, got %v", wantB, bias.Shape())
	}
	copy(l.bias.Tensor().Data(), bias.Data())

	return nil
}
