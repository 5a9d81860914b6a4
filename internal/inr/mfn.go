package inr

import (
	"fmt"

	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// gaborNet is a multiplicative filter network with Gabor filters. The
// hidden state starts as a filter response and is multiplied elementwise
// with a fresh filter after every linear layer, so the output is a sum of
// products of Gabor atoms rather than a composition of activations.
//
//	z_1 = g_1(x)
//	z_i = (W_{i-1} z_{i-1} + b_{i-1}) ∘ g_i(x)
//	out = W_k z_k + b_k
type gaborNet[B tensor.Backend] struct {
	filters []*gaborFilter[B]
	linears []*nn.Linear[B]
	head    *nn.Linear[B]
}

// gaborFilter computes g(x) = sin(Wx + b) ∘ exp(-γ/2·||x - μ||²) for a
// bank of hidden units. The carrier weights and the envelope centers μ are
// trainable, the width γ is a fixed hyperparameter.
type gaborFilter[B tensor.Backend] struct {
	carrier *nn.Linear[B]
	mu      *nn.Parameter[B] // [hidden, in] envelope centers
	gamma   float32
	ones    *tensor.Tensor[B] // [in, hidden] constant, spreads ||x||² per unit
	onesMu  *tensor.Tensor[B] // [in, 1] constant, sums ||μ||² over dims
}

func newGaborFilter[B tensor.Backend](in, hidden int, omega, gamma float32, backend B) *gaborFilter[B] {
	carrier := nn.NewLinear[B](in, hidden, backend)
	// Stretch the carrier frequencies to the target band.
	w := carrier.Weight().Tensor().Data()
	for i := range w {
		w[i] *= omega
	}
	mu := nn.NewParameter("mu", nn.Uniform[B](tensor.Shape{hidden, in}, 1, backend))
	return &gaborFilter[B]{
		carrier: carrier,
		mu:      mu,
		gamma:   gamma,
		ones:    tensor.Ones(tensor.Shape{in, hidden}, backend),
		onesMu:  tensor.Ones(tensor.Shape{in, 1}, backend),
	}
}

// forward returns the [N, hidden] filter response.
//
// The squared distance expands to ||x||² - 2xᵀμ + ||μ||² so the whole
// envelope stays inside matmul and broadcast ops and gradients reach μ.
func (g *gaborFilter[B]) forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	carrier := g.carrier.Forward(x).Sin()

	hidden := g.mu.Tensor().Shape()[0]
	xsq := x.Mul(x).MatMul(g.ones)
	cross := x.MatMul(g.mu.Tensor().Transpose()).MulScalar(2)
	musq := g.mu.Tensor().Mul(g.mu.Tensor()).MatMul(g.onesMu).Reshape(1, hidden)
	dist := xsq.Sub(cross).Add(musq)

	envelope := dist.MulScalar(-0.5 * g.gamma).Exp()
	return carrier.Mul(envelope)
}

func (g *gaborFilter[B]) parameters() []*nn.Parameter[B] {
	return append(g.carrier.Parameters(), g.mu)
}

func newGaborNet[B tensor.Backend](cfg Config, backend B) *gaborNet[B] {
	n := &gaborNet[B]{}
	for i := 0; i <= cfg.HiddenLayers; i++ {
		n.filters = append(n.filters, newGaborFilter[B](cfg.InFeatures, cfg.HiddenFeatures, cfg.Omega, cfg.Scale, backend))
	}
	for i := 0; i < cfg.HiddenLayers; i++ {
		n.linears = append(n.linears, nn.NewLinear[B](cfg.HiddenFeatures, cfg.HiddenFeatures, backend))
	}
	n.head = nn.NewLinear[B](cfg.HiddenFeatures, cfg.OutFeatures, backend)
	return n
}

// Forward evaluates the filter chain on an [N, in] coordinate batch.
func (n *gaborNet[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	z := n.filters[0].forward(x)
	for i, linear := range n.linears {
		z = linear.Forward(z).Mul(n.filters[i+1].forward(x))
	}
	return n.head.Forward(z)
}

// Parameters returns all trainable parameters.
func (n *gaborNet[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, f := range n.filters {
		params = append(params, f.parameters()...)
	}
	for _, l := range n.linears {
		params = append(params, l.Parameters()...)
	}
	return append(params, n.head.Parameters()...)
}

// StateDict exports filters, linear layers, and the output head.
func (n *gaborNet[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, f := range n.filters {
		for name, raw := range f.carrier.StateDict() {
			stateDict[fmt.Sprintf("filter%d.%s", i, name)] = raw
		}
		stateDict[fmt.Sprintf("filter%d.mu", i)] = f.mu.Tensor().Raw()
	}
	for i, l := range n.linears {
		for name, raw := range l.StateDict() {
			stateDict[fmt.Sprintf("linear%d.%s", i, name)] = raw
		}
	}
	for name, raw := range n.head.StateDict() {
		stateDict["head."+name] = raw
	}
	return stateDict
}

// LoadStateDict restores all trainable tensors, validating shapes.
func (n *gaborNet[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, f := range n.filters {
		sub := subDict(stateDict, fmt.Sprintf("filter%d.", i))
		mu, ok := sub["mu"]
		if !ok {
			return fmt.Errorf("missing filter%d.mu in state dict", i)
		}
		if !mu.Shape().Equal(f.mu.Tensor().Shape()) {
			return fmt.Errorf("filter%d.mu shape mismatch: expected %v, got %v", i, f.mu.Tensor().Shape(), mu.Shape())
		}
		copy(f.mu.Tensor().Data(), mu.Data())
		delete(sub, "mu")
		if err := f.carrier.LoadStateDict(sub); err != nil {
			return fmt.Errorf("failed to load filter %d: %w", i, err)
		}
	}
	for i, l := range n.linears {
		if err := l.LoadStateDict(subDict(stateDict, fmt.Sprintf("linear%d.", i))); err != nil {
			return fmt.Errorf("failed to load linear %d: %w", i, err)
		}
	}
	if err := n.head.LoadStateDict(subDict(stateDict, "head.")); err != nil {
		return fmt.Errorf("failed to load head: %w", err)
	}
	return nil
}

func subDict(stateDict map[string]*tensor.RawTensor, prefix string) map[string]*tensor.RawTensor {
	sub := make(map[string]*tensor.RawTensor)
	for key, raw := range stateDict {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			sub[key[len(prefix):]] = raw
		}
	}
	return sub
}
