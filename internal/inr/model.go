package inr

import (
	"math"

	"github.com/fieldfit-ml/fieldfit/internal/config"
	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Config describes one coordinate network.
type Config struct {
	Family         Family
	InFeatures     int // coordinate dimensions, 2 or 3
	OutFeatures    int // signal channels
	HiddenFeatures int
	HiddenLayers   int
	Omega          float32 // sinusoid frequency for wire/siren/mfn
	Scale          float32 // Gaussian width for wire/gauss/mfn
	Sidelength     int     // longest signal extent, sets posenc frequencies
}

// Validate rejects configurations the factory cannot build.
func (c Config) Validate() error {
	if c.InFeatures < 1 {
		return config.Errorf("inFeatures", "must be at least 1, got %d", c.InFeatures)
	}
	if c.OutFeatures < 1 {
		return config.Errorf("outFeatures", "must be at least 1, got %d", c.OutFeatures)
	}
	if c.HiddenFeatures < 1 {
		return config.Errorf("hiddenFeatures", "must be at least 1, got %d", c.HiddenFeatures)
	}
	if c.HiddenLayers < 1 {
		return config.Errorf("hiddenLayers", "must be at least 1, got %d", c.HiddenLayers)
	}
	if c.Family == PosEnc && c.Sidelength < 4 {
		return config.Errorf("sidelength", "posenc needs a sidelength of at least 4, got %d", c.Sidelength)
	}
	return nil
}

// Model is a built coordinate network. Forward maps [N, inFeatures]
// coordinates to [N, outFeatures] values.
type Model[B tensor.Backend] struct {
	cfg Config
	net nn.Module[B]
}

// New builds a coordinate network for the configured family.
func New[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	if _, err := ParseFamily(string(cfg.Family)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var net nn.Module[B]
	switch cfg.Family {
	case Wire:
		net = buildActivationMLP(cfg, backend, func() nn.Module[B] {
			return nn.NewGabor[B](cfg.Omega, cfg.Scale)
		}, true)
	case Siren:
		net = buildActivationMLP(cfg, backend, func() nn.Module[B] {
			return nn.NewSine[B](cfg.Omega)
		}, true)
	case Gauss:
		net = buildActivationMLP(cfg, backend, func() nn.Module[B] {
			return nn.NewGaussian[B](cfg.Scale)
		}, false)
	case ReLUNet:
		net = buildActivationMLP(cfg, backend, func() nn.Module[B] {
			return nn.NewReLU[B]()
		}, false)
	case PosEnc:
		enc := newPosEncoding[B](cfg.InFeatures, cfg.Sidelength)
		inner := cfg
		inner.InFeatures = enc.OutFeatures()
		mlp := buildActivationMLP(inner, backend, func() nn.Module[B] {
			return nn.NewReLU[B]()
		}, false)
		net = nn.NewSequential[B](enc, mlp)
	case MFN:
		net = newGaborNet(cfg, backend)
	}

	return &Model[B]{cfg: cfg, net: net}, nil
}

// buildActivationMLP assembles linear layers interleaved with the family
// activation. Sinusoidal families replace the default Xavier weights with
// the matched uniform scheme: 1/in on the first layer, sqrt(6/in)/omega on
// every later layer including the output head.
func buildActivationMLP[B tensor.Backend](cfg Config, backend B, activation func() nn.Module[B], sinusoidInit bool) nn.Module[B] {
	seq := nn.NewSequential[B]()

	first := nn.NewLinear[B](cfg.InFeatures, cfg.HiddenFeatures, backend)
	if sinusoidInit {
		reinitUniform(first, 1/float32(cfg.InFeatures))
	}
	seq.Add(first)
	seq.Add(activation())

	for i := 0; i < cfg.HiddenLayers; i++ {
		hidden := nn.NewLinear[B](cfg.HiddenFeatures, cfg.HiddenFeatures, backend)
		if sinusoidInit {
			reinitUniform(hidden, sinusoidBound(cfg.HiddenFeatures, cfg.Omega))
		}
		seq.Add(hidden)
		seq.Add(activation())
	}

	head := nn.NewLinear[B](cfg.HiddenFeatures, cfg.OutFeatures, backend)
	if sinusoidInit {
		reinitUniform(head, sinusoidBound(cfg.HiddenFeatures, cfg.Omega))
	}
	seq.Add(head)
	return seq
}

func sinusoidBound(fanIn int, omega float32) float32 {
	return float32(math.Sqrt(6/float64(fanIn))) / omega
}

func reinitUniform[B tensor.Backend](layer *nn.Linear[B], bound float32) {
	data := layer.Weight().Tensor().Data()
	fill := nn.Uniform[B](layer.Weight().Tensor().Shape(), bound, layer.Weight().Tensor().Backend())
	copy(data, fill.Data())
}

// Forward evaluates the network on a coordinate batch.
func (m *Model[B]) Forward(coords *tensor.Tensor[B]) *tensor.Tensor[B] {
	return m.net.Forward(coords)
}

// Parameters returns all trainable parameters.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	return m.net.Parameters()
}

// NumParameters counts trainable scalars.
func (m *Model[B]) NumParameters() int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.NumElements()
	}
	return n
}

// Family returns the configured nonlinearity family.
func (m *Model[B]) Family() Family { return m.cfg.Family }

// Config returns the build configuration.
func (m *Model[B]) Config() Config { return m.cfg }

// StateDict exports the network weights.
func (m *Model[B]) StateDict() map[string]*tensor.RawTensor {
	if stateful, ok := m.net.(nn.StatefulModule[B]); ok {
		return stateful.StateDict()
	}
	return nil
}

// LoadStateDict restores network weights from a checkpoint.
func (m *Model[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if stateful, ok := m.net.(nn.StatefulModule[B]); ok {
		return stateful.LoadStateDict(stateDict)
	}
	return nil
}
