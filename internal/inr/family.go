// Package inr builds implicit neural representations: small MLPs that map
// normalized coordinates to signal values, one network per fitted signal.
// The nonlinearity family decides both the activation and the weight
// initialization scheme.
package inr

import (
	"github.com/fieldfit-ml/fieldfit/internal/config"
)

// Family names a nonlinearity family.
type Family string

const (
	// Wire uses real Gabor wavelet activations, a sinusoid under a
	// Gaussian envelope. The strongest choice for denoising.
	Wire Family = "wire"
	// Siren uses sinusoidal activations with matched uniform init.
	Siren Family = "siren"
	// Gauss uses Gaussian bump activations.
	Gauss Family = "gauss"
	// MFN is a multiplicative filter network with Gabor filters.
	MFN Family = "mfn"
	// ReLUNet is a plain ReLU MLP baseline.
	ReLUNet Family = "relu"
	// PosEnc is a ReLU MLP over positionally encoded coordinates.
	PosEnc Family = "posenc"
)

// Families lists every supported family, in the order the drivers
// advertise them.
func Families() []Family {
	return []Family{Wire, Siren, Gauss, MFN, ReLUNet, PosEnc}
}

// ParseFamily validates a family name from a flag.
func ParseFamily(name string) (Family, error) {
	f := Family(name)
	for _, known := range Families() {
		if f == known {
			return f, nil
		}
	}
	return "", config.Errorf("nonlinearity", "unknown family %q", name)
}
