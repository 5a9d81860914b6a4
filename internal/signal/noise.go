package signal

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fieldfit-ml/fieldfit/internal/config"
)

// Measure simulates a noisy sensor reading of a clean signal. Samples are
// scaled so the peak value corresponds to maxPhotons expected photons,
// replaced by Poisson draws where the signal is positive, then perturbed
// by zero-mean Gaussian readout noise with variance 10^(-snrDB/10) before
// rescaling. The same seed reproduces the same measurement. Passing
// maxPhotons = +Inf disables photon noise and applies readout noise only.
func Measure(s *Signal, snrDB, maxPhotons float64, seed uint64) (*Signal, error) {
	if maxPhotons <= 0 {
		return nil, config.Errorf("maxPhotons", "must be positive, got %g", maxPhotons)
	}
	if snrDB < 0 {
		return nil, config.Errorf("snrDB", "must be non-negative, got %g", snrDB)
	}

	src := rand.NewSource(seed)
	sigma := math.Sqrt(math.Pow(10, -snrDB/10))
	readout := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}

	out := s.Clone()
	if math.IsInf(maxPhotons, 1) {
		for i := range out.Data {
			out.Data[i] += float32(readout.Rand())
		}
		return out, nil
	}

	for i, v := range out.Data {
		counts := float64(v) * maxPhotons
		if v > 0 {
			counts = distuv.Poisson{Lambda: counts, Src: src}.Rand()
		}
		out.Data[i] = float32((counts + readout.Rand()) / maxPhotons)
	}
	return out, nil
}
