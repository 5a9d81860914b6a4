package optim

import "math"

// ExpDecay is an exponential learning-rate schedule.
//
// The multiplier at epoch e is decay^min(e/total, 1): 1.0 at epoch 0,
// decaying smoothly to the decay factor at the final epoch and holding
// there afterwards. Matches reducing the rate to decay·base over the run.
type ExpDecay struct {
	base  float32
	decay float64
	total int
}

// NewExpDecay creates a schedule over the base rate. decay must be in
// (0, 1]; total is the epoch budget.
func NewExpDecay(base float32, decay float64, total int) *ExpDecay {
	return &ExpDecay{base: base, decay: decay, total: total}
}

// Multiplier returns decay^min(epoch/total, 1).
func (s *ExpDecay) Multiplier(epoch int) float64 {
	if s.total <= 0 {
		return 1
	}
	frac := float64(epoch) / float64(s.total)
	if frac > 1 {
		frac = 1
	}
	return math.Pow(s.decay, frac)
}

// At returns the learning rate for the given epoch.
func (s *ExpDecay) At(epoch int) float32 {
	return s.base * float32(s.Multiplier(epoch))
}
