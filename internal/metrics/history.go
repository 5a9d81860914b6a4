package metrics

import "time"

// History accumulates per-epoch training statistics. One entry is appended
// per completed epoch.
type History struct {
	Loss    []float64
	Metric  []float64
	Elapsed []float64
}

// NewHistory preallocates capacity for the expected number of epochs.
func NewHistory(epochs int) *History {
	if epochs < 0 {
		epochs = 0
	}
	return &History{
		Loss:    make([]float64, 0, epochs),
		Metric:  make([]float64, 0, epochs),
		Elapsed: make([]float64, 0, epochs),
	}
}

// Append records one epoch: mean minibatch loss, the tracked quality
// metric, and wall-clock time since the run started.
func (h *History) Append(loss, metric float64, elapsed time.Duration) {
	h.Loss = append(h.Loss, loss)
	h.Metric = append(h.Metric, metric)
	h.Elapsed = append(h.Elapsed, elapsed.Seconds())
}

// Len returns the number of recorded epochs.
func (h *History) Len() int { return len(h.Loss) }

// Best returns the index and value of the highest tracked metric, or
// (-1, 0) when no epochs have been recorded.
func (h *History) Best() (int, float64) {
	if len(h.Metric) == 0 {
		return -1, 0
	}
	best := 0
	for i, m := range h.Metric {
		if m > h.Metric[best] {
			best = i
		}
	}
	return best, h.Metric[best]
}
