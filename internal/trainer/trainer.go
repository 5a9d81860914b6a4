// Package trainer fits a coordinate network to one signal with minibatch
// SGD over shuffled coordinates. Each epoch visits every sample exactly
// once, maintains a running reconstruction of the full signal, and tracks
// a task-specific quality metric against the training target.
package trainer

import (
	"errors"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/config"
	"github.com/fieldfit-ml/fieldfit/internal/inr"
	"github.com/fieldfit-ml/fieldfit/internal/metrics"
	"github.com/fieldfit-ml/fieldfit/internal/signal"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
	"github.com/fieldfit-ml/fieldfit/internal/track"
)

// ErrNonFiniteLoss aborts a run whose loss became NaN or infinite. The
// parameters are unrecoverable at that point so continuing would only
// burn the remaining epoch budget.
var ErrNonFiniteLoss = errors.New("trainer: loss is not finite")

// Task selects the tracked quality metric.
type Task string

const (
	// TaskDenoise tracks PSNR of the reconstruction against the noisy
	// observation, with PSNR against the clean signal reported alongside.
	TaskDenoise Task = "denoise"
	// TaskOccupancy tracks intersection-over-union at the threshold.
	TaskOccupancy Task = "occupancy"
)

// Config assembles one training run.
type Config[B tensor.Backend] struct {
	Task    Task
	Model   *inr.Model[*autodiff.Backend[B]]
	Backend *autodiff.Backend[B]

	// Coords holds one [N, dims] row per sample, aligned with the
	// flattened signals below.
	Coords *tensor.RawTensor
	// Target is the clean reference signal.
	Target *signal.Signal
	// Observed is what the network is fitted to: the noisy measurement
	// for denoising, the target itself for occupancy.
	Observed *signal.Signal

	Epochs    int
	BatchSize int
	LR        float32
	LRDecay   float64
	Threshold float32 // occupancy threshold, defaults to 0.5
	Seed      int64
	LogEvery  int

	// Tracker streams progress when set. Always best-effort.
	Tracker *track.Client
}

// Validate rejects configurations that cannot run.
func (c *Config[B]) Validate() error {
	if c.Task != TaskDenoise && c.Task != TaskOccupancy {
		return config.Errorf("task", "unknown task %q", c.Task)
	}
	if c.Model == nil {
		return config.Errorf("model", "required")
	}
	if c.Backend == nil {
		return config.Errorf("backend", "required")
	}
	if c.Coords == nil || c.Target == nil || c.Observed == nil {
		return config.Errorf("data", "coords, target, and observed are all required")
	}
	if c.Epochs <= 0 {
		return config.Errorf("epochs", "must be > 0, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return config.Errorf("batchSize", "must be > 0, got %d", c.BatchSize)
	}
	if c.LR <= 0 {
		return config.Errorf("lr", "must be > 0, got %g", c.LR)
	}
	if c.LRDecay <= 0 || c.LRDecay > 1 {
		return config.Errorf("lrDecay", "must be in (0, 1], got %g", c.LRDecay)
	}

	n := c.Coords.Shape()[0]
	channels := c.Model.Config().OutFeatures
	if len(c.Target.Data) != n*channels {
		return config.Errorf("target", "have %d values for %d samples of %d channels",
			len(c.Target.Data), n, channels)
	}
	if len(c.Observed.Data) != len(c.Target.Data) {
		return config.Errorf("observed", "size %d does not match target size %d",
			len(c.Observed.Data), len(c.Target.Data))
	}
	if c.Coords.Shape()[1] != c.Model.Config().InFeatures {
		return config.Errorf("coords", "have %d dims, model wants %d",
			c.Coords.Shape()[1], c.Model.Config().InFeatures)
	}
	return nil
}

// Result is the outcome of a completed run.
type Result struct {
	History *metrics.History

	// Reconstruction is the model output for every sample after the last
	// epoch; Best is the snapshot from the best-metric epoch.
	Reconstruction []float32
	Best           []float32
	BestEpoch      int
	BestMetric     float64

	// GroundTruthPSNR rates the best reconstruction against the clean
	// signal, independent of what the loss was fitted to.
	GroundTruthPSNR float64

	NumParams int
}

type runState int

const (
	stateInitialized runState = iota
	stateRunning
	stateStopped
)

// Trainer drives one run. A Trainer is single-use: Run may be called
// exactly once.
type Trainer[B tensor.Backend] struct {
	cfg   Config[B]
	state runState
}

// New validates the configuration and prepares a run.
func New[B tensor.Backend](cfg Config[B]) (*Trainer[B], error) {
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.5
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 10
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Trainer[B]{cfg: cfg, state: stateInitialized}, nil
}
