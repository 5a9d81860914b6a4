package trainer

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/metrics"
	"github.com/fieldfit-ml/fieldfit/internal/nn"
	"github.com/fieldfit-ml/fieldfit/internal/optim"
	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Run executes the full epoch budget and returns the training outcome.
// Cancelling the context stops the run between minibatches.
func (tr *Trainer[B]) Run(ctx context.Context) (*Result, error) {
	if tr.state != stateInitialized {
		return nil, errors.New("trainer: run already started")
	}
	tr.state = stateRunning
	defer func() { tr.state = stateStopped }()

	cfg := &tr.cfg
	n := cfg.Coords.Shape()[0]
	dims := cfg.Coords.Shape()[1]
	channels := cfg.Model.Config().OutFeatures
	coords := cfg.Coords.Data()
	observed := cfg.Observed.Data

	rng := rand.New(rand.NewSource(cfg.Seed))
	optimizer := optim.NewAdam(cfg.Model.Parameters(), optim.AdamConfig{LR: cfg.LR})
	schedule := optim.NewExpDecay(cfg.LR, cfg.LRDecay, cfg.Epochs)
	criterion := nn.NewMSELoss[*autodiff.Backend[B]]()

	backend := cfg.Backend
	tape := backend.Tape()
	tape.StartRecording()
	defer tape.StopRecording()

	rec := make([]float32, n*channels)
	result := &Result{
		History:   metrics.NewHistory(cfg.Epochs),
		BestEpoch: -1,
		NumParams: cfg.Model.NumParameters(),
	}

	start := time.Now()
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		optimizer.SetLR(schedule.At(epoch))
		perm := rng.Perm(n)

		epochLoss := 0.0
		batches := 0
		for lo := 0; lo < n; lo += cfg.BatchSize {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			hi := lo + cfg.BatchSize
			if hi > n {
				hi = n
			}
			indices := perm[lo:hi]
			size := len(indices)

			batchCoords := make([]float32, 0, size*dims)
			batchTargets := make([]float32, 0, size*channels)
			for _, idx := range indices {
				batchCoords = append(batchCoords, coords[idx*dims:(idx+1)*dims]...)
				batchTargets = append(batchTargets, observed[idx*channels:(idx+1)*channels]...)
			}

			bc, err := tensor.FromSlice(batchCoords, tensor.Shape{size, dims}, backend)
			if err != nil {
				return nil, err
			}
			bt, err := tensor.FromSlice(batchTargets, tensor.Shape{size, channels}, backend)
			if err != nil {
				return nil, err
			}

			optimizer.ZeroGrad()
			pred := cfg.Model.Forward(bc)

			// The running reconstruction is a side effect, not part of
			// the loss graph.
			tape.Paused(func() {
				out := pred.Data()
				for i, idx := range indices {
					copy(rec[idx*channels:(idx+1)*channels], out[i*channels:(i+1)*channels])
				}
			})

			loss := criterion.Forward(pred, bt)
			lossVal := float64(loss.Data()[0])
			if math.IsNaN(lossVal) || math.IsInf(lossVal, 0) {
				return nil, ErrNonFiniteLoss
			}
			epochLoss += lossVal
			batches++

			seed := tensor.Ones(tensor.Shape{1}, backend)
			grads := tape.Backward(seed.Raw(), backend)
			optimizer.Step(grads)
			tape.Clear()
		}

		epochLoss /= float64(batches)
		metric := tr.epochMetric(rec)
		result.History.Append(epochLoss, metric, time.Since(start))

		if result.BestEpoch < 0 || metric > result.BestMetric {
			result.BestEpoch = epoch
			result.BestMetric = metric
			result.Best = append(result.Best[:0], rec...)
		}

		if cfg.Tracker != nil {
			cfg.Tracker.LogScalars(map[string]float64{
				"loss":   epochLoss,
				"metric": metric,
				"lr":     float64(schedule.At(epoch)),
			})
		}
		if (epoch+1)%cfg.LogEvery == 0 || epoch == cfg.Epochs-1 {
			log.Printf("epoch=%d/%d loss=%.4e metric=%.4f lr=%.2e elapsed=%s",
				epoch+1, cfg.Epochs, epochLoss, metric, schedule.At(epoch),
				time.Since(start).Round(time.Millisecond))
		}
	}

	result.Reconstruction = rec
	result.GroundTruthPSNR = metrics.PSNR(cfg.Target.Data, result.Best)
	return result, nil
}

// epochMetric rates the running reconstruction against the training
// target: PSNR for denoising, IoU for occupancy.
func (tr *Trainer[B]) epochMetric(rec []float32) float64 {
	if tr.cfg.Task == TaskOccupancy {
		return metrics.IoU(rec, tr.cfg.Observed.Data, tr.cfg.Threshold)
	}
	return metrics.PSNR(tr.cfg.Observed.Data, rec)
}
