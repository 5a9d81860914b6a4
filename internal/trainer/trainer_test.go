package trainer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/inr"
	"github.com/fieldfit-ml/fieldfit/internal/signal"
)

func testSetup(t *testing.T, task Task, target, observed *signal.Signal, epochs int) Config[*cpu.Backend] {
	t.Helper()
	backend := autodiff.New(cpu.New())
	model, err := inr.New(inr.Config{
		Family:         inr.Siren,
		InFeatures:     2,
		OutFeatures:    1,
		HiddenFeatures: 8,
		HiddenLayers:   1,
		Omega:          5,
		Scale:          5,
	}, backend)
	require.NoError(t, err)

	coords, err := signal.BuildGrid(target.Shape[0], target.Shape[1])
	require.NoError(t, err)

	return Config[*cpu.Backend]{
		Task:      task,
		Model:     model,
		Backend:   backend,
		Coords:    coords,
		Target:    target,
		Observed:  observed,
		Epochs:    epochs,
		BatchSize: 16,
		LR:        1e-2,
		LRDecay:   0.1,
		Seed:      42,
		LogEvery:  1000,
	}
}

func constantSignal(h, w int, value float32) *signal.Signal {
	data := make([]float32, h*w)
	for i := range data {
		data[i] = value
	}
	return &signal.Signal{Data: data, Shape: []int{h, w, 1}}
}

func TestRunFitsConstantSignal(t *testing.T) {
	target := constantSignal(8, 8, 0.5)
	cfg := testSetup(t, TaskDenoise, target, target, 20)

	tr, err := New(cfg)
	require.NoError(t, err)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, result.History.Len())
	assert.Len(t, result.Reconstruction, 64)
	assert.Len(t, result.Best, 64)
	assert.GreaterOrEqual(t, result.BestEpoch, 0)
	assert.Positive(t, result.NumParams)

	first := result.History.Loss[0]
	last := result.History.Loss[result.History.Len()-1]
	assert.Less(t, last, first, "loss should trend down on a constant signal")

	for _, l := range result.History.Loss {
		assert.False(t, math.IsNaN(l))
	}
}

func TestRunRemainderMinibatch(t *testing.T) {
	// 6×6 = 36 samples with batch 16 leaves a remainder of 4.
	target := constantSignal(6, 6, 0.3)
	cfg := testSetup(t, TaskDenoise, target, target, 2)

	tr, err := New(cfg)
	require.NoError(t, err)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Reconstruction, 36)
}

func TestRunOccupancyTracksIoU(t *testing.T) {
	target := constantSignal(8, 8, 1)
	cfg := testSetup(t, TaskOccupancy, target, target, 3)
	cfg.Threshold = 0.5

	tr, err := New(cfg)
	require.NoError(t, err)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)
	for _, m := range result.History.Metric {
		assert.GreaterOrEqual(t, m, 0.0)
		assert.LessOrEqual(t, m, 1.0)
	}
}

func TestRunAbortsOnNonFiniteLoss(t *testing.T) {
	target := constantSignal(4, 4, 0.5)
	observed := constantSignal(4, 4, 0.5)
	observed.Data[3] = float32(math.NaN())
	cfg := testSetup(t, TaskDenoise, target, observed, 2)
	cfg.BatchSize = 16 // one minibatch covers the poisoned sample

	tr, err := New(cfg)
	require.NoError(t, err)

	_, err = tr.Run(context.Background())
	assert.ErrorIs(t, err, ErrNonFiniteLoss)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	target := constantSignal(8, 8, 0.5)
	cfg := testSetup(t, TaskDenoise, target, target, 1000)

	tr, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunIsSingleUse(t *testing.T) {
	target := constantSignal(4, 4, 0.5)
	cfg := testSetup(t, TaskDenoise, target, target, 1)

	tr, err := New(cfg)
	require.NoError(t, err)

	_, err = tr.Run(context.Background())
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	target := constantSignal(4, 4, 0.5)

	cfg := testSetup(t, TaskDenoise, target, target, 1)
	cfg.Epochs = 0
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = testSetup(t, Task("teleport"), target, target, 1)
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = testSetup(t, TaskDenoise, target, constantSignal(3, 3, 0.5), 1)
	_, err = New(cfg)
	assert.Error(t, err)
}
