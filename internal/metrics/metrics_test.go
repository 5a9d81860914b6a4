package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPSNRSelfIdentitySaturates(t *testing.T) {
	x := []float32{0.1, 0.5, 0.9}
	assert.Equal(t, MaxPSNR, PSNR(x, x))
}

func TestPSNRKnownValue(t *testing.T) {
	ref := []float32{0, 0, 0, 0}
	est := []float32{0.1, 0.1, 0.1, 0.1}
	// MSE = 0.01, PSNR = 20 dB.
	assert.InDelta(t, 20, PSNR(ref, est), 1e-4)
}

func TestPSNRMismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, PSNR([]float32{1, 2}, []float32{1}))
	assert.Equal(t, 0.0, PSNR(nil, nil))
}

func TestIoUIdentity(t *testing.T) {
	x := []float32{0, 1, 1, 0, 1}
	assert.Equal(t, 1.0, IoU(x, x, 0.5))
}

func TestIoUDisjointSupport(t *testing.T) {
	a := []float32{1, 1, 0, 0}
	b := []float32{0, 0, 1, 1}
	assert.Equal(t, 0.0, IoU(a, b, 0.5))
}

func TestIoUEmptyUnion(t *testing.T) {
	zero := []float32{0, 0, 0}
	assert.Equal(t, 0.0, IoU(zero, zero, 0.5))
}

func TestIoUPartialOverlap(t *testing.T) {
	a := []float32{1, 1, 1, 0}
	b := []float32{0, 1, 1, 1}
	assert.InDelta(t, 0.5, IoU(a, b, 0.5), 1e-9)
}

func TestHistoryAppendAndBest(t *testing.T) {
	h := NewHistory(3)
	h.Append(1.0, 10, time.Second)
	h.Append(0.5, 30, 2*time.Second)
	h.Append(0.25, 20, 3*time.Second)

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{1, 2, 3}, h.Elapsed)

	idx, val := h.Best()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 30.0, val)
}

func TestHistoryBestEmpty(t *testing.T) {
	idx, val := NewHistory(0).Best()
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, val)
}
