package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCoversFullRange(t *testing.T) {
	const n = 1000
	var hits [n]int32

	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, Config{Enabled: true, Workers: 4, MinChunk: 64})

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForSequentialBelowMinChunk(t *testing.T) {
	order := make([]int, 0, 10)
	For(10, func(i int) {
		order = append(order, i)
	}, Config{Enabled: true, Workers: 4, MinChunk: 64})

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestForDisabled(t *testing.T) {
	var count int
	For(500, func(i int) { count++ }, Config{Enabled: false, Workers: 8, MinChunk: 1})
	assert.Equal(t, 500, count)
}

func TestForZeroIterations(t *testing.T) {
	called := false
	For(0, func(i int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.Workers)
	assert.Positive(t, cfg.MinChunk)
}
