package signal

import (
	"fmt"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// BuildGrid returns one normalized coordinate per sample over a dense
// grid of the given extents, as an [N, len(shape)] tensor with each axis
// spanning [-1, 1]. Sample order is row-major with the last axis varying
// fastest, matching Signal flattening, so row i of the grid addresses
// Data[i] of a signal with the same shape. Axes of extent 1 map to -1.
func BuildGrid(shape ...int) (*tensor.RawTensor, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("signal: grid needs at least one axis")
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("signal: grid extents must be positive, got %v", shape)
		}
		n *= d
	}
	dims := len(shape)

	// Per-axis coordinate lookup, linspace(-1, 1, extent).
	axes := make([][]float32, dims)
	for a, d := range shape {
		coords := make([]float32, d)
		if d == 1 {
			coords[0] = -1
		} else {
			step := 2 / float32(d-1)
			for i := 0; i < d; i++ {
				coords[i] = -1 + float32(i)*step
			}
		}
		axes[a] = coords
	}

	grid, err := tensor.NewRaw(tensor.Shape{n, dims})
	if err != nil {
		return nil, err
	}
	data := grid.Data()
	idx := make([]int, dims)
	for i := 0; i < n; i++ {
		for a := 0; a < dims; a++ {
			data[i*dims+a] = axes[a][idx[a]]
		}
		for a := dims - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < shape[a] {
				break
			}
			idx[a] = 0
		}
	}
	return grid, nil
}
