// Package signal loads and prepares the ground-truth signals that
// coordinate networks are fitted to: 2D images for denoising and 3D
// occupancy volumes for shape reconstruction. Signals are dense float32
// arrays in row-major order with the last axis varying fastest, which is
// also the flattening order used by BuildGrid and the trainer.
package signal

import "fmt"

// Signal is a dense multi-dimensional sample array. Images carry shape
// [H, W, C] and volumes [H, W, T].
type Signal struct {
	Data  []float32
	Shape []int
}

// NumElements returns the total number of samples.
func (s *Signal) NumElements() int {
	n := 1
	for _, d := range s.Shape {
		n *= d
	}
	return n
}

// Clone returns a deep copy.
func (s *Signal) Clone() *Signal {
	data := make([]float32, len(s.Data))
	copy(data, s.Data)
	shape := make([]int, len(s.Shape))
	copy(shape, s.Shape)
	return &Signal{Data: data, Shape: shape}
}

// Normalize rescales samples to [0, 1] with min-max scaling. Constant
// signals map to all zeros rather than dividing by a vanishing range.
func (s *Signal) Normalize() {
	if len(s.Data) == 0 {
		return
	}
	lo, hi := s.Data[0], s.Data[0]
	for _, v := range s.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span < 1e-12 {
		for i := range s.Data {
			s.Data[i] = 0
		}
		return
	}
	inv := 1 / span
	for i := range s.Data {
		s.Data[i] = (s.Data[i] - lo) * inv
	}
}

// CropOccupied clips a rank-3 volume to the tightest bounding box of
// samples strictly above threshold. It fails when no sample qualifies.
func (s *Signal) CropOccupied(threshold float32) error {
	if len(s.Shape) != 3 {
		return fmt.Errorf("signal: crop needs a rank-3 volume, got rank %d", len(s.Shape))
	}
	h, w, t := s.Shape[0], s.Shape[1], s.Shape[2]
	h0, w0, t0 := h, w, t
	h1, w1, t1 := -1, -1, -1
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			for k := 0; k < t; k++ {
				if s.Data[(i*w+j)*t+k] <= threshold {
					continue
				}
				if i < h0 {
					h0 = i
				}
				if i > h1 {
					h1 = i
				}
				if j < w0 {
					w0 = j
				}
				if j > w1 {
					w1 = j
				}
				if k < t0 {
					t0 = k
				}
				if k > t1 {
					t1 = k
				}
			}
		}
	}
	if h1 < 0 {
		return fmt.Errorf("signal: no samples above threshold %g, nothing to crop", threshold)
	}
	nh, nw, nt := h1-h0+1, w1-w0+1, t1-t0+1
	cropped := make([]float32, nh*nw*nt)
	for i := 0; i < nh; i++ {
		for j := 0; j < nw; j++ {
			src := ((i+h0)*w+(j+w0))*t + t0
			dst := (i*nw + j) * nt
			copy(cropped[dst:dst+nt], s.Data[src:src+nt])
		}
	}
	s.Data = cropped
	s.Shape = []int{nh, nw, nt}
	return nil
}

// Zoom rescales a rank-3 volume by the given factor per axis using
// nearest-neighbour sampling. A factor of 1 is a no-op.
func (s *Signal) Zoom(factor float64) error {
	if len(s.Shape) != 3 {
		return fmt.Errorf("signal: zoom needs a rank-3 volume, got rank %d", len(s.Shape))
	}
	if factor <= 0 {
		return fmt.Errorf("signal: zoom factor must be positive, got %g", factor)
	}
	if factor == 1 {
		return nil
	}
	h, w, t := s.Shape[0], s.Shape[1], s.Shape[2]
	nh := int(float64(h) * factor)
	nw := int(float64(w) * factor)
	nt := int(float64(t) * factor)
	if nh < 1 {
		nh = 1
	}
	if nw < 1 {
		nw = 1
	}
	if nt < 1 {
		nt = 1
	}
	out := make([]float32, nh*nw*nt)
	for i := 0; i < nh; i++ {
		si := nearest(i, nh, h)
		for j := 0; j < nw; j++ {
			sj := nearest(j, nw, w)
			for k := 0; k < nt; k++ {
				sk := nearest(k, nt, t)
				out[(i*nw+j)*nt+k] = s.Data[(si*w+sj)*t+sk]
			}
		}
	}
	s.Data = out
	s.Shape = []int{nh, nw, nt}
	return nil
}

func nearest(i, n, src int) int {
	j := i * src / n
	if j >= src {
		j = src - 1
	}
	return j
}

// Gray collapses a [H, W, 3] image to single-channel luminance using the
// Rec. 601 weighting. Single-channel inputs pass through unchanged.
func (s *Signal) Gray() error {
	if len(s.Shape) != 3 {
		return fmt.Errorf("signal: gray needs an image signal, got rank %d", len(s.Shape))
	}
	c := s.Shape[2]
	if c == 1 {
		return nil
	}
	if c != 3 {
		return fmt.Errorf("signal: gray needs 1 or 3 channels, got %d", c)
	}
	h, w := s.Shape[0], s.Shape[1]
	out := make([]float32, h*w)
	for i := 0; i < h*w; i++ {
		r, g, b := s.Data[i*3], s.Data[i*3+1], s.Data[i*3+2]
		out[i] = 0.299*r + 0.587*g + 0.114*b
	}
	s.Data = out
	s.Shape = []int{h, w, 1}
	return nil
}
