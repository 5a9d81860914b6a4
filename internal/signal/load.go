package signal

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/sbinet/npyio"
)

// LoadError reports a signal that could not be read from disk.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signal: load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("signal: load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadImage decodes a PNG or JPEG file into a [H, W, C] signal normalized
// to [0, 1]. Grayscale images yield C=1, everything else C=3.
func LoadImage(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "open image", Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "decode image", Err: err}
	}

	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	if h == 0 || w == 0 {
		return nil, &LoadError{Path: path, Reason: "empty image"}
	}

	var s *Signal
	if gray, ok := img.(*image.Gray); ok {
		s = &Signal{Data: make([]float32, h*w), Shape: []int{h, w, 1}}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				s.Data[y*w+x] = float32(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) / 255
			}
		}
	} else {
		s = &Signal{Data: make([]float32, h*w*3), Shape: []int{h, w, 3}}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				base := (y*w + x) * 3
				s.Data[base] = float32(r) / 65535
				s.Data[base+1] = float32(g) / 65535
				s.Data[base+2] = float32(b) / 65535
			}
		}
	}
	s.Normalize()
	return s, nil
}

// LoadVolume reads a rank-3 .npy array into a [H, W, T] signal normalized
// to [0, 1].
func LoadVolume(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "open volume", Err: err}
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "read npy header", Err: err}
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 3 {
		return nil, &LoadError{
			Path:   path,
			Reason: fmt.Sprintf("want a rank-3 volume, got shape %v", shape),
		}
	}
	n := shape[0] * shape[1] * shape[2]

	var data []float32
	if strings.Contains(r.Header.Descr.Type, "f8") {
		wide := make([]float64, n)
		if err := r.Read(&wide); err != nil {
			return nil, &LoadError{Path: path, Reason: "read npy payload", Err: err}
		}
		data = make([]float32, n)
		for i, v := range wide {
			data[i] = float32(v)
		}
	} else {
		data = make([]float32, n)
		if err := r.Read(&data); err != nil {
			return nil, &LoadError{Path: path, Reason: "read npy payload", Err: err}
		}
	}

	s := &Signal{Data: data, Shape: []int{shape[0], shape[1], shape[2]}}
	s.Normalize()
	return s, nil
}
