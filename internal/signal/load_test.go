package signal

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImageGrayscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 60)})
		}
	}

	s, err := LoadImage(writeTestPNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 1}, s.Shape)
	assert.Equal(t, float32(0), s.Data[0])
	assert.Equal(t, float32(1), s.Data[3])
}

func TestLoadImageColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 0, 255, 255})

	s, err := LoadImage(writeTestPNG(t, img))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 3}, s.Shape)
	assert.Equal(t, float32(1), s.Data[0]) // red channel of (0,0)
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadVolumeMissingFile(t *testing.T) {
	_, err := LoadVolume(filepath.Join(t.TempDir(), "nope.npy"))
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadVolumeRejectsWrongRank(t *testing.T) {
	// Minimal npy header for a rank-1 float32 array of 2 elements.
	path := filepath.Join(t.TempDir(), "flat.npy")
	header := "\x93NUMPY\x01\x00"
	descr := "{'descr': '<f4', 'fortran_order': False, 'shape': (2,), }"
	pad := 128 - (len(header) + 2 + len(descr) + 1)
	for i := 0; i < pad; i++ {
		descr += " "
	}
	descr += "\n"
	blob := []byte(header)
	blob = append(blob, byte(len(descr)), byte(len(descr)>>8))
	blob = append(blob, descr...)
	blob = append(blob, 0, 0, 128, 63, 0, 0, 128, 63) // two 1.0 floats
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	_, err := LoadVolume(path)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}
