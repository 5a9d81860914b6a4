package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldfit-ml/fieldfit/internal/mesh"
	"github.com/fieldfit-ml/fieldfit/internal/metrics"
)

func TestNewRunCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	run, err := NewRun(root, "denoising", "wire_parrot_image_denoise__1")
	require.NoError(t, err)

	info, err := os.Stat(run.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(root, "denoising", "wire_parrot_image_denoise__1"), run.Dir())
}

func TestWriteManifest(t *testing.T) {
	run, err := NewRun(t.TempDir(), "occupancy", "run1")
	require.NoError(t, err)

	require.NoError(t, run.WriteManifest(Manifest{
		Task:       "occupancy",
		Run:        "run1",
		Family:     "wire",
		BestEpoch:  7,
		BestMetric: 0.93,
		CreatedAt:  time.Now().UTC(),
	}))

	blob, err := os.ReadFile(run.Path("manifest.json"))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(blob, &m))
	assert.Equal(t, "wire", m.Family)
	assert.Equal(t, 7, m.BestEpoch)
}

func TestWriteArrays(t *testing.T) {
	run, err := NewRun(t.TempDir(), "denoising", "run1")
	require.NoError(t, err)

	require.NoError(t, run.WriteArray("rec", []float32{0.1, 0.2, 0.3}))
	require.NoError(t, run.WriteFloat64Array("loss", []float64{1, 0.5}))

	assert.FileExists(t, run.Path("rec.npy"))
	assert.FileExists(t, run.Path("loss.npy"))
}

func TestWriteImagePreview(t *testing.T) {
	run, err := NewRun(t.TempDir(), "denoising", "run1")
	require.NoError(t, err)

	data := []float32{0, 0.5, 1, 2} // out-of-range value gets clamped
	require.NoError(t, run.WriteImagePreview("preview", data, 2, 2, 1))
	assert.FileExists(t, run.Path("preview.png"))
}

func TestWriteImagePreviewRejectsBadShape(t *testing.T) {
	run, err := NewRun(t.TempDir(), "denoising", "run1")
	require.NoError(t, err)

	assert.Error(t, run.WriteImagePreview("preview", []float32{1, 2}, 2, 2, 1))
	assert.Error(t, run.WriteImagePreview("preview", make([]float32, 8), 2, 2, 2))
}

func TestWriteCurve(t *testing.T) {
	run, err := NewRun(t.TempDir(), "denoising", "run1")
	require.NoError(t, err)

	h := metrics.NewHistory(3)
	h.Append(1, 20, time.Second)
	h.Append(0.5, 25, 2*time.Second)
	h.Append(0.25, 28, 3*time.Second)

	require.NoError(t, run.WriteCurve("curve", h))
	assert.FileExists(t, run.Path("curve.png"))
}

func TestWriteMesh(t *testing.T) {
	run, err := NewRun(t.TempDir(), "occupancy", "run1")
	require.NoError(t, err)

	m := &mesh.Mesh{
		Vertices:  []mesh.Vertex{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Triangles: []mesh.Triangle{{A: 0, B: 1, C: 2}},
	}
	require.NoError(t, run.WriteMesh("mesh", m))
	assert.FileExists(t, run.Path("mesh.ply"))
}
