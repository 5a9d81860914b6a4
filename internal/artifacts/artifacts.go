// Package artifacts persists everything a run produces: the manifest,
// history arrays, reconstruction buffers, preview images, and meshes, all
// under one directory per run.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sbinet/npyio"

	"github.com/fieldfit-ml/fieldfit/internal/mesh"
)

// Manifest summarizes a completed run for later inspection.
type Manifest struct {
	Task            string    `json:"task"`
	Run             string    `json:"run"`
	Family          string    `json:"family"`
	Input           string    `json:"input"`
	SignalShape     []int     `json:"signal_shape"`
	Epochs          int       `json:"epochs"`
	BatchSize       int       `json:"batch_size"`
	LearningRate    float64   `json:"learning_rate"`
	NumParams       int       `json:"num_params"`
	BestEpoch       int       `json:"best_epoch"`
	BestMetric      float64   `json:"best_metric"`
	GroundTruthPSNR float64   `json:"ground_truth_psnr,omitempty"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// Run is one run's artifact directory.
type Run struct {
	dir string
}

// NewRun creates <resultsDir>/<task>/<runName>/ and returns a handle.
func NewRun(resultsDir, task, runName string) (*Run, error) {
	dir := filepath.Join(resultsDir, task, runName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: create %s: %w", dir, err)
	}
	return &Run{dir: dir}, nil
}

// Dir returns the run directory.
func (r *Run) Dir() string { return r.dir }

// Path resolves a file name inside the run directory.
func (r *Run) Path(name string) string { return filepath.Join(r.dir, name) }

// WriteManifest writes manifest.json.
func (r *Run) WriteManifest(m Manifest) error {
	blob, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("artifacts: marshal manifest: %w", err)
	}
	if err := os.WriteFile(r.Path("manifest.json"), blob, 0o644); err != nil {
		return fmt.Errorf("artifacts: write manifest: %w", err)
	}
	return nil
}

// WriteArray saves a float32 array as <name>.npy.
func (r *Run) WriteArray(name string, values []float32) error {
	return r.writeNpy(name, values)
}

// WriteFloat64Array saves a float64 array as <name>.npy.
func (r *Run) WriteFloat64Array(name string, values []float64) error {
	return r.writeNpy(name, values)
}

func (r *Run) writeNpy(name string, values any) error {
	path := r.Path(name + ".npy")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifacts: create %s: %w", path, err)
	}
	if err := npyio.Write(f, values); err != nil {
		f.Close()
		return fmt.Errorf("artifacts: write %s: %w", path, err)
	}
	return f.Close()
}

// WriteMesh saves a triangle mesh as <name>.ply.
func (r *Run) WriteMesh(name string, m *mesh.Mesh) error {
	return m.SavePLY(r.Path(name + ".ply"))
}
