// Command occupancy fits a coordinate network to a 3D occupancy volume
// and extracts the learned isosurface as a triangle mesh.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	osignal "os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldfit-ml/fieldfit/internal/artifacts"
	"github.com/fieldfit-ml/fieldfit/internal/autodiff"
	"github.com/fieldfit-ml/fieldfit/internal/backend/cpu"
	"github.com/fieldfit-ml/fieldfit/internal/config"
	"github.com/fieldfit-ml/fieldfit/internal/inr"
	"github.com/fieldfit-ml/fieldfit/internal/mesh"
	"github.com/fieldfit-ml/fieldfit/internal/serialization"
	"github.com/fieldfit-ml/fieldfit/internal/signal"
	"github.com/fieldfit-ml/fieldfit/internal/track"
	"github.com/fieldfit-ml/fieldfit/internal/trainer"
)

func main() {
	nonlin := flag.String("n", "wire", "nonlinearity family (wire, siren, gauss, mfn, relu, posenc)")
	input := flag.String("i", "data/thai_statue.npy", "input occupancy volume (.npy, rank 3)")
	epochs := flag.Int("epochs", 200, "training epoch budget")
	lr := flag.Float64("lr", 5e-3, "learning rate")
	batch := flag.Int("batch", 200000, "samples per minibatch")
	hidden := flag.Int("hidden", 256, "hidden units per layer")
	layers := flag.Int("layers", 2, "hidden layer count")
	omega := flag.Float64("omega", 10, "sinusoid frequency omega0")
	sigma := flag.Float64("sigma", 40, "Gaussian width sigma0")
	scale := flag.Float64("scale", 1, "volume rescale factor, nearest-neighbour")
	threshold := flag.Float64("threshold", 0.5, "occupancy and marching cubes threshold")
	seed := flag.Int64("seed", 1, "random seed")
	logEvery := flag.Int("logevery", 10, "epochs between progress lines")
	flag.Parse()

	family, err := inr.ParseFamily(*nonlin)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	paths := config.PathsFromEnv()

	vol, err := signal.LoadVolume(*input)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	if err := vol.Zoom(*scale); err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	// Occupancy volumes waste most of the grid on empty space.
	if err := vol.CropOccupied(0.99); err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	h, w, t := vol.Shape[0], vol.Shape[1], vol.Shape[2]
	n := h * w * t
	log.Printf("input %s cropped to %dx%dx%d", *input, h, w, t)

	batchSize := *batch
	if batchSize > n {
		batchSize = n
	}

	backend := autodiff.New(cpu.New())
	model, err := inr.New(inr.Config{
		Family:         family,
		InFeatures:     3,
		OutFeatures:    1,
		HiddenFeatures: *hidden,
		HiddenLayers:   *layers,
		Omega:          float32(*omega),
		Scale:          float32(*sigma),
		Sidelength:     max(h, max(w, t)),
	}, backend)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	log.Printf("family=%s params=%d", family, model.NumParameters())

	coords, err := signal.BuildGrid(h, w, t)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}

	inputName := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	runName := config.RunName(string(family), inputName, "occupancy")
	tracker := track.New(paths.TrackURL, runName)
	defer tracker.Close()

	tr, err := trainer.New(trainer.Config[*cpu.Backend]{
		Task:      trainer.TaskOccupancy,
		Model:     model,
		Backend:   backend,
		Coords:    coords,
		Target:    vol,
		Observed:  vol,
		Epochs:    *epochs,
		BatchSize: batchSize,
		LR:        float32(*lr),
		LRDecay:   0.2,
		Threshold: float32(*threshold),
		Seed:      *seed,
		LogEvery:  *logEvery,
		Tracker:   tracker,
	})
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}

	ctx, stop := osignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := tr.Run(ctx)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	log.Printf("best epoch=%d iou=%.4f", result.BestEpoch, result.BestMetric)

	run, err := artifacts.NewRun(paths.ResultsDir, "occupancy", runName)
	if err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	fail := func(err error) {
		if err != nil {
			log.Fatalf("occupancy: %v", err)
		}
	}
	fail(run.WriteManifest(artifacts.Manifest{
		Task:           "occupancy",
		Run:            runName,
		Family:         string(family),
		Input:          *input,
		SignalShape:    vol.Shape,
		Epochs:         *epochs,
		BatchSize:      batchSize,
		LearningRate:   *lr,
		NumParams:      result.NumParams,
		BestEpoch:      result.BestEpoch,
		BestMetric:     result.BestMetric,
		ElapsedSeconds: result.History.Elapsed[result.History.Len()-1],
		CreatedAt:      time.Now().UTC(),
	}))
	fail(run.WriteFloat64Array("loss", result.History.Loss))
	fail(run.WriteFloat64Array("iou", result.History.Metric))
	fail(run.WriteFloat64Array("time", result.History.Elapsed))
	fail(run.WriteArray("rec", result.Best))
	fail(run.WriteCurve("curve", result.History))

	surface, err := mesh.Extract(result.Best, [3]int{h, w, t}, float32(*threshold))
	if err != nil {
		log.Printf("occupancy: mesh skipped: %v", err)
	} else {
		fail(run.WriteMesh("mesh", surface))
		log.Printf("mesh: %d vertices, %d triangles", len(surface.Vertices), len(surface.Triangles))
	}

	modelDir := filepath.Join(paths.ModelsDir, "occupancy")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	checkpoint := filepath.Join(modelDir, runName+".ffck")
	if err := serialization.Save(checkpoint, string(family), model.StateDict(), map[string]string{
		"task":  "occupancy",
		"input": *input,
	}); err != nil {
		log.Fatalf("occupancy: %v", err)
	}
	log.Printf("artifacts in %s, checkpoint %s", run.Dir(), checkpoint)
}
