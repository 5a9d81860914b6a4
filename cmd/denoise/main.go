// Command denoise fits a coordinate network to a noisy measurement of an
// image and reports how well the reconstruction recovers the clean signal.
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
	"github.com/fieldfit-ml/fieldfit/internal/metrics"
	"github.com/fieldfit-ml/fieldfit/internal/serialization"
	"github.com/fieldfit-ml/fieldfit/internal/signal"
	"github.com/fieldfit-ml/fieldfit/internal/track"
	"github.com/fieldfit-ml/fieldfit/internal/trainer"
)

func main() {
	nonlin := flag.String("n", "wire", "nonlinearity family (wire, siren, gauss, mfn, relu, posenc)")
	input := flag.String("i", "data/parrot.png", "input image path")
	epochs := flag.Int("epochs", 2000, "training epoch budget")
	lr := flag.Float64("lr", 5e-3, "base learning rate")
	batch := flag.Int("batch", 256*256, "samples per minibatch")
	hidden := flag.Int("hidden", 256, "hidden units per layer")
	layers := flag.Int("layers", 2, "hidden layer count")
	omega := flag.Float64("omega", 5, "sinusoid frequency omega0")
	sigma := flag.Float64("sigma", 5, "Gaussian width sigma0")
	tau := flag.Float64("tau", 3e1, "peak expected photon count")
	snr := flag.Float64("snr", 2, "readout noise level in dB")
	seed := flag.Int64("seed", 1, "random seed")
	gray := flag.Bool("gray", false, "collapse RGB input to luminance")
	logEvery := flag.Int("logevery", 100, "epochs between progress lines")
	flag.Parse()

	family, err := inr.ParseFamily(*nonlin)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	paths := config.PathsFromEnv()

	im, err := signal.LoadImage(*input)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	if *gray {
		if err := im.Gray(); err != nil {
			log.Fatalf("denoise: %v", err)
		}
	}
	h, w, c := im.Shape[0], im.Shape[1], im.Shape[2]

	noisy, err := signal.Measure(im, *snr, *tau, uint64(*seed))
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	log.Printf("input %s shape=%dx%dx%d input_psnr=%.2fdB", *input, h, w, c,
		metrics.PSNR(im.Data, noisy.Data))

	// Positional encoding resolves its frequency count from the signal
	// extent; heavy noise calls for a reduced band.
	sidelength := max(h, w)
	if family == inr.PosEnc && *tau < 100 {
		sidelength /= 3
	}

	backend := autodiff.New(cpu.New())
	model, err := inr.New(inr.Config{
		Family:         family,
		InFeatures:     2,
		OutFeatures:    c,
		HiddenFeatures: *hidden,
		HiddenLayers:   *layers,
		Omega:          float32(*omega),
		Scale:          float32(*sigma),
		Sidelength:     sidelength,
	}, backend)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	log.Printf("family=%s params=%d", family, model.NumParameters())

	coords, err := signal.BuildGrid(h, w)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}

	// Scale the rate down when a minibatch covers only part of the image.
	scaledLR := *lr
	if ratio := float64(*batch) / float64(h*w); ratio < 1 {
		scaledLR *= ratio
	}

	inputName := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	runName := config.RunName(string(family), inputName, "image_denoise")
	tracker := track.New(paths.TrackURL, runName)
	defer tracker.Close()

	tr, err := trainer.New(trainer.Config[*cpu.Backend]{
		Task:      trainer.TaskDenoise,
		Model:     model,
		Backend:   backend,
		Coords:    coords,
		Target:    im,
		Observed:  noisy,
		Epochs:    *epochs,
		BatchSize: *batch,
		LR:        float32(scaledLR),
		LRDecay:   0.1,
		Seed:      *seed,
		LogEvery:  *logEvery,
		Tracker:   tracker,
	})
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}

	ctx, stop := osignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := tr.Run(ctx)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	log.Printf("best epoch=%d psnr_noisy=%.2fdB psnr_gt=%.2fdB",
		result.BestEpoch, result.BestMetric, result.GroundTruthPSNR)

	run, err := artifacts.NewRun(paths.ResultsDir, "denoising", runName)
	if err != nil {
		log.Fatalf("denoise: %v", err)
	}
	manifest := artifacts.Manifest{
		Task:            "denoising",
		Run:             runName,
		Family:          string(family),
		Input:           *input,
		SignalShape:     im.Shape,
		Epochs:          *epochs,
		BatchSize:       *batch,
		LearningRate:    scaledLR,
		NumParams:       result.NumParams,
		BestEpoch:       result.BestEpoch,
		BestMetric:      result.BestMetric,
		GroundTruthPSNR: result.GroundTruthPSNR,
		ElapsedSeconds:  result.History.Elapsed[result.History.Len()-1],
		CreatedAt:       time.Now().UTC(),
	}
	saveArtifacts(run, manifest, result, im, noisy, h, w, c)

	modelDir := filepath.Join(paths.ModelsDir, "denoising")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		log.Fatalf("denoise: %v", err)
	}
	checkpoint := filepath.Join(modelDir, runName+".ffck")
	if err := serialization.Save(checkpoint, string(family), model.StateDict(), map[string]string{
		"task":  "denoising",
		"input": *input,
	}); err != nil {
		log.Fatalf("denoise: %v", err)
	}
	log.Printf("artifacts in %s, checkpoint %s", run.Dir(), checkpoint)
}

func saveArtifacts(run *artifacts.Run, manifest artifacts.Manifest, result *trainer.Result, im, noisy *signal.Signal, h, w, c int) {
	fail := func(err error) {
		if err != nil {
			log.Fatalf("denoise: %v", err)
		}
	}
	fail(run.WriteManifest(manifest))
	fail(run.WriteFloat64Array("loss", result.History.Loss))
	fail(run.WriteFloat64Array("metric", result.History.Metric))
	fail(run.WriteFloat64Array("time", result.History.Elapsed))
	fail(run.WriteArray("rec", result.Best))
	fail(run.WriteArray("gt", im.Data))
	fail(run.WriteArray("noisy", noisy.Data))
	fail(run.WriteImagePreview("preview", result.Best, h, w, c))
	fail(run.WriteCurve("curve", result.History))
}
