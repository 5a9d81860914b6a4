package artifacts

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fieldfit-ml/fieldfit/internal/metrics"
)

// WriteImagePreview renders a flattened [H, W, C] reconstruction as
// <name>.png. Values outside [0, 1] are clamped. Supports 1 and 3
// channels.
func (r *Run) WriteImagePreview(name string, data []float32, h, w, c int) error {
	if len(data) != h*w*c {
		return fmt.Errorf("artifacts: preview wants %d values for %dx%dx%d, got %d", h*w*c, h, w, c, len(data))
	}
	if c != 1 && c != 3 {
		return fmt.Errorf("artifacts: preview supports 1 or 3 channels, got %d", c)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := (y*w + x) * c
			var col color.RGBA
			if c == 1 {
				v := clampByte(data[base])
				col = color.RGBA{v, v, v, 255}
			} else {
				col = color.RGBA{
					clampByte(data[base]),
					clampByte(data[base+1]),
					clampByte(data[base+2]),
					255,
				}
			}
			img.SetRGBA(x, y, col)
		}
	}

	path := r.Path(name + ".png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("artifacts: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("artifacts: encode %s: %w", path, err)
	}
	return f.Close()
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// WriteCurve plots the per-epoch loss and tracked metric as <name>.png.
func (r *Run) WriteCurve(name string, history *metrics.History) error {
	p := plot.New()
	p.Title.Text = "training"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "value"

	lossPts := make(plotter.XYs, history.Len())
	metricPts := make(plotter.XYs, history.Len())
	for i := 0; i < history.Len(); i++ {
		lossPts[i].X = float64(i)
		lossPts[i].Y = history.Loss[i]
		metricPts[i].X = float64(i)
		metricPts[i].Y = history.Metric[i]
	}

	lossLine, err := plotter.NewLine(lossPts)
	if err != nil {
		return fmt.Errorf("artifacts: loss line: %w", err)
	}
	metricLine, err := plotter.NewLine(metricPts)
	if err != nil {
		return fmt.Errorf("artifacts: metric line: %w", err)
	}
	metricLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(lossLine, metricLine)
	p.Legend.Add("loss", lossLine)
	p.Legend.Add("metric", metricLine)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, r.Path(name+".png")); err != nil {
		return fmt.Errorf("artifacts: save curve: %w", err)
	}
	return nil
}
