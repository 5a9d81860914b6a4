// Package metrics provides reconstruction quality measures for trained
// coordinate networks: peak signal-to-noise ratio for images and volumes,
// and intersection-over-union for binary occupancy fields.
package metrics

import "math"

// MaxPSNR is the saturation value reported when the estimate matches the
// reference exactly. Reported instead of +Inf so downstream JSON and
// history arrays stay finite.
const MaxPSNR = 200.0

// PSNR returns the peak signal-to-noise ratio in decibels between two
// signals on the [0, 1] dynamic range. Zero mean squared error saturates
// at MaxPSNR.
func PSNR(reference, estimate []float32) float64 {
	n := len(reference)
	if n == 0 || n != len(estimate) {
		return 0
	}
	var mse float64
	for i := range reference {
		d := float64(reference[i]) - float64(estimate[i])
		mse += d * d
	}
	mse /= float64(n)
	if mse == 0 {
		return MaxPSNR
	}
	psnr := -10 * math.Log10(mse)
	if psnr > MaxPSNR {
		return MaxPSNR
	}
	return psnr
}

// IoU returns the intersection-over-union of the supports of estimate and
// reference after thresholding both at the given level. An empty union
// yields 0.
func IoU(estimate, reference []float32, threshold float32) float64 {
	n := len(reference)
	if n == 0 || n != len(estimate) {
		return 0
	}
	var inter, union int
	for i := range reference {
		a := estimate[i] > threshold
		b := reference[i] > threshold
		if a && b {
			inter++
		}
		if a || b {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
