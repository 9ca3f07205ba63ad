package analysis

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/dynamics"
)

// Temperatures extracts the mean-temperature series from a run history.
func Temperatures(history []dynamics.FrameStats) []float64 {
	out := make([]float64, len(history))
	for i := range history {
		out[i] = history[i].MeanTemperature
	}
	return out
}

// Luminosities extracts the mean-luminosity series from a run history.
func Luminosities(history []dynamics.FrameStats) []float64 {
	out := make([]float64, len(history))
	for i := range history {
		out[i] = history[i].MeanLuminosity
	}
	return out
}

// DominantPeriod estimates the strongest oscillation period of a series,
// in frames. The series is mean-centered and truncated to the largest
// power of two. Returns 0 when no oscillation stands out.
func DominantPeriod(series []float64) float64 {
	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	if n < 4 {
		return 0
	}

	mean := 0.0
	for _, v := range series[:n] {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i := 0; i < n; i++ {
		centered[i] = series[i] - mean
	}

	ps := PowerSpectrum(centered)
	best, bestK := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			best = ps[k]
			bestK = k
		}
	}
	if bestK == 0 {
		return 0
	}
	return float64(n) / float64(bestK)
}

// Drift is the relative change between the first and last value of a
// series; 0 for series shorter than 2 or starting at 0.
func Drift(series []float64) float64 {
	if len(series) < 2 || series[0] == 0 {
		return 0
	}
	return math.Abs(series[len(series)-1]-series[0]) / math.Abs(series[0])
}
