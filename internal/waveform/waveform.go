// Package waveform post-processes simulation output. Everything here
// consumes finished flux or voltage traces; nothing feeds back into the
// kernel. RMS, rectification and phase summing live at this layer so the
// driver stays a pure flux-to-voltage pipe.
package waveform

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

// RMS returns the root mean square of the values, 0 for an empty slice.
func RMS(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Rectify returns the absolute value of every sample.
func Rectify(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}

// RectifyMax returns the elementwise maximum of the rectified phases, the
// output of an ideal multi-phase rectifier. Phases must share a length.
func RectifyMax(phases ...[]float64) []float64 {
	if len(phases) == 0 {
		return nil
	}
	out := make([]float64, len(phases[0]))
	for i := range out {
		best := 0.0
		for _, p := range phases {
			if a := math.Abs(p[i]); a > best {
				best = a
			}
		}
		out[i] = best
	}
	return out
}

// Sum returns the elementwise sum across phases. Phases must share a
// length.
func Sum(phases ...[]float64) []float64 {
	if len(phases) == 0 {
		return nil
	}
	out := make([]float64, len(phases[0]))
	for i := range out {
		for _, p := range phases {
			out[i] += p[i]
		}
	}
	return out
}

// Peaks counts interior local extrema: maxima above threshold and minima
// below its negation. Flat-topped peaks count once.
func Peaks(values []float64, threshold float64) (pos, neg int) {
	for i := 1; i < len(values)-1; i++ {
		if values[i] > threshold && values[i-1] < values[i] && values[i+1] <= values[i] {
			pos++
		}
		if values[i] < -threshold && values[i-1] > values[i] && values[i+1] >= values[i] {
			neg++
		}
	}
	return pos, neg
}

// Integrate sums v[i] * dt[i] over the series, the right-rectangle rule.
// Paired with backward differencing this telescopes exactly, so the
// integral of a voltage trace recovers the net flux change.
func Integrate(s *emf.Series) float64 {
	total := 0.0
	for i := 1; i < s.Len(); i++ {
		total += s.Values[i] * (s.Times[i] - s.Times[i-1])
	}
	return total
}
