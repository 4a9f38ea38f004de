package voltage

import "math"

// BoundaryMode controls how smoothing reads past the ends of a series.
type BoundaryMode int

const (
	// Reflect mirrors the series at each end. Used for one-shot traces.
	Reflect BoundaryMode = iota

	// Wrap treats the series as periodic. Used for full-revolution tables,
	// where the last sample is the first sample's neighbor.
	Wrap
)

// GaussianSmooth convolves values with a normalized Gaussian of the given
// width, in samples. The kernel extends four sigmas to each side. A sigma
// of zero or less returns an unfiltered copy.
//
// Exact-geometry flux traces pass through here before differentiation:
// their overlap curves have slope discontinuities where a magnet edge
// crosses the coil edge, and differencing those raw would spike.
func GaussianSmooth(values []float64, sigma float64, mode BoundaryMode) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if sigma <= 0 || len(values) == 0 {
		return out
	}

	radius := int(4*sigma + 0.5)
	if radius < 1 {
		return out
	}

	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-float64(k*k) / (2 * sigma * sigma))
		weights[k+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}

	n := len(values)
	for i := 0; i < n; i++ {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			acc += weights[k+radius] * values[sampleIndex(i+k, n, mode)]
		}
		out[i] = acc
	}
	return out
}

func sampleIndex(i, n int, mode BoundaryMode) int {
	if mode == Wrap {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - 1 - i
		}
	}
	return i
}
