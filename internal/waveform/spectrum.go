package waveform

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

// PowerSpectrum returns the magnitude of each frequency bin of the series
// values up to Nyquist, along with the frequency step per bin. The input is
// zero-padded to a power of two before transforming.
func PowerSpectrum(s *emf.Series) ([]float64, float64, error) {
	if s.Len() < 2 {
		return nil, 0, emf.ErrEmptySeries
	}

	n := nextPow2(s.Len())
	buf := make([]float64, n)
	copy(buf, s.Values)

	spectrum := fft.FFTReal(buf)
	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	df := 1 / (float64(n) * s.Dt())
	return mags, df, nil
}

// DominantFrequency returns the non-DC bin with the largest magnitude,
// in cycles per time unit.
func DominantFrequency(s *emf.Series) (float64, error) {
	mags, df, err := PowerSpectrum(s)
	if err != nil {
		return 0, err
	}

	best, bestMag := 1, 0.0
	for i := 1; i < len(mags); i++ {
		if mags[i] > bestMag {
			best, bestMag = i, mags[i]
		}
	}
	return float64(best) * df, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
