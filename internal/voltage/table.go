package voltage

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// DefaultTableSamples is the table resolution used when none is given.
// Anything from a few thousand up is smooth enough for differencing; the
// default favors accuracy since a table is built once per configuration.
const DefaultTableSamples = 50000

// Table memoizes one revolution of a periodic flux function on a dense
// uniform phase grid. Queries interpolate linearly between neighboring
// samples, with the grid treated as periodic. A Table is immutable after
// construction.
type Table struct {
	values []float64
}

// BuildTable samples fn at n evenly spaced phases over [0, 2pi) and, when
// sigma is positive, smooths the samples periodically.
func BuildTable(fn func(phase float64) float64, n int, sigma float64) *Table {
	if n <= 0 {
		n = DefaultTableSamples
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = fn(2 * math.Pi * float64(i) / float64(n))
	}
	if sigma > 0 {
		values = GaussianSmooth(values, sigma, Wrap)
	}
	return &Table{values: values}
}

func (tb *Table) Len() int {
	return len(tb.values)
}

// At returns the stored sample i without interpolation.
func (tb *Table) At(i int) float64 {
	return tb.values[i]
}

// Eval returns the flux at the given phase. The phase is wrapped into
// [0, 2pi), mapped onto the grid, and blended between the two neighboring
// samples; the sample after the last one is the first.
func (tb *Table) Eval(phase float64) float64 {
	n := len(tb.values)
	idx := motion.WrapAngle(phase) / (2 * math.Pi) * float64(n)
	lo := int(idx)
	if lo >= n {
		lo, idx = 0, 0
	}
	hi := (lo + 1) % n
	frac := idx - float64(lo)
	return tb.values[lo]*(1-frac) + tb.values[hi]*frac
}
