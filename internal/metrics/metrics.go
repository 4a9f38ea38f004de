// Package metrics provides streaming reductions over driver output. A
// metric sees every step of a run as it happens and keeps only its
// accumulator, so long runs cost no extra memory.
package metrics

import "math"

// Metric reduces a stream of per-step samples to one number. The driver
// calls Observe once per step with the current time, flux and voltage of
// the coil under observation.
type Metric interface {
	Name() string
	Observe(t, flux, volts float64)
	Value() float64
	Reset()
}

// RMS accumulates the root mean square of the voltage samples.
type RMS struct {
	sumSq   float64
	samples int
}

func NewRMS() *RMS {
	return &RMS{}
}

func (r *RMS) Name() string { return "rms" }

func (r *RMS) Observe(t, flux, volts float64) {
	r.sumSq += volts * volts
	r.samples++
}

func (r *RMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RMS) Reset() {
	r.sumSq = 0
	r.samples = 0
}

// PeakCount counts interior voltage extrema beyond a threshold, the
// streaming form of the trace peak counter.
type PeakCount struct {
	Threshold float64

	prev2, prev float64
	seen        int
	pos, neg    int
}

func NewPeakCount(threshold float64) *PeakCount {
	return &PeakCount{Threshold: threshold}
}

func (p *PeakCount) Name() string { return "peaks" }

func (p *PeakCount) Observe(t, flux, volts float64) {
	if p.seen >= 2 {
		if p.prev > p.Threshold && p.prev2 < p.prev && volts <= p.prev {
			p.pos++
		}
		if p.prev < -p.Threshold && p.prev2 > p.prev && volts >= p.prev {
			p.neg++
		}
	}
	p.prev2, p.prev = p.prev, volts
	p.seen++
}

func (p *PeakCount) Value() float64 {
	return float64(p.pos + p.neg)
}

func (p *PeakCount) Positive() int { return p.pos }
func (p *PeakCount) Negative() int { return p.neg }

func (p *PeakCount) Reset() {
	p.prev2, p.prev = 0, 0
	p.seen = 0
	p.pos, p.neg = 0, 0
}

// FluxBalance tracks the mean signed flux. An alternating ring observed
// over whole revolutions balances to about zero.
type FluxBalance struct {
	sum     float64
	samples int
}

func NewFluxBalance() *FluxBalance {
	return &FluxBalance{}
}

func (f *FluxBalance) Name() string { return "flux_balance" }

func (f *FluxBalance) Observe(t, flux, volts float64) {
	f.sum += flux
	f.samples++
}

func (f *FluxBalance) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.sum / float64(f.samples)
}

func (f *FluxBalance) Reset() {
	f.sum = 0
	f.samples = 0
}
