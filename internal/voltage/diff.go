// Package voltage turns flux histories into induced voltage. Two schemes
// are offered and both are used: a central difference on callable flux for
// linear scenes, and a backward difference on sampled series for rotary
// traces. The central form carries the physical minus sign; the backward
// form is the raw slope, and callers pick the sign convention at the call
// site.
package voltage

import (
	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

// CentralDiff evaluates -(f(t+dt) - f(t-dt)) / (2 dt).
func CentralDiff(f func(t float64) float64, t, dt float64) float64 {
	return -(f(t+dt) - f(t-dt)) / (2 * dt)
}

// Differentiate returns the backward-difference series (phi[i]-phi[i-1])/dt
// on phi's own sample grid. The first sample has no predecessor and is set
// to zero.
func Differentiate(phi *emf.Series) (*emf.Series, error) {
	if phi.Len() == 0 {
		return nil, emf.ErrEmptySeries
	}

	out := emf.NewSeries(phi.Name+"_rate", phi.Len())
	out.Append(phi.Times[0], 0)
	for i := 1; i < phi.Len(); i++ {
		dt := phi.Times[i] - phi.Times[i-1]
		out.Append(phi.Times[i], (phi.Values[i]-phi.Values[i-1])/dt)
	}
	return out, nil
}
