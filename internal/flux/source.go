// Package flux computes the total magnetic flux through a coil as magnets
// move past it. Every kernel is a pure function of time exposed through the
// [Source] interface; magnet contributions are polarity-signed and summed
// independently, so overlapping magnets superpose and a net negative total
// is a valid result.
package flux

import (
	"fmt"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

// Source yields a coil's total flux at time t.
type Source interface {
	Flux(t float64) float64
}

// Kernel selects how magnet coverage is evaluated.
type Kernel string

const (
	// KernelExact uses the closed-form overlap integrals.
	KernelExact Kernel = "exact"

	// KernelSinusoid uses the raised-cosine approximation. Smooth by
	// construction, so its output needs no filtering before differentiation.
	KernelSinusoid Kernel = "sinusoid"

	// KernelDipole integrates a point-dipole field over a coil face lifted
	// off the rotor plane, for the off-axis pickup arrangement.
	KernelDipole Kernel = "dipole"

	// KernelSampled estimates coverage from a random point cloud. Same
	// curve shape as the exact kernel, different normalization.
	KernelSampled Kernel = "sampled"
)

// Kernels lists the selectable kernels in display order.
func Kernels() []Kernel {
	return []Kernel{KernelExact, KernelSinusoid, KernelDipole, KernelSampled}
}

// ParseKernel maps a user-supplied name onto a [Kernel].
func ParseKernel(name string) (Kernel, error) {
	for _, k := range Kernels() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", emf.ErrUnknownKernel, name)
}

// SourceFunc adapts a plain function to [Source].
type SourceFunc func(t float64) float64

func (f SourceFunc) Flux(t float64) float64 {
	return f(t)
}
