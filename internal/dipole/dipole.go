// Package dipole models magnets as point dipoles and integrates their field
// over a circular coil face. Units are proportional, not SI: field values are
// only meaningful relative to each other.
package dipole

import "math"

// Dipole is a point magnetic dipole.
type Dipole struct {
	Position Vec3
	Moment   Vec3
}

// FieldModel holds the evaluation parameters: the radius below which the
// field is cut to zero instead of diverging, and the polar-grid resolution
// used by [FieldModel.DiscFlux].
type FieldModel struct {
	SingularRadius float64
	Rings          int
	Sectors        int
}

func DefaultFieldModel() FieldModel {
	return FieldModel{
		SingularRadius: 0.1,
		Rings:          5,
		Sectors:        8,
	}
}

// Field returns the dipole field at point p:
//
//	B = (3(m.r̂)r̂ - m) / |r|³
//
// Points closer to the dipole than SingularRadius get the zero vector.
func (fm FieldModel) Field(d Dipole, p Vec3) Vec3 {
	r := p.Sub(d.Position)
	dist := r.Norm()
	if dist < fm.SingularRadius {
		return Vec3{}
	}
	rHat := r.Scale(1 / dist)
	term := rHat.Scale(3 * d.Moment.Dot(rHat))
	return term.Sub(d.Moment).Scale(1 / (dist * dist * dist))
}

// DiscFlux estimates the flux of d through a disc of the given center,
// normal and radius. The disc is sampled on a polar grid: the center plus
// Rings concentric rings at radius fractions spanning [0.2, 0.9], each with
// Sectors equally spaced points. The flux is the mean normal field across
// the samples times the disc area.
func (fm FieldModel) DiscFlux(d Dipole, center, normal Vec3, radius float64) float64 {
	n := normal.Unit()
	t1, t2 := tangentBasis(n)

	total := fm.Field(d, center).Dot(n)
	count := 1

	for i := 0; i < fm.Rings; i++ {
		frac := ringFraction(i, fm.Rings)
		for k := 0; k < fm.Sectors; k++ {
			angle := 2 * math.Pi * float64(k) / float64(fm.Sectors)
			offset := t1.Scale(math.Cos(angle)).Add(t2.Scale(math.Sin(angle)))
			p := center.Add(offset.Scale(radius * frac))
			total += fm.Field(d, p).Dot(n)
			count++
		}
	}

	avg := total / float64(count)
	return avg * math.Pi * radius * radius
}

// ringFraction spreads ring radii evenly over [0.2, 0.9].
func ringFraction(i, rings int) float64 {
	if rings <= 1 {
		return 0.2
	}
	return 0.2 + float64(i)*0.7/float64(rings-1)
}

// tangentBasis returns two orthonormal vectors spanning the plane
// perpendicular to the unit vector n.
func tangentBasis(n Vec3) (Vec3, Vec3) {
	a := Vec3{X: 1}
	if math.Abs(n.X) > 0.9 {
		a = Vec3{Y: 1}
	}
	t1 := n.Cross(a).Unit()
	t2 := n.Cross(t1)
	return t1, t2
}
