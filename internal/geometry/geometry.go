// Package geometry provides the closed-form overlap areas the flux kernels
// are built on: circular segments against vertical strips for linear motion,
// and the lens between two equal discs for orbital motion.
package geometry

import "math"

// Clamp limits x to [lo, hi]. Inverse-trig arguments pass through here so
// float drift at the domain edges never produces NaN.
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SegmentArea returns the area of a disc of radius r lying to the left of a
// vertical line at x, with x measured from the disc center. The result grows
// monotonically from 0 at x <= -r to the full disc area at x >= r.
func SegmentArea(r, x float64) float64 {
	if x <= -r {
		return 0
	}
	if x >= r {
		return math.Pi * r * r
	}
	d := math.Abs(x)
	cap := r*r*math.Acos(Clamp(d/r, -1, 1)) - d*math.Sqrt(r*r-d*d)
	if x > 0 {
		return math.Pi*r*r - cap
	}
	return cap
}

// StripOverlap returns the overlap area between a disc of radius r centered
// at cx and the vertical strip [left, right]. It is the difference of two
// segment areas taken in the disc's frame.
func StripOverlap(r, cx, left, right float64) float64 {
	return SegmentArea(r, right-cx) - SegmentArea(r, left-cx)
}

// LensOverlap returns the overlap area of two equal discs of radius r whose
// centers sit on a ring of radius pathRadius, separated by thetaDist radians.
// The center distance is the chord 2*pathRadius*sin(thetaDist/2).
func LensOverlap(pathRadius, thetaDist, r float64) float64 {
	d := 2 * pathRadius * math.Sin(thetaDist/2)
	if d >= 2*r {
		return 0
	}
	if d == 0 {
		return math.Pi * r * r
	}
	area := 2*r*r*math.Acos(Clamp(d/(2*r), -1, 1)) - 0.5*d*math.Sqrt(4*r*r-d*d)
	return math.Max(area, 0)
}

// AngularDistance returns the shortest angular separation between two
// angles, always in [0, pi].
func AngularDistance(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff > math.Pi {
		return 2*math.Pi - diff
	}
	return diff
}
