// Package motion maps simulation time to magnet and coil positions. All
// trajectories are pure functions of t; nothing here keeps state between
// calls.
package motion

import "math"

// WrapAngle maps any angle into [0, 2pi).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// SignedAngle maps any angle into [-pi, pi].
func SignedAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Linear is straight-line motion at constant speed.
type Linear struct {
	X0 float64
	V  float64
}

func (l Linear) Position(t float64) float64 {
	return l.X0 + l.V*t
}

// Rotary is constant-rate circular motion. Positive Omega spins clockwise,
// so the angle decreases with time.
type Rotary struct {
	Theta0 float64
	Omega  float64
}

func (r Rotary) Angle(t float64) float64 {
	return WrapAngle(r.Theta0 - r.Omega*t)
}

// Period returns the time of one revolution. Zero Omega gives +Inf.
func (r Rotary) Period() float64 {
	return 2 * math.Pi / r.Omega
}

// RingAngle returns the rest angle of magnet i out of n on a rotor ring,
// starting at twelve o'clock and stepping clockwise.
func RingAngle(i, n int) float64 {
	return math.Pi/2 - float64(i)*2*math.Pi/float64(n)
}

// Profile gives a coil's angular position over time.
type Profile func(t float64) float64

// Fixed holds the coil at one angle.
func Fixed(angle float64) Profile {
	return func(float64) float64 {
		return angle
	}
}

// SmoothStep eases the coil from one angle to another over [start, end]
// using the cubic 3a²-2a³, which has zero slope at both ends.
func SmoothStep(from, to, start, end float64) Profile {
	return func(t float64) float64 {
		if t <= start {
			return from
		}
		if t >= end {
			return to
		}
		a := (t - start) / (end - start)
		s := a * a * (3 - 2*a)
		return from + s*(to-from)
	}
}
