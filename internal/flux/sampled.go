package flux

import (
	"math/rand"
)

// DefaultCloudPoints is the point-cloud size used when none is given.
const DefaultCloudPoints = 5000

// Cloud is a fixed set of points rejection-sampled uniformly inside a disc,
// stored as offsets from the magnet center. The cloud never changes after
// construction, so repeated evaluation is deterministic.
type Cloud struct {
	X []float64
	Y []float64
}

// NewCloud draws n uniform points inside a disc of the given radius.
func NewCloud(rng *rand.Rand, radius float64, n int) Cloud {
	c := Cloud{
		X: make([]float64, 0, n),
		Y: make([]float64, 0, n),
	}
	for len(c.X) < n {
		x := (rng.Float64()*2 - 1) * radius
		y := (rng.Float64()*2 - 1) * radius
		if x*x+y*y <= radius*radius {
			c.X = append(c.X, x)
			c.Y = append(c.Y, y)
		}
	}
	return c
}

// Sampled is the Monte-Carlo track kernel: coverage is the fraction of each
// magnet's cloud lying inside the window, signed by polarity. The shape
// tracks [Strip]; the scale is a fraction of the cloud, not an area.
type Sampled struct {
	Window  Window
	Bottom  float64
	Top     float64
	Magnets []TrackMagnet

	clouds []Cloud
}

// NewSampled builds one cloud per magnet from the seeded source. The
// vertical extent defaults to covering the largest magnet, which makes the
// estimate a function of track position only.
func NewSampled(w Window, magnets []TrackMagnet, points int, seed int64) *Sampled {
	if points <= 0 {
		points = DefaultCloudPoints
	}
	rng := rand.New(rand.NewSource(seed))

	maxR := 0.0
	for _, tm := range magnets {
		if tm.Magnet.Radius > maxR {
			maxR = tm.Magnet.Radius
		}
	}

	s := &Sampled{
		Window:  w,
		Bottom:  -maxR,
		Top:     maxR,
		Magnets: magnets,
		clouds:  make([]Cloud, len(magnets)),
	}
	for i, tm := range magnets {
		s.clouds[i] = NewCloud(rng, tm.Magnet.Radius, points)
	}
	return s
}

func (s *Sampled) Flux(t float64) float64 {
	total := 0.0
	for i, tm := range s.Magnets {
		cx := tm.Path.Position(t)
		cloud := s.clouds[i]

		inside := 0
		for k := range cloud.X {
			x := cx + cloud.X[k]
			y := cloud.Y[k]
			if x >= s.Window.Left && x <= s.Window.Right && y >= s.Bottom && y <= s.Top {
				inside++
			}
		}
		frac := float64(inside) / float64(len(cloud.X))
		total += tm.Magnet.Polarity.Sign() * frac
	}
	return total
}
