package emf

import "math"

// Polarity is the orientation of a magnet's field through the plane of
// motion. The sign weights the magnet's flux contribution.
type Polarity int

const (
	South Polarity = -1
	North Polarity = 1
)

func (p Polarity) Sign() float64 {
	if p < 0 {
		return -1
	}
	return 1
}

func (p Polarity) Opposite() Polarity {
	return -p
}

func (p Polarity) String() string {
	if p < 0 {
		return "S"
	}
	return "N"
}

// Alternating returns the polarity of the i-th magnet in an alternating
// arrangement. Even indices are North.
func Alternating(i int) Polarity {
	if i%2 == 0 {
		return North
	}
	return South
}

// Magnet is a disc magnet. Position is never stored here; it is a function
// of time supplied by the motion package.
type Magnet struct {
	Radius   float64
	Polarity Polarity
}

// Area returns the face area of the magnet disc.
func (m Magnet) Area() float64 {
	return math.Pi * m.Radius * m.Radius
}

// Series is a sampled trace of one quantity over time. Times and Values
// grow in lockstep and share an index.
type Series struct {
	Name   string
	Times  []float64
	Values []float64
}

func NewSeries(name string, capacity int) *Series {
	return &Series{
		Name:   name,
		Times:  make([]float64, 0, capacity),
		Values: make([]float64, 0, capacity),
	}
}

func (s *Series) Len() int {
	return len(s.Values)
}

func (s *Series) Append(t, v float64) {
	s.Times = append(s.Times, t)
	s.Values = append(s.Values, v)
}

func (s *Series) Clone() *Series {
	c := &Series{
		Name:   s.Name,
		Times:  make([]float64, len(s.Times)),
		Values: make([]float64, len(s.Values)),
	}
	copy(c.Times, s.Times)
	copy(c.Values, s.Values)
	return c
}

func (s *Series) IsValid() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dt returns the sample spacing, assuming a uniform grid. Zero if the
// series has fewer than two samples.
func (s *Series) Dt() float64 {
	if len(s.Times) < 2 {
		return 0
	}
	return s.Times[1] - s.Times[0]
}
