// Package emf provides the core types shared by the induction simulation.
//
// The package defines the vocabulary the kernel packages build on:
//
//   - [Polarity]: magnet orientation, North or South, with a signed weight
//   - [Magnet]: a disc magnet of fixed radius and polarity
//   - [Series]: a sampled time series of flux or voltage values
//   - [RigError]: a configuration error wrapping one of the sentinel errors
//
// # Example
//
//	m := emf.Magnet{Radius: 0.5, Polarity: emf.North}
//	phi := emf.NewSeries("flux", 5000)
//	phi.Append(0.0, m.Polarity.Sign()*m.Area())
//
// # Thread Safety
//
// All types in this package are plain values. A Series is NOT safe for
// concurrent mutation; give each goroutine its own.
package emf
