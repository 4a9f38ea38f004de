// Package sweep runs a rig across a parameter grid and collects the
// metrics of every run.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Point is one grid cell: its parameter values plus the metrics the run
// produced, or the error that stopped it. A failed point never fails the
// sweep.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

// EvalFunc runs one parameter combination and reports its metrics.
type EvalFunc func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Grid sweeps the cartesian product of its axes. Workers caps how many
// evaluations run at once; zero or less runs them all in parallel.
type Grid struct {
	Axes    []Axis
	Workers int
}

// Points materializes the product in axis-major order: the first axis
// varies slowest.
func (g *Grid) Points() []Point {
	points := make([]Point, 0)
	g.enumerate(0, make(map[string]float64), &points)
	return points
}

func (g *Grid) enumerate(depth int, current map[string]float64, out *[]Point) {
	if depth == len(g.Axes) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*out = append(*out, Point{Params: params})
		return
	}

	axis := g.Axes[depth]
	for _, v := range axis.Values {
		current[axis.Name] = v
		g.enumerate(depth+1, current, out)
	}
}

// Run evaluates every point and returns them in enumeration order. A
// canceled context surfaces as the sweep error once the in-flight points
// drain; individual run failures stay on their Point.
func (g *Grid) Run(ctx context.Context, eval EvalFunc) ([]Point, error) {
	points := g.Points()
	if len(points) == 0 {
		return points, nil
	}

	workers := g.Workers
	if workers <= 0 || workers > len(points) {
		workers = len(points)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				points[idx].Metrics, points[idx].Err = eval(ctx, points[idx].Params)
			}
		}()
	}

	for i := range points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return points, fmt.Errorf("%w: %v", emf.ErrCanceled, ctx.Err())
	}
	return points, nil
}

// Best picks the evaluated point with the highest value of the named
// metric. ok is false when no point carries it.
func Best(points []Point, metric string) (best Point, ok bool) {
	top := math.Inf(-1)
	idx := -1
	for i := range points {
		if points[i].Err != nil {
			continue
		}
		v, have := points[i].Metrics[metric]
		if !have {
			continue
		}
		if v > top {
			top = v
			idx = i
		}
	}
	if idx < 0 {
		return Point{}, false
	}
	return points[idx], true
}
