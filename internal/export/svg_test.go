package export

import (
	"strings"
	"testing"

	"github.com/EvanCarter/ElectroSimulations/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 5)

	svg := CanvasToSVG(c, 4)
	if !strings.Contains(svg, "<svg") {
		t.Fatal("missing svg element")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("dot count = %d, want 2", got)
	}
	if !strings.Contains(svg, `width="32"`) || !strings.Contains(svg, `height="32"`) {
		t.Errorf("unexpected dimensions in %q", svg[:120])
	}

	if CanvasToSVG(nil, 4) != "" {
		t.Error("nil canvas should render empty")
	}
}

func TestTracesSVG(t *testing.T) {
	times := []float64{0, 0.1, 0.2, 0.3}
	series := []Series{
		{Name: "a_voltage", Values: []float64{0, 1, 0, -1}},
		{Name: "b_voltage", Values: []float64{1, 0, -1, 0}},
	}

	svg := TracesSVG(times, series, 640, 320)
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("polyline count = %d, want 2", got)
	}
	if !strings.Contains(svg, ">a_voltage</text>") || !strings.Contains(svg, ">b_voltage</text>") {
		t.Error("legend labels missing")
	}
	if !strings.Contains(svg, "<line") {
		t.Error("zero line missing for a signed trace")
	}

	if TracesSVG(times[:1], series, 640, 320) != "" {
		t.Error("short time axis should render empty")
	}
	if TracesSVG(times, nil, 640, 320) != "" {
		t.Error("no series should render empty")
	}
}
