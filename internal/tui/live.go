package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

const (
	width       = 70
	height      = 26
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is the plain-terminal spin view: a rune canvas redrawn in
// place, no alternate screen, no key handling. It throttles itself to the
// requested frame rate, so it can sit directly on the run callback.
type LiveRenderer struct {
	rig       *generator.RotaryRig
	coils     []generator.Coil
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(rig *generator.RotaryRig, coils []generator.Coil, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		rig:       rig,
		coils:     coils,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

// OnStep draws one frame if enough wall time has passed since the last.
func (r *LiveRenderer) OnStep(t float64, volts []float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawRotor(t)
	r.render(t, volts)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// drawRotor plots the disk outline, the magnets at their rotated positions
// and a marker per coil. Terminal cells are about twice as tall as wide, so
// the x scale doubles to keep the disk round.
func (r *LiveRenderer) drawRotor(t float64) {
	cx, cy := width/2, height/2
	margin := r.rig.DiskRadius * 1.15
	sy := float64(height/2-1) / margin
	sx := 2 * sy

	place := func(radius, angle float64) (int, int) {
		x := cx + int(radius*math.Cos(angle)*sx)
		y := cy - int(radius*math.Sin(angle)*sy)
		return x, y
	}

	for deg := 0; deg < 360; deg += 3 {
		a := float64(deg) * math.Pi / 180
		px, py := place(r.rig.DiskRadius, a)
		r.set(px, py, '·')
	}

	for _, rm := range r.rig.Ring() {
		mx, my := place(r.rig.PathRadius(), rm.Angle-r.rig.Omega*t)
		glyph := 'S'
		if rm.Magnet.Polarity == emf.North {
			glyph = 'N'
		}
		r.set(mx-1, my, '(')
		r.set(mx, my, glyph)
		r.set(mx+1, my, ')')
	}

	for _, coil := range r.coils {
		gx, gy := place(r.rig.PathRadius(), coil.AngleAt(t))
		r.set(gx, gy-1, '|')
		r.set(gx, gy+1, '|')
		r.set(gx-1, gy, '-')
		r.set(gx+1, gy, '-')
		r.set(gx, gy, '+')
	}
}

func (r *LiveRenderer) render(t float64, volts []float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  rotary rig  t=%.2fs\n", t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	line := "  "
	for i, v := range volts {
		if i >= len(r.coils) {
			break
		}
		line += fmt.Sprintf("%s=%+.3fV ", r.coils[i].Name, v)
	}
	b.WriteString(line + "\n")

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
