package viz

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

// RenderRotor draws the rig at time t onto a fresh canvas: the disk outline,
// every magnet at its rotated position (north solid, south hollow), and a
// cross marker for each coil.
func RenderRotor(rig *generator.RotaryRig, coils []generator.Coil, t float64, w, h int) *Canvas {
	c := NewCanvas(w, h)

	subW := w * 2
	subH := h * 4
	cx := subW / 2
	cy := subH / 2

	margin := rig.DiskRadius * 1.15
	scale := float64(minInt(subW, subH)) / (2 * margin)

	toScreen := func(radius, angle float64) (int, int) {
		x := cx + int(radius*math.Cos(angle)*scale)
		y := cy - int(radius*math.Sin(angle)*scale)
		return x, y
	}

	c.DrawCircle(cx, cy, int(rig.DiskRadius*scale))

	magnetR := int(rig.MagnetRadius() * scale)
	for _, rm := range rig.Ring() {
		angle := rm.Angle - rig.Omega*t
		mx, my := toScreen(rig.PathRadius(), angle)
		if rm.Magnet.Polarity == emf.North {
			c.FillCircle(mx, my, magnetR)
		} else {
			c.DrawCircle(mx, my, magnetR)
		}
	}

	arm := magnetR
	if arm < 2 {
		arm = 2
	}
	for _, coil := range coils {
		gx, gy := toScreen(rig.PathRadius(), coil.AngleAt(t))
		c.DrawLine(gx-arm, gy, gx+arm, gy)
		c.DrawLine(gx, gy-arm, gx, gy+arm)
	}

	return c
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
