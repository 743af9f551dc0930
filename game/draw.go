package game

import (
	"math"

	"badtracing/engine"
)

// Flat 2D primitives for overlays. Surface.Set already drops pixels that
// fall outside the frame.

func fillRect(surf *engine.Surface, x, y, width, height int, c engine.Color) {
	for dy := y; dy < y+height; dy++ {
		for dx := x; dx < x+width; dx++ {
			surf.Set(dx, dy, c)
		}
	}
}

func fillCircle(surf *engine.Surface, x, y, radius float64, c engine.Color) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				surf.Set(int(math.Round(x+dx)), int(math.Round(y+dy)), c)
			}
		}
	}
}

func strokeLine(surf *engine.Surface, x1, y1, x2, y2 float64, c engine.Color) {
	dx, dy := x2-x1, y2-y1
	distance := math.Hypot(dx, dy)
	if distance == 0 {
		surf.Set(int(x1), int(y1), c)
		return
	}
	dx /= distance
	dy /= distance
	for i := 0.0; i <= distance; i++ {
		surf.Set(int(x1+dx*i), int(y1+dy*i), c)
	}
}

// fillTriangle fills pixels whose centres lie inside the triangle.
func fillTriangle(surf *engine.Surface, x1, y1, x2, y2, x3, y3 float64, c engine.Color) {
	minX := int(math.Floor(math.Min(x1, math.Min(x2, x3))))
	maxX := int(math.Ceil(math.Max(x1, math.Max(x2, x3))))
	minY := int(math.Floor(math.Min(y1, math.Min(y2, y3))))
	maxY := int(math.Ceil(math.Max(y1, math.Max(y2, y3))))

	edge := func(ax, ay, bx, by, px, py float64) float64 {
		return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	}
	area := edge(x1, y1, x2, y2, x3, y3)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w1 := edge(x2, y2, x3, y3, px, py) / area
			w2 := edge(x3, y3, x1, y1, px, py) / area
			w3 := edge(x1, y1, x2, y2, px, py) / area
			if w1 >= 0 && w2 >= 0 && w3 >= 0 {
				surf.Set(x, y, c)
			}
		}
	}
}
