package model

import (
	"math"

	"github.com/harbdog/raycaster-go/geom"
)

const (
	Pi2    = 2 * math.Pi
	HalfPi = math.Pi / 2
)

// Position is a continuous world coordinate, one grid cell being 1.0 units wide.
type Position = geom.Vector2

// NormalizeAngle wraps theta into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(theta, Pi2)
	if a < 0 {
		a += Pi2
	}
	// -tiny + 2π can round up to exactly 2π
	if a >= Pi2 {
		a = 0
	}
	return a
}

// SignedAngle wraps theta into (-π, π].
func SignedAngle(theta float64) float64 {
	a := NormalizeAngle(theta)
	if a > math.Pi {
		a -= Pi2
	}
	return a
}

// Distance returns the euclidean distance between two positions.
func Distance(a, b Position) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
