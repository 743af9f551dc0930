package model

import "math"

// Moveable is anything with a pose that input or scripts can drive.
type Moveable interface {
	Position() Position
	Angle() float64
	SetPosition(x, y float64)
	SetAngle(theta float64)
	UpdatePosition(dx, dy float64)
	UpdateAngle(delta float64)
}

// MoveChecked moves m by (dx, dy) unless that would put it inside a wall.
// Blocked moves slide along whichever axis is still open, so walking into a
// wall at an angle follows the wall instead of stopping dead.
func MoveChecked(m Moveable, dx, dy float64, g *Grid) {
	pos := m.Position()
	nx, ny := pos.X+dx, pos.Y+dy

	col, row := cellOf(pos.X), cellOf(pos.Y)
	ncol, nrow := cellOf(nx), cellOf(ny)

	full := g.Walkable(nrow, ncol)
	yOnly := g.Walkable(nrow, col)
	xOnly := g.Walkable(row, ncol)

	switch {
	case full && (xOnly || yOnly):
		m.SetPosition(nx, ny)
	case xOnly && yOnly:
		// both axes open but the diagonal cell is a wall corner
		if math.Abs(dx) >= math.Abs(dy) {
			m.SetPosition(nx, pos.Y)
		} else {
			m.SetPosition(pos.X, ny)
		}
	case xOnly:
		m.SetPosition(nx, pos.Y)
	case yOnly:
		m.SetPosition(pos.X, ny)
	}
}

func cellOf(v float64) int {
	f := math.Floor(v)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}
