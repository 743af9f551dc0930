package game

import (
	"math"

	"badtracing/canvas"
	"badtracing/model"
)

// KeySource reports which logical keys are held.
type KeySource interface {
	IsKeyDown(k canvas.Key) bool
}

// Controller turns held keys into movement. It keeps no reference to what
// it moves; the target is handed in every tick.
type Controller struct {
	Speed     float64
	LookSense float64
}

// Apply moves target for one tick. All held direction keys are summed into
// one step no longer than Speed before the collision check, so pressing
// forward and strafe together is not faster than either alone.
func (c Controller) Apply(keys KeySource, target model.Moveable, g *model.Grid) {
	forward := keys.IsKeyDown(canvas.KeyForward)
	backward := keys.IsKeyDown(canvas.KeyBackward)
	strafeLeft := keys.IsKeyDown(canvas.KeyStrafeLeft)
	strafeRight := keys.IsKeyDown(canvas.KeyStrafeRight)

	sin, cos := math.Sincos(target.Angle())
	var nx, ny float64
	if forward {
		nx, ny = nx+cos, ny+sin
	}
	if backward {
		nx, ny = nx-cos, ny-sin
	}
	if strafeLeft {
		nx, ny = nx+sin, ny-cos
	}
	if strafeRight {
		nx, ny = nx-sin, ny+cos
	}

	if length := math.Hypot(nx, ny); length > 1e-9 {
		scale := c.Speed / math.Max(length, 1)
		model.MoveChecked(target, nx*scale, ny*scale, g)
	}

	// angles grow towards the right edge of the screen
	if keys.IsKeyDown(canvas.KeyTurnLeft) {
		target.UpdateAngle(-c.LookSense)
	}
	if keys.IsKeyDown(canvas.KeyTurnRight) {
		target.UpdateAngle(c.LookSense)
	}
}
