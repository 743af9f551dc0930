package engine

import (
	"errors"
	"fmt"
	"math"

	"badtracing/model"
)

// -- camera

var ErrInvalidCamera = errors.New("invalid camera")

type FogMode int

const (
	FogNone FogMode = iota
	FogVisibleDistance
)

// Fog replaces everything farther than MaxDistance with a flat colour.
type Fog struct {
	Mode        FogMode
	MaxDistance float64
	Color       Color
}

func NoFog() Fog { return Fog{Mode: FogNone} }

func VisibleDistanceFog(maxDistance float64, c Color) Fog {
	return Fog{Mode: FogVisibleDistance, MaxDistance: maxDistance, Color: c}
}

// Occludes reports whether something at distance is hidden by the fog.
func (f Fog) Occludes(distance float64) bool {
	return f.Mode == FogVisibleDistance && distance > f.MaxDistance
}

type CameraOptions struct {
	Position      model.Position
	Angle         float64
	FocalDistance float64
	ViewportSize  float64
	RayFineness   float64
	Fog           Fog `copier:"-"`
}

func DefaultCameraOptions() CameraOptions {
	return CameraOptions{
		FocalDistance: 1,
		ViewportSize:  1,
		RayFineness:   100,
		Fog:           NoFog(),
	}
}

// Camera is the viewer: a pose plus the projection parameters used to turn
// screen columns into rays.
type Camera struct {
	pos           model.Position
	angle         float64
	focalDistance float64
	viewportSize  float64
	rayFineness   float64
	fog           Fog
}

func NewCamera(opts CameraOptions) (*Camera, error) {
	switch {
	case !(opts.FocalDistance > 0):
		return nil, fmt.Errorf("%w: focal distance %v", ErrInvalidCamera, opts.FocalDistance)
	case !(opts.ViewportSize > 0):
		return nil, fmt.Errorf("%w: viewport size %v", ErrInvalidCamera, opts.ViewportSize)
	case !(opts.RayFineness > 0):
		return nil, fmt.Errorf("%w: ray fineness %v", ErrInvalidCamera, opts.RayFineness)
	case opts.Fog.Mode == FogVisibleDistance && !(opts.Fog.MaxDistance > 0):
		return nil, fmt.Errorf("%w: fog distance %v", ErrInvalidCamera, opts.Fog.MaxDistance)
	}
	return &Camera{
		pos:           opts.Position,
		angle:         model.NormalizeAngle(opts.Angle),
		focalDistance: opts.FocalDistance,
		viewportSize:  opts.ViewportSize,
		rayFineness:   opts.RayFineness,
		fog:           opts.Fog,
	}, nil
}

func (c *Camera) Position() model.Position { return c.pos }
func (c *Camera) Angle() float64           { return c.angle }

func (c *Camera) SetPosition(x, y float64) {
	c.pos.X, c.pos.Y = x, y
}

func (c *Camera) UpdatePosition(dx, dy float64) {
	c.pos.X += dx
	c.pos.Y += dy
}

func (c *Camera) SetAngle(theta float64) {
	c.angle = model.NormalizeAngle(theta)
}

func (c *Camera) UpdateAngle(delta float64) {
	c.angle = model.NormalizeAngle(c.angle + delta)
}

func (c *Camera) FocalDistance() float64 { return c.focalDistance }
func (c *Camera) ViewportSize() float64  { return c.viewportSize }
func (c *Camera) RayFineness() float64   { return c.rayFineness }
func (c *Camera) Fog() Fog               { return c.fog }

func (c *Camera) SetFog(f Fog) { c.fog = f }

// RayAngle returns the absolute angle of the ray through screen column col
// together with its offset on the projection plane.
func (c *Camera) RayAngle(col, width int) (angle, screenX float64) {
	screenX = (float64(col)/float64(width) - 0.5) * c.viewportSize
	return c.angle + math.Atan(screenX/c.focalDistance), screenX
}

// Fisheye is the factor turning a ray distance into the corrected depth
// for something seen at screenX on the projection plane. Walls and sprites
// both go through it so their depths compare.
func (c *Camera) Fisheye(screenX float64) float64 {
	return math.Cos(screenX / c.focalDistance)
}

// HalfFOV is the angle between the view direction and either screen edge.
func (c *Camera) HalfFOV() float64 {
	return math.Atan(c.viewportSize / 2 / c.focalDistance)
}

// Project maps an angle relative to the view direction onto a screen
// column, the inverse of RayAngle. The result may lie off screen.
func (c *Camera) Project(offset float64, width int) float64 {
	return (c.focalDistance*math.Tan(offset)/c.viewportSize + 0.5) * float64(width)
}

var _ model.Moveable = (*Camera)(nil)
