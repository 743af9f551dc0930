package engine

import (
	"math"
	"sort"

	"github.com/harbdog/raycaster-go"
	"github.com/harbdog/raycaster-go/geom"

	"badtracing/model"
)

// -- sprites

const (
	minSpriteScale = 0.05
	maxSpriteScale = 16
)

// Sprite is a camera-facing billboard standing at a point in the world.
// Texture is borrowed and must outlive the sprite.
type Sprite struct {
	pos       model.Position
	angle     float64
	Texture   Sampler
	Animation *Animation
	Anchor    raycaster.SpriteAnchor

	scale float64
}

func NewSprite(x, y float64, tex Sampler, scale float64) *Sprite {
	s := &Sprite{
		pos:     model.Position{X: x, Y: y},
		Texture: tex,
		Anchor:  raycaster.AnchorBottom,
	}
	s.SetScale(scale)
	return s
}

func (s *Sprite) Position() model.Position { return s.pos }
func (s *Sprite) Angle() float64           { return s.angle }

func (s *Sprite) SetPosition(x, y float64) {
	s.pos.X, s.pos.Y = x, y
}

func (s *Sprite) UpdatePosition(dx, dy float64) {
	s.pos.X += dx
	s.pos.Y += dy
}

func (s *Sprite) SetAngle(theta float64) {
	s.angle = model.NormalizeAngle(theta)
}

func (s *Sprite) UpdateAngle(delta float64) {
	s.angle = model.NormalizeAngle(s.angle + delta)
}

func (s *Sprite) Scale() float64 { return s.scale }

// SetScale sets the height multiplier. Non-positive values reset it to 1.
func (s *Sprite) SetScale(scale float64) {
	if !(scale > 0) {
		scale = 1
	}
	s.scale = geom.Clamp(scale, minSpriteScale, maxSpriteScale)
}

// Frame returns the texture to draw this tick.
func (s *Sprite) Frame() (Sampler, error) {
	if s.Animation != nil {
		return s.Animation.CurrentFrame()
	}
	if s.Texture == nil {
		return nil, ErrFrameUnavailable
	}
	return s.Texture, nil
}

var _ model.Moveable = (*Sprite)(nil)

// IsInSector reports whether angle lies between left and right going
// counter-clockwise. All three are in [0, 2π); a sector with left > right
// wraps through zero.
func IsInSector(angle, left, right float64) bool {
	if left <= right {
		return angle >= left && angle <= right
	}
	return angle >= left || angle <= right
}

// BearingTo is the absolute angle, in [0, 2π), from one point to another.
func BearingTo(from, to model.Position) float64 {
	return model.NormalizeAngle(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// SortSprites orders sprites farthest from `from` first, so drawing them in
// order paints nearer sprites last.
func SortSprites(sprites []*Sprite, from model.Position) {
	sort.SliceStable(sprites, func(i, j int) bool {
		return model.Distance(from, sprites[i].pos) > model.Distance(from, sprites[j].pos)
	})
}

// RenderSprites projects each sprite in the given order and composites it
// against the depth buffer. Sprites whose centre is outside the field of
// view, hidden by fog, or without a current frame are skipped.
func (r *Renderer) RenderSprites(cam *Camera, surf *Surface, depth DepthBuffer, sprites []*Sprite) {
	half := cam.HalfFOV()
	left := model.NormalizeAngle(cam.Angle() - half)
	right := model.NormalizeAngle(cam.Angle() + half)

	for _, s := range sprites {
		tex, err := s.Frame()
		if err != nil {
			continue
		}

		distance := model.Distance(cam.Position(), s.pos)
		if distance < minDistance || cam.Fog().Occludes(distance) {
			continue
		}

		bearing := BearingTo(cam.Position(), s.pos)
		if !IsInSector(bearing, left, right) {
			continue
		}

		offset := model.SignedAngle(bearing - cam.Angle())
		screenX := cam.FocalDistance() * math.Tan(offset)
		r.drawSprite(surf, depth, s, tex, cam.Project(offset, surf.Width()), distance, distance*cam.Fisheye(screenX))
	}
}

func (r *Renderer) drawSprite(surf *Surface, depth DepthBuffer, s *Sprite, tex Sampler, center, distance, corrected float64) {
	screenH := float64(surf.Height())
	base := screenH / math.Max(corrected, minDistance)
	h := base * s.scale

	var top float64
	switch s.Anchor {
	case raycaster.AnchorCenter:
		top = (screenH - h) / 2
	case raycaster.AnchorTop:
		top = (screenH - base) / 2
	default:
		top = (screenH+base)/2 - h
	}

	tw, th := tex.Size()
	w := h * float64(tw) / float64(th)
	leftEdge := center - w/2

	x0 := int(math.Max(math.Floor(leftEdge), 0))
	x1 := int(math.Min(math.Ceil(leftEdge+w), float64(surf.Width())))
	y0 := int(math.Max(math.Floor(top), 0))
	y1 := int(math.Min(math.Ceil(top+h), screenH))

	for x := x0; x < x1; x++ {
		if depth[x] < corrected {
			continue
		}
		u := (float64(x) + 0.5 - leftEdge) / w
		if u < 0 || u >= 1 {
			continue
		}

		column := surf.Column(x)
		drawn := false
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5 - top) / h
			if v < 0 || v >= 1 {
				continue
			}
			texel, opaque := tex.SampleUV(u, v)
			if !opaque {
				continue
			}
			column[y] = r.Shade(texel, distance)
			drawn = true
		}
		if drawn {
			depth.Claim(x, corrected)
		}
	}
}
