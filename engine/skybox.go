package engine

import (
	"errors"
	"math"

	"github.com/harbdog/raycaster-go/geom"

	"badtracing/model"
)

// Skybox is a cylindrical panorama wrapped once around the camera.
type Skybox struct {
	image *Bitmap
}

func NewSkybox(b *Bitmap) (*Skybox, error) {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return nil, errors.New("skybox needs a non-empty image")
	}
	return &Skybox{image: b}, nil
}

// Sample looks up the panorama by absolute ray angle and by verticalRatio,
// 0 at the top of the screen and 1 at the horizon.
func (s *Skybox) Sample(angle, verticalRatio float64) Color {
	w, h := s.image.Width, s.image.Height
	u := int(model.NormalizeAngle(angle)/model.Pi2*float64(w)) % w

	v := int((1 - geom.Clamp(verticalRatio, 0, 1)) * float64(h))
	v = int(math.Min(float64(v), float64(h-1)))

	c, _ := s.image.At(u, v)
	return c
}
