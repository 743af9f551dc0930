package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"badtracing/engine"
	"badtracing/model"
)

const (
	hudFontSize = 12
	hudPadding  = 6
)

var (
	hudText   = image.NewUniform(color.RGBA{255, 255, 255, 255})
	hudShadow = image.NewUniform(color.RGBA{0, 0, 0, 255})
)

// HUD draws a few lines of status text into the top-left corner of the
// surface. Text is rasterised into an RGBA overlay and blended per pixel.
type HUD struct {
	face    font.Face
	overlay *image.RGBA
	line    int
}

func NewHUD(width, height int) (*HUD, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse hud font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    hudFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &HUD{
		face:    face,
		overlay: image.NewRGBA(image.Rect(0, 0, width, height)),
		line:    face.Metrics().Height.Ceil(),
	}, nil
}

// StatusLines formats the pose of the controlled object and the frame rate.
func StatusLines(pos model.Position, angle, fps float64, target string) []string {
	return []string{
		fmt.Sprintf("pos %.2f, %.2f", pos.X, pos.Y),
		fmt.Sprintf("angle %.0f°", model.NormalizeAngle(angle)*180/math.Pi),
		fmt.Sprintf("fps %.0f", fps),
		fmt.Sprintf("control %s", target),
	}
}

// Draw blends lines onto surf.
func (h *HUD) Draw(surf *engine.Surface, lines []string) {
	area := image.Rect(0, 0, h.overlay.Bounds().Dx(), min(h.overlay.Bounds().Dy(), hudPadding*2+h.line*len(lines)))
	draw.Draw(h.overlay, area, image.Transparent, image.Point{}, draw.Src)

	ascent := h.face.Metrics().Ascent.Ceil()
	for i, s := range lines {
		x, y := hudPadding, hudPadding+ascent+i*h.line
		(&font.Drawer{Dst: h.overlay, Src: hudShadow, Face: h.face, Dot: fixed.P(x+1, y+1)}).DrawString(s)
		(&font.Drawer{Dst: h.overlay, Src: hudText, Face: h.face, Dot: fixed.P(x, y)}).DrawString(s)
	}

	for y := area.Min.Y; y < area.Max.Y && y < surf.Height(); y++ {
		for x := area.Min.X; x < area.Max.X && x < surf.Width(); x++ {
			src := h.overlay.RGBAAt(x, y)
			if src.A == 0 {
				continue
			}
			surf.Set(x, y, blend(surf.At(x, y), src))
		}
	}
}

// blend composites a premultiplied src over dst.
func blend(dst engine.Color, src color.RGBA) engine.Color {
	r, g, b := engine.UnpackRGB(dst)
	inv := 255 - uint32(src.A)
	mix := func(s uint8, d uint8) uint8 {
		return uint8(uint32(s) + uint32(d)*inv/255)
	}
	return engine.PackRGB(mix(src.R, r), mix(src.G, g), mix(src.B, b))
}
