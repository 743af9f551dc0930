package engine

import "image/color"

// Color is a packed 0x00RRGGBB colour word.
type Color uint32

// PackRGB packs 8-bit channels into a Color.
func PackRGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// UnpackRGB splits c into its 8-bit channels.
func UnpackRGB(c Color) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// DecreaseBrightness subtracts amount from every channel, saturating at 0.
func DecreaseBrightness(c Color, amount uint32) Color {
	r, g, b := UnpackRGB(c)
	return PackRGB(subChannel(r, amount), subChannel(g, amount), subChannel(b, amount))
}

// IncreaseBrightness adds amount to every channel, saturating at 255.
func IncreaseBrightness(c Color, amount uint32) Color {
	r, g, b := UnpackRGB(c)
	return PackRGB(addChannel(r, amount), addChannel(g, amount), addChannel(b, amount))
}

func subChannel(v uint8, amount uint32) uint8 {
	if amount >= uint32(v) {
		return 0
	}
	return v - uint8(amount)
}

func addChannel(v uint8, amount uint32) uint8 {
	if amount >= 255-uint32(v) {
		return 255
	}
	return v + uint8(amount)
}

// RGBA converts c to an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	r, g, b := UnpackRGB(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FromColor packs any image/color value, reporting whether it is at least
// half opaque.
func FromColor(c color.Color) (Color, bool) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return 0, false
	}
	// un-premultiply so translucent edges keep their hue
	if a < 0xffff {
		r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	}
	return PackRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)), a >= 0x8000
}
