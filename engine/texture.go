package engine

import "fmt"

// Sampler is anything that can be looked up with normalised coordinates.
// The boolean result reports whether the texel is opaque.
type Sampler interface {
	SampleUV(u, v float64) (Color, bool)
	Size() (width, height int)
}

// Bitmap is a decoded image, stored row-major.
type Bitmap struct {
	Width  int
	Height int
	Pix    []Color
	Opaque []bool
}

func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
		Opaque: make([]bool, width*height),
	}
}

func (b *Bitmap) Set(x, y int, c Color, opaque bool) {
	i := y*b.Width + x
	b.Pix[i] = c
	b.Opaque[i] = opaque
}

func (b *Bitmap) At(x, y int) (Color, bool) {
	i := y*b.Width + x
	return b.Pix[i], b.Opaque[i]
}

// texel maps a normalised coordinate onto [0, n).
func texel(t float64, n int) int {
	i := int(t * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

type TextureKind int

const (
	TextureBitmap TextureKind = iota
	TextureSolid
)

func (k TextureKind) String() string {
	switch k {
	case TextureBitmap:
		return "bitmap"
	case TextureSolid:
		return "solid"
	}
	return fmt.Sprintf("TextureKind(%d)", int(k))
}

// Texture is either a decoded bitmap or a flat colour.
type Texture struct {
	kind   TextureKind
	bitmap *Bitmap
	color  Color
}

func NewBitmapTexture(b *Bitmap) (*Texture, error) {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("bitmap texture needs a non-empty image")
	}
	return &Texture{kind: TextureBitmap, bitmap: b}, nil
}

func SolidTexture(c Color) *Texture {
	return &Texture{kind: TextureSolid, color: c}
}

func (t *Texture) Kind() TextureKind { return t.kind }

func (t *Texture) Size() (int, int) {
	if t.kind == TextureSolid {
		return 1, 1
	}
	return t.bitmap.Width, t.bitmap.Height
}

func (t *Texture) SampleUV(u, v float64) (Color, bool) {
	switch t.kind {
	case TextureSolid:
		return t.color, true
	default:
		return t.bitmap.At(texel(u, t.bitmap.Width), texel(v, t.bitmap.Height))
	}
}
