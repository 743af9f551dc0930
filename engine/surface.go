package engine

import "fmt"

// Surface is a width x height grid of packed colours stored column by
// column, since the raycaster writes whole columns at a time.
type Surface struct {
	width  int
	height int
	pix    []Color
}

func NewSurface(width, height int) *Surface {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid surface size %dx%d", width, height))
	}
	return &Surface{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Column returns the writable pixels of column x, top to bottom.
func (s *Surface) Column(x int) []Color {
	return s.pix[x*s.height : (x+1)*s.height]
}

// Set writes c at (x, y). Writes outside the surface are dropped.
func (s *Surface) Set(x, y int, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.pix[x*s.height+y] = c
}

func (s *Surface) At(x, y int) Color {
	return s.pix[x*s.height+y]
}

// Flush clears every pixel to background.
func (s *Surface) Flush(background Color) {
	for i := range s.pix {
		s.pix[i] = background
	}
}

// ToScreen writes the surface row by row into buf, which must hold at least
// width*height words.
func (s *Surface) ToScreen(buf []Color) {
	if len(buf) < s.width*s.height {
		panic(fmt.Sprintf("screen buffer holds %d pixels, surface needs %d", len(buf), s.width*s.height))
	}
	idx := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			buf[idx] = s.pix[x*s.height+y]
			idx++
		}
	}
}

// ToRGBA writes the surface row by row as opaque RGBA bytes, the layout
// image.RGBA and ebiten's WritePixels expect.
func (s *Surface) ToRGBA(dst []byte) {
	if len(dst) < s.width*s.height*4 {
		panic(fmt.Sprintf("rgba buffer holds %d bytes, surface needs %d", len(dst), s.width*s.height*4))
	}
	idx := 0
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			r, g, b := UnpackRGB(s.pix[x*s.height+y])
			dst[idx] = r
			dst[idx+1] = g
			dst[idx+2] = b
			dst[idx+3] = 255
			idx += 4
		}
	}
}

// RowMajorToRGBA converts a presented row-major frame to RGBA bytes.
func RowMajorToRGBA(frame []Color, dst []byte) {
	for i, c := range frame {
		r, g, b := UnpackRGB(c)
		dst[i*4] = r
		dst[i*4+1] = g
		dst[i*4+2] = b
		dst[i*4+3] = 255
	}
}
