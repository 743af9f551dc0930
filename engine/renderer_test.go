package engine

import (
	"math"
	"testing"

	"github.com/harbdog/raycaster-go"

	"badtracing/model"
)

const (
	testWidth  = 64
	testHeight = 48
)

var (
	background = PackRGB(1, 2, 3)
	wallGrey   = PackRGB(200, 200, 200)
	red        = PackRGB(255, 0, 0)
)

type countingSampler struct {
	calls int
	color Color
}

func (s *countingSampler) SampleUV(u, v float64) (Color, bool) {
	s.calls++
	return s.color, true
}

func (s *countingSampler) Size() (int, int) { return 1, 1 }

func gridFrom(t *testing.T, rows ...string) *model.Grid {
	t.Helper()
	cells := make([][]model.Cell, len(rows))
	for i, r := range rows {
		for _, ch := range r {
			cells[i] = append(cells[i], model.Cell(ch-'0'))
		}
	}
	g, err := model.NewGrid(cells)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func newTestCamera(t *testing.T, x, y, angle float64, fog Fog) *Camera {
	t.Helper()
	opts := DefaultCameraOptions()
	opts.Position = model.Position{X: x, Y: y}
	opts.Angle = angle
	opts.Fog = fog
	cam, err := NewCamera(opts)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	return cam
}

func newFrame() (*Surface, DepthBuffer) {
	surf := NewSurface(testWidth, testHeight)
	surf.Flush(background)
	return surf, NewDepthBuffer(testWidth)
}

// enclosed is open in [1,8)x[1,8) with walls up to the last row and column.
func enclosed(t *testing.T) *model.Grid {
	return gridFrom(t,
		"1111111111",
		"1000000011",
		"1000000011",
		"1000000011",
		"1000000011",
		"1000000011",
		"1000000011",
		"1000000011",
		"1111111111",
		"1111111111",
	)
}

func TestCastWallsInsideEnclosure(t *testing.T) {
	g := enclosed(t)
	r := NewRenderer()
	textures := []Sampler{SolidTexture(wallGrey)}

	for _, angle := range []float64{0, 1, model.HalfPi, math.Pi, 4, 3 * model.HalfPi} {
		cam := newTestCamera(t, 4, 4, angle, NoFog())
		surf, depth := newFrame()
		r.CastWalls(cam, surf, depth, g, textures)

		for c, d := range depth {
			if math.IsInf(d, 1) {
				t.Fatalf("angle %v: column %d reported no hit", angle, c)
			}
		}
	}

	cam := newTestCamera(t, 4, 4, 0, NoFog())
	surf, depth := newFrame()
	r.CastWalls(cam, surf, depth, g, textures)

	// four units to the wall: shaded by round(6*6*2.5) = 90
	if got := surf.At(testWidth/2, testHeight/2); got != PackRGB(110, 110, 110) {
		t.Errorf("centre pixel = %06x", uint32(got))
	}
	if got := surf.At(testWidth/2, 0); got != background {
		t.Errorf("pixel above the wall = %06x, want background", uint32(got))
	}
}

func TestCastWallsWorkersMatchSerial(t *testing.T) {
	g := enclosed(t)
	textures := []Sampler{SolidTexture(wallGrey)}
	cam := newTestCamera(t, 2.5, 3.2, 0.7, NoFog())

	serial := NewRenderer()
	want, wantDepth := newFrame()
	serial.CastWalls(cam, want, wantDepth, g, textures)

	for _, workers := range []int{0, 2, 3, 7, testWidth, 1000} {
		r := NewRenderer()
		r.Workers = workers
		got, depth := newFrame()
		r.CastWalls(cam, got, depth, g, textures)

		for c := range depth {
			if depth[c] != wantDepth[c] {
				t.Fatalf("workers %d: depth[%d] = %v, want %v", workers, c, depth[c], wantDepth[c])
			}
			for y := 0; y < testHeight; y++ {
				if got.At(c, y) != want.At(c, y) {
					t.Fatalf("workers %d: pixel (%d, %d) differs", workers, c, y)
				}
			}
		}
	}
}

type recordingSampler struct {
	vs []float64
}

func (s *recordingSampler) SampleUV(u, v float64) (Color, bool) {
	s.vs = append(s.vs, v)
	return wallGrey, true
}

func (s *recordingSampler) Size() (int, int) { return 1, 1 }

func TestWallTextureStartsAtTop(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		wantV0 float64
	}{
		// five units away the wall is 9.6 rows of 48, fully on screen
		{"far wall", 3, 0},
		// half a unit away it is 96 rows tall; the top quarter is clipped
		{"near wall", 7.5, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(t, tt.x, 4.5, 0, NoFog())
			sampler := &recordingSampler{}
			surf, depth := newFrame()
			col := testWidth / 2
			NewRenderer().castColumn(cam, surf, depth, enclosed(t), []Sampler{sampler}, col)

			if len(sampler.vs) == 0 {
				t.Fatal("wall not sampled")
			}
			if got := sampler.vs[0]; math.Abs(got-tt.wantV0) > 0.02 {
				t.Errorf("first v = %v, want %v", got, tt.wantV0)
			}
		})
	}
}

func TestFogFillsAboveNearWall(t *testing.T) {
	fogColor := PackRGB(90, 90, 90)
	cam := newTestCamera(t, 4, 4, 0, VisibleDistanceFog(10, fogColor))
	surf, depth := newFrame()
	NewRenderer().CastWalls(cam, surf, depth, enclosed(t), []Sampler{SolidTexture(wallGrey)})

	if got := surf.At(testWidth/2, 0); got != fogColor {
		t.Errorf("pixel above the wall = %06x, want fog", uint32(got))
	}
	if got := surf.At(testWidth/2, testHeight/2); got != PackRGB(110, 110, 110) {
		t.Errorf("wall pixel = %06x", uint32(got))
	}
}

func TestFogHidesWallWithoutSampling(t *testing.T) {
	g := gridFrom(t,
		"11111",
		"10011",
		"11111",
	)
	fogColor := PackRGB(90, 90, 90)
	cam := newTestCamera(t, 1, 1.5, 0, VisibleDistanceFog(1, fogColor))
	sampler := &countingSampler{color: wallGrey}
	surf, depth := newFrame()

	NewRenderer().CastWalls(cam, surf, depth, g, []Sampler{sampler})

	if sampler.calls != 0 {
		t.Errorf("wall texture sampled %d times behind fog", sampler.calls)
	}
	for c := 0; c < testWidth; c++ {
		if math.IsInf(depth[c], 1) {
			t.Errorf("column %d: fog did not claim depth", c)
		}
		for y := 0; y <= testHeight/2; y++ {
			if got := surf.At(c, y); got != fogColor {
				t.Fatalf("pixel (%d,%d) = %06x, want fog", c, y, uint32(got))
			}
		}
	}
}

func TestMissingTextureFallsBack(t *testing.T) {
	g := gridFrom(t,
		"22222",
		"20022",
		"22222",
	)
	cam := newTestCamera(t, 1.5, 1.5, 0, NoFog())
	surf, depth := newFrame()
	r := NewRenderer()
	r.CastWalls(cam, surf, depth, g, []Sampler{SolidTexture(wallGrey)})

	want := r.Shade(PackRGB(255, 0, 255), depth[testWidth/2])
	if got := surf.At(testWidth/2, testHeight/2); got != want {
		t.Errorf("centre pixel = %06x, want %06x", uint32(got), uint32(want))
	}
}

func TestSkyAndFloor(t *testing.T) {
	sky := NewBitmap(1, 1)
	sky.Set(0, 0, PackRGB(7, 8, 9), true)
	box, err := NewSkybox(sky)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRenderer()
	cam := newTestCamera(t, 0, 0, 2, NoFog())
	surf, _ := newFrame()
	r.DrawSkybox(cam, surf, box)
	r.DrawFloor(surf)

	for x := 0; x < testWidth; x++ {
		if got := surf.At(x, 0); got != PackRGB(7, 8, 9) {
			t.Fatalf("sky pixel (%d,0) = %06x", x, uint32(got))
		}
		if got, want := surf.At(x, testHeight-1), DecreaseBrightness(r.FloorColor, 1); got != want {
			t.Fatalf("floor pixel (%d,%d) = %06x, want %06x", x, testHeight-1, uint32(got), uint32(want))
		}
		if got, want := surf.At(x, testHeight/2), DecreaseBrightness(r.FloorColor, testHeight/2); got != want {
			t.Fatalf("horizon pixel = %06x, want %06x", uint32(got), uint32(want))
		}
	}
}

func corridor(t *testing.T, pillar bool) *model.Grid {
	middle := "100000011"
	if pillar {
		middle = "100100011"
	}
	return gridFrom(t,
		"111111111",
		"100000011",
		middle,
		"100000011",
		"111111111",
	)
}

func TestSpriteBehindWallIsHidden(t *testing.T) {
	shadedRed := PackRGB(165, 0, 0) // four units away
	r := NewRenderer()
	cam := newTestCamera(t, 1.5, 2.5, 0, NoFog())
	textures := []Sampler{SolidTexture(wallGrey)}
	sprite := NewSprite(5.5, 2.5, SolidTexture(red), 1)

	surf, depth := newFrame()
	r.CastWalls(cam, surf, depth, corridor(t, false), textures)
	r.RenderSprites(cam, surf, depth, []*Sprite{sprite})
	if got := surf.At(testWidth/2, testHeight/2); got != shadedRed {
		t.Fatalf("unobstructed sprite pixel = %06x, want %06x", uint32(got), uint32(shadedRed))
	}
	if depth[testWidth/2] != 4 {
		t.Errorf("sprite depth = %v, want 4", depth[testWidth/2])
	}

	surf, depth = newFrame()
	r.CastWalls(cam, surf, depth, corridor(t, true), textures)
	r.RenderSprites(cam, surf, depth, []*Sprite{sprite})
	for x := 0; x < testWidth; x++ {
		for y := 0; y < testHeight; y++ {
			if surf.At(x, y) == shadedRed {
				t.Fatalf("sprite drawn at (%d,%d) behind the pillar", x, y)
			}
		}
	}
}

func TestOffAxisSpriteInFrontOfWall(t *testing.T) {
	// open field with a wall along x = 10
	rows := make([]string, 22)
	for i := range rows {
		switch {
		case i == 0 || i >= 20:
			rows[i] = "111111111111"
		default:
			rows[i] = "100000000011"
		}
	}
	g := gridFrom(t, rows...)

	opts := DefaultCameraOptions()
	opts.Position = model.Position{X: 2, Y: 10}
	opts.ViewportSize = 2
	cam, err := NewCamera(opts)
	if err != nil {
		t.Fatal(err)
	}

	// on bearing 0.75 the wall is 8/cos(0.75) away; put the sprite nearer
	const bearing = 0.75
	wallDistance := 8 / math.Cos(bearing)
	d := 0.88 * wallDistance
	sprite := NewSprite(2+d*math.Cos(bearing), 10+d*math.Sin(bearing), SolidTexture(red), 1)

	r := NewRenderer()
	r.ShadowCoefficient = 0
	surf, depth := newFrame()
	r.CastWalls(cam, surf, depth, g, []Sampler{SolidTexture(wallGrey)})

	col := int(cam.Project(bearing, testWidth))
	wallDepth := depth[col]
	r.RenderSprites(cam, surf, depth, []*Sprite{sprite})

	if depth[col] >= wallDepth {
		t.Errorf("column %d depth %v, want the sprite nearer than the wall at %v", col, depth[col], wallDepth)
	}
	drawn := 0
	for y := 0; y < testHeight; y++ {
		if surf.At(col, y) == red {
			drawn++
		}
	}
	if drawn == 0 {
		t.Errorf("sprite in front of the wall not drawn in column %d", col)
	}
}

func TestSpriteCulling(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name   string
		fog    Fog
		sprite *Sprite
	}{
		{"behind the camera", NoFog(), NewSprite(-2, 0, SolidTexture(red), 1)},
		{"beside the camera", NoFog(), NewSprite(0, 3, SolidTexture(red), 1)},
		{"beyond the fog", VisibleDistanceFog(3, 0), NewSprite(4, 0, SolidTexture(red), 1)},
		{"on the camera", NoFog(), NewSprite(0, 0, SolidTexture(red), 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(t, 0, 0, 0, tt.fog)
			surf, depth := newFrame()
			r.RenderSprites(cam, surf, depth, []*Sprite{tt.sprite})
			for c, d := range depth {
				if !math.IsInf(d, 1) {
					t.Fatalf("column %d claimed at %v", c, d)
				}
			}
		})
	}
}

func TestSpriteAnchors(t *testing.T) {
	// at distance 4 a unit sprite is 12 rows tall; scaled by 0.5 it is 6
	tests := []struct {
		name      string
		anchor    raycaster.SpriteAnchor
		drawn     int
		untouched int
	}{
		{"bottom", raycaster.AnchorBottom, 25, 22},
		{"center", raycaster.AnchorCenter, 21, 27},
		{"top", raycaster.AnchorTop, 18, 25},
	}
	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera(t, 0, 0, 0, NoFog())
			s := NewSprite(4, 0, SolidTexture(red), 0.5)
			s.Anchor = tt.anchor

			surf, depth := newFrame()
			r.RenderSprites(cam, surf, depth, []*Sprite{s})
			if got := surf.At(testWidth/2, tt.drawn); got == background {
				t.Errorf("row %d not drawn", tt.drawn)
			}
			if got := surf.At(testWidth/2, tt.untouched); got != background {
				t.Errorf("row %d drawn", tt.untouched)
			}
		})
	}
}

func TestSpriteTransparency(t *testing.T) {
	b := NewBitmap(1, 2)
	b.Set(0, 0, red, false)
	b.Set(0, 1, red, true)
	tex, err := NewBitmapTexture(b)
	if err != nil {
		t.Fatal(err)
	}

	cam := newTestCamera(t, 0, 0, 0, NoFog())
	surf, depth := newFrame()
	NewRenderer().RenderSprites(cam, surf, depth, []*Sprite{NewSprite(4, 0, tex, 1)})

	// the sprite covers rows 18..29, the upper half transparent
	if got := surf.At(testWidth/2, 20); got != background {
		t.Errorf("transparent texel drawn: %06x", uint32(got))
	}
	if got := surf.At(testWidth/2, 27); got == background {
		t.Error("opaque texel not drawn")
	}
}
