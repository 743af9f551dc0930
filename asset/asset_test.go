package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"badtracing/engine"
	"badtracing/model"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func levelImage(rows ...[]color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, c := range row {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestLoadLevelImage(t *testing.T) {
	w, e := ColorWall1, ColorEmpty
	path := writePNG(t, levelImage(
		[]color.RGBA{w, w, w, w},
		[]color.RGBA{w, ColorPlayer, ColorSprite, ColorWall2},
		[]color.RGBA{w, e, ColorWall4, ColorWall3},
		[]color.RGBA{w, w, w, w},
	))

	lvl, err := LoadLevelImage(path)
	if err != nil {
		t.Fatal(err)
	}

	g := lvl.Grid
	if g.Rows() != 5 || g.Cols() != 5 {
		t.Fatalf("grid is %dx%d, want 5x5 with padding", g.Rows(), g.Cols())
	}
	cells := []struct {
		row, col int
		want     model.Cell
	}{
		{0, 0, 1},
		{1, 1, 0},
		{1, 2, 0},
		{1, 3, 2},
		{2, 2, 4},
		{2, 3, 3},
		{4, 4, 0},
		{1, 4, 0},
	}
	for _, c := range cells {
		if got := g.At(c.row, c.col); got != c.want {
			t.Errorf("cell (%d,%d) = %d, want %d", c.row, c.col, got, c.want)
		}
	}

	if !lvl.HasStart || lvl.Start != (model.Position{X: 1.5, Y: 1.5}) {
		t.Errorf("start = %v (set %v)", lvl.Start, lvl.HasStart)
	}
	if len(lvl.Spawns) != 1 || lvl.Spawns[0] != (model.Position{X: 2.5, Y: 1.5}) {
		t.Errorf("spawns = %v", lvl.Spawns)
	}
}

func TestLoadLevelImageRejectsUnknownColour(t *testing.T) {
	path := writePNG(t, levelImage(
		[]color.RGBA{ColorWall1, {10, 20, 30, 255}},
	))
	if _, err := LoadLevelImage(path); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("err = %v, want ErrUnknownColor", err)
	}
}

func TestParseRows(t *testing.T) {
	g, err := ParseRows([]string{"111", "101", "111"})
	if err != nil {
		t.Fatal(err)
	}
	if g.Rows() != 4 || g.Cols() != 4 {
		t.Errorf("grid is %dx%d, want 4x4", g.Rows(), g.Cols())
	}
	if g.At(1, 1) != 0 || g.At(1, 2) != 1 || g.At(3, 3) != 0 {
		t.Error("cells not parsed")
	}

	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"empty", nil, model.ErrEmptyGrid},
		{"ragged", []string{"11", "1"}, model.ErrRaggedGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRows(tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ParseRows([]string{"1x1"}); err == nil {
		t.Error("non-digit accepted")
	}
}

func TestLoadBitmapKeepsTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 0})

	b, err := LoadBitmap(writePNG(t, img))
	if err != nil {
		t.Fatal(err)
	}
	if b.Width != 2 || b.Height != 1 {
		t.Fatalf("size = %dx%d", b.Width, b.Height)
	}
	if c, opaque := b.At(0, 0); c != engine.PackRGB(255, 0, 0) || !opaque {
		t.Errorf("pixel 0 = %06x %v", uint32(c), opaque)
	}
	if _, opaque := b.At(1, 0); opaque {
		t.Error("transparent pixel reported opaque")
	}
}

func TestLoadTextureFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")

	if _, err := LoadTexture(missing, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}

	fallback := engine.PackRGB(1, 2, 3)
	tex, err := LoadTexture(missing, &fallback)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Kind() != engine.TextureSolid {
		t.Errorf("kind = %v, want solid", tex.Kind())
	}
	if c, _ := tex.SampleUV(0.5, 0.5); c != fallback {
		t.Errorf("colour = %06x", uint32(c))
	}

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	tex, err = LoadTexture(writePNG(t, img), &fallback)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := tex.Size(); tex.Kind() != engine.TextureBitmap || w != 3 || h != 2 {
		t.Errorf("texture = %v %dx%d", tex.Kind(), w, h)
	}
}
