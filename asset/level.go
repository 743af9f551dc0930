package asset

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"badtracing/model"
)

// Level palette. Each opaque pixel of a level image is one grid cell.
var (
	ColorEmpty  = color.RGBA{255, 255, 255, 255}
	ColorWall1  = color.RGBA{0, 0, 0, 255}
	ColorWall2  = color.RGBA{255, 255, 0, 255}
	ColorWall3  = color.RGBA{0, 255, 0, 255}
	ColorWall4  = color.RGBA{128, 128, 128, 255}
	ColorPlayer = color.RGBA{0, 0, 255, 255}
	ColorSprite = color.RGBA{255, 0, 0, 255}
)

var wallColors = map[color.RGBA]model.Cell{
	ColorWall1: 1,
	ColorWall2: 2,
	ColorWall3: 3,
	ColorWall4: 4,
}

var ErrUnknownColor = errors.New("colour not in level palette")

// Level is a decoded map together with the markers placed on it.
type Level struct {
	Grid     *model.Grid
	Start    model.Position
	HasStart bool
	Spawns   []model.Position
}

func LoadLevelImage(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()

	lvl, err := DecodeLevel(f)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

func DecodeLevel(r io.Reader) (*Level, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, model.ErrEmptyGrid
	}

	lvl := &Level{}
	cells := make([][]model.Cell, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]model.Cell, width)
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			centre := model.Position{X: float64(x) + 0.5, Y: float64(y) + 0.5}

			switch wall, isWall := wallColors[c]; {
			case isWall:
				cells[y][x] = wall
			case c == ColorEmpty:
			case c == ColorPlayer:
				// markers become floor so they neither render nor collide
				lvl.Start, lvl.HasStart = centre, true
			case c == ColorSprite:
				lvl.Spawns = append(lvl.Spawns, centre)
			default:
				return nil, fmt.Errorf("pixel (%d, %d) is %v: %w", x, y, c, ErrUnknownColor)
			}
		}
	}

	lvl.Grid, err = model.NewGrid(pad(cells))
	if err != nil {
		return nil, err
	}
	return lvl, nil
}

// ParseRows builds a grid from rows of digits, one digit per cell.
func ParseRows(rows []string) (*model.Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, model.ErrEmptyGrid
	}

	cells := make([][]model.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]model.Cell, 0, len(row))
		for j, ch := range row {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("map row %d column %d: %q is not a digit", i, j, ch)
			}
			cells[i] = append(cells[i], model.Cell(ch-'0'))
		}
	}
	return model.NewGrid(pad(cells))
}

// pad appends an empty column and row. Rays stop at the continuous bounds
// [0, cols-1] x [0, rows-1], so without it walls on the last column and
// row could only be hit exactly on their edge.
func pad(cells [][]model.Cell) [][]model.Cell {
	for i := range cells {
		cells[i] = append(cells[i], 0)
	}
	return append(cells, make([]model.Cell, len(cells[0])))
}
