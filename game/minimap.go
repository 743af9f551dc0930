package game

import (
	"math"

	"badtracing/engine"
	"badtracing/model"
)

const (
	minimapMargin   = 10
	minimapMaxShare = 4 // the map takes at most 1/4 of the shorter side
	revealStep      = 0.25
)

var (
	minimapWall       = engine.PackRGB(50, 50, 50)
	minimapFloor      = engine.PackRGB(200, 200, 200)
	minimapUnknown    = engine.PackRGB(20, 20, 20)
	minimapCamera     = engine.PackRGB(0, 255, 255)
	minimapSprite     = engine.PackRGB(255, 0, 0)
	minimapControlled = engine.PackRGB(255, 255, 0)
	minimapFOV        = engine.PackRGB(255, 255, 0)
)

// Minimap is a top-down view of the grid drawn in the top-right corner.
// Cells show up once a wall ray has passed over them.
type Minimap struct {
	grid       *model.Grid
	scale      int
	discovered [][]bool
}

func NewMinimap(g *model.Grid, surfaceWidth, surfaceHeight int) *Minimap {
	side := min(surfaceWidth, surfaceHeight) / minimapMaxShare
	scale := max(2, side/max(g.Rows(), g.Cols()))

	discovered := make([][]bool, g.Rows())
	for i := range discovered {
		discovered[i] = make([]bool, g.Cols())
	}
	return &Minimap{grid: g, scale: scale, discovered: discovered}
}

func (m *Minimap) Scale() int { return m.scale }

// Discovered reports whether the cell has been seen.
func (m *Minimap) Discovered(row, col int) bool {
	return m.grid.InBounds(row, col) && m.discovered[row][col]
}

// Reveal marks every cell crossed by this frame's wall rays, up to and
// including the cell each ray stopped in.
func (m *Minimap) Reveal(cam *engine.Camera, depth engine.DepthBuffer) {
	pos := cam.Position()
	for col := range depth {
		angle, screenX := cam.RayAngle(col, len(depth))
		corrected := depth[col]
		if math.IsInf(corrected, 1) {
			continue
		}
		// depth holds fisheye-corrected distances
		distance := corrected / cam.Fisheye(screenX)
		sin, cos := math.Sincos(angle)
		for t := 0.0; t <= distance+revealStep; t += revealStep {
			x, y := pos.X+cos*t, pos.Y+sin*t
			row, c := int(math.Floor(y)), int(math.Floor(x))
			if !m.grid.InBounds(row, c) {
				break
			}
			m.discovered[row][c] = true
		}
	}
}

// Draw paints the map, the camera and the sprites. controlled is the index
// of the sprite driven by input, or -1.
func (m *Minimap) Draw(surf *engine.Surface, cam *engine.Camera, sprites []*engine.Sprite, controlled int) {
	originX := surf.Width() - m.grid.Cols()*m.scale - minimapMargin
	originY := minimapMargin

	for row := 0; row < m.grid.Rows(); row++ {
		for col := 0; col < m.grid.Cols(); col++ {
			tile := minimapUnknown
			if m.discovered[row][col] {
				if m.grid.Walkable(row, col) {
					tile = minimapFloor
				} else {
					tile = minimapWall
				}
			}
			fillRect(surf, originX+col*m.scale, originY+row*m.scale, m.scale, m.scale, tile)
		}
	}

	toScreen := func(p model.Position) (float64, float64) {
		return float64(originX) + p.X*float64(m.scale), float64(originY) + p.Y*float64(m.scale)
	}

	for i, s := range sprites {
		p := s.Position()
		if !m.Discovered(int(math.Floor(p.Y)), int(math.Floor(p.X))) {
			continue
		}
		x, y := toScreen(p)
		c := minimapSprite
		if i == controlled {
			c = minimapControlled
		}
		fillCircle(surf, x, y, float64(m.scale)/2, c)
	}

	x, y := toScreen(cam.Position())
	reach := 3 * float64(m.scale)
	if fog := cam.Fog(); fog.Mode == engine.FogVisibleDistance {
		reach = fog.MaxDistance * float64(m.scale)
	}
	for _, edge := range []float64{cam.Angle() - cam.HalfFOV(), cam.Angle() + cam.HalfFOV()} {
		strokeLine(surf, x, y, x+reach*math.Cos(edge), y+reach*math.Sin(edge), minimapFOV)
	}

	size := float64(m.scale)
	angle := cam.Angle()
	fillTriangle(surf,
		x+size*math.Cos(angle), y+size*math.Sin(angle),
		x+size*math.Cos(angle+2.5), y+size*math.Sin(angle+2.5),
		x+size*math.Cos(angle-2.5), y+size*math.Sin(angle-2.5),
		minimapCamera)
}
