package engine

import (
	"math"
	"sync"

	"badtracing/model"
)

const (
	DefaultShadowCoefficient = 2.5

	// minDistance keeps the projection finite when something sits on the camera.
	minDistance = 1e-6
)

var (
	DefaultFloorColor = PackRGB(0, 0, 255)
	DefaultSkyColor   = PackRGB(20, 20, 40)

	// missingTexture marks walls whose value has no texture loaded.
	missingTexture = SolidTexture(PackRGB(255, 0, 255))
)

// Renderer draws one frame layer by layer: sky, floor, walls, sprites.
type Renderer struct {
	ShadowCoefficient float64
	FloorColor        Color
	SkyColor          Color
	// Workers is how many goroutines cast wall columns. Each owns a
	// contiguous band of columns, so no two touch the same pixels or
	// depth entries. Values below 1 mean 1.
	Workers int
}

func NewRenderer() *Renderer {
	return &Renderer{
		ShadowCoefficient: DefaultShadowCoefficient,
		FloorColor:        DefaultFloorColor,
		SkyColor:          DefaultSkyColor,
		Workers:           1,
	}
}

// Shade darkens c for something seen at distance.
func (r *Renderer) Shade(c Color, distance float64) Color {
	d := distance + 2
	return DecreaseBrightness(c, uint32(math.Round(d*d*r.ShadowCoefficient)))
}

// DrawSkybox fills the top half of surf from the panorama.
func (r *Renderer) DrawSkybox(cam *Camera, surf *Surface, sky *Skybox) {
	half := surf.Height() / 2
	for x := 0; x < surf.Width(); x++ {
		angle, _ := cam.RayAngle(x, surf.Width())
		col := surf.Column(x)
		for y := 0; y < half; y++ {
			col[y] = sky.Sample(angle, float64(y)/float64(half))
		}
	}
}

// DrawSky fills the top half of surf with the flat sky colour.
func (r *Renderer) DrawSky(surf *Surface) {
	half := surf.Height() / 2
	for x := 0; x < surf.Width(); x++ {
		col := surf.Column(x)
		for y := 0; y < half; y++ {
			col[y] = r.SkyColor
		}
	}
}

// DrawFloor fills the bottom half of surf with a gradient that darkens
// towards the horizon.
func (r *Renderer) DrawFloor(surf *Surface) {
	h := surf.Height()
	for x := 0; x < surf.Width(); x++ {
		col := surf.Column(x)
		for y := h / 2; y < h; y++ {
			col[y] = DecreaseBrightness(r.FloorColor, uint32(h-y))
		}
	}
}

// projection is the on-screen extent of something at a corrected distance.
type projection struct {
	height  float64 // unclipped
	clipped float64 // height capped at the surface height
	bounded int
	offset  int
}

func project(surfaceHeight int, corrected float64) projection {
	screen := float64(surfaceHeight)
	h := screen / math.Max(corrected, minDistance)
	hb := math.Min(h, screen)
	return projection{
		height:  h,
		clipped: hb,
		bounded: int(hb),
		offset:  int((screen - hb) / 2),
	}
}

// CastWalls marches one ray per column through g and draws the first wall
// each ray meets. Wall value v is drawn with textures[v-1].
func (r *Renderer) CastWalls(cam *Camera, surf *Surface, depth DepthBuffer, g *model.Grid, textures []Sampler) {
	width := surf.Width()
	workers := min(max(r.Workers, 1), width)
	if workers <= 1 {
		for c := 0; c < width; c++ {
			r.castColumn(cam, surf, depth, g, textures, c)
		}
		return
	}

	var wg sync.WaitGroup
	band := (width + workers - 1) / workers
	for start := 0; start < width; start += band {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for c := start; c < end; c++ {
				r.castColumn(cam, surf, depth, g, textures, c)
			}
		}(start, min(start+band, width))
	}
	wg.Wait()
}

func (r *Renderer) castColumn(cam *Camera, surf *Surface, depth DepthBuffer, g *model.Grid, textures []Sampler, c int) {
	angle, screenX := cam.RayAngle(c, surf.Width())
	fineness := cam.RayFineness()
	dx := math.Cos(angle) / fineness
	dy := math.Sin(angle) / fineness
	fisheye := cam.Fisheye(screenX)
	fog := cam.Fog()
	origin := cam.Position()
	column := surf.Column(c)

	for x, y := origin.X, origin.Y; g.Contains(x, y); x, y = x+dx, y+dy {
		distance := math.Hypot(x-origin.X, y-origin.Y)
		corrected := distance * fisheye

		if fog.Occludes(distance) {
			p := project(surf.Height(), corrected)
			if depth.Claim(c, corrected) {
				for i := 0; i < p.offset+p.bounded; i++ {
					column[i] = fog.Color
				}
			}
			return
		}

		cell := g.CellAt(x, y)
		if cell == 0 {
			continue
		}

		if !depth.Claim(c, corrected) {
			return
		}

		p := project(surf.Height(), corrected)
		if fog.Mode == FogVisibleDistance {
			// fogged scenes have no sky above the walls
			for i := 0; i < p.offset; i++ {
				column[i] = fog.Color
			}
		}
		tex := wallTexture(textures, cell)
		u := wallU(x, y, fineness)
		vStep := 1 / p.height
		// zero unless the wall is taller than the surface
		v := (p.height - p.clipped) / 2 / p.height
		for i := p.offset; i < p.offset+p.bounded; i++ {
			texel, _ := tex.SampleUV(u, v)
			column[i] = r.Shade(texel, distance)
			v += vStep
		}
		return
	}
}

func wallTexture(textures []Sampler, cell model.Cell) Sampler {
	i := int(cell) - 1
	if i >= len(textures) || textures[i] == nil {
		return missingTexture
	}
	return textures[i]
}

// wallU picks the texture column from the hit point. A hit within one ray
// step of a vertical grid line is on an east or west face, so the position
// along y selects the column; otherwise x does.
func wallU(x, y, fineness float64) float64 {
	fx := x - math.Floor(x)
	fy := y - math.Floor(y)
	step := 1 / fineness
	if fx < step || fx > 1-step {
		return fy
	}
	return fx
}
