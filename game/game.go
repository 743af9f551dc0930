package game

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"time"

	"badtracing/canvas"
	"badtracing/config"
	"badtracing/engine"
	"badtracing/model"
)

const fpsSmoothing = 0.1

// Game runs the frame loop: draw the world, present it, then apply input
// to whatever the player controls.
type Game struct {
	cfg      config.Config
	world    *World
	canvas   *canvas.Canvas
	renderer *engine.Renderer

	controller Controller
	target     int

	hud      *HUD
	minimap  *Minimap
	overlays bool
	toggling bool

	reload <-chan config.Config
	now    func() time.Time
	last   time.Time
	fps    float64
}

func New(cfg config.Config, world *World, c *canvas.Canvas) (*Game, error) {
	hud, err := NewHUD(c.Width(), c.Height())
	if err != nil {
		return nil, err
	}
	g := &Game{
		world:    world,
		canvas:   c,
		renderer: engine.NewRenderer(),
		hud:      hud,
		minimap:  NewMinimap(world.Grid, c.Width(), c.Height()),
		overlays: true,
		now:      time.Now,
	}
	if err := g.apply(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// Watch makes the game pick up configurations sent on ch between frames.
func (g *Game) Watch(ch <-chan config.Config) { g.reload = ch }

func (g *Game) Camera() *engine.Camera     { return g.world.Camera }
func (g *Game) Sprites() []*engine.Sprite  { return g.world.Sprites }
func (g *Game) Renderer() *engine.Renderer { return g.renderer }
func (g *Game) Overlays() bool             { return g.overlays }

// FPS is the smoothed frame rate.
func (g *Game) FPS() float64 { return g.fps }

// apply takes the live-tunable parts of cfg. Map, assets and window size
// only take effect on restart.
func (g *Game) apply(cfg config.Config) error {
	target, err := cfg.ControlTarget()
	if err != nil {
		return err
	}
	if target >= len(g.world.Sprites) {
		return fmt.Errorf("movement.control %q: only %d sprites", cfg.Movement.Control, len(g.world.Sprites))
	}

	g.cfg = cfg
	g.target = target
	g.controller = Controller{Speed: cfg.Movement.Speed, LookSense: cfg.Movement.LookSense}
	g.renderer.ShadowCoefficient = cfg.Render.ShadowCoefficient
	g.renderer.FloorColor = cfg.Render.FloorColor.Engine()
	g.renderer.SkyColor = cfg.Render.SkyColor.Engine()
	g.renderer.Workers = cfg.Render.Workers
	if g.renderer.Workers == 0 {
		g.renderer.Workers = runtime.GOMAXPROCS(0)
	}
	g.world.Camera.SetFog(fogOf(cfg.Camera.Fog))
	return nil
}

func (g *Game) Run() error {
	g.canvas.SetTargetFrameRate(g.cfg.Window.FPS)
	return g.canvas.Run(g.Step)
}

// Step performs one frame.
func (g *Game) Step() error {
	g.drainReload()

	if g.canvas.IsKeyDown(canvas.KeyQuit) {
		return canvas.ErrQuit
	}

	now := g.now()
	g.tick(now)

	g.Draw()
	g.canvas.Present()

	g.handleInput()
	for _, s := range g.world.Sprites {
		if s.Animation != nil {
			s.Animation.Advance(now)
		}
	}
	return nil
}

func (g *Game) drainReload() {
	for {
		select {
		case cfg := <-g.reload:
			if err := g.apply(cfg); err != nil {
				log.Printf("reload config: %v", err)
				continue
			}
			log.Printf("config reloaded")
		default:
			return
		}
	}
}

func (g *Game) tick(now time.Time) {
	if !g.last.IsZero() {
		if dt := now.Sub(g.last).Seconds(); dt > 0 {
			if g.fps == 0 {
				g.fps = 1 / dt
			} else {
				g.fps += (1/dt - g.fps) * fpsSmoothing
			}
		}
	}
	g.last = now
}

// Draw renders the world into the canvas surface.
func (g *Game) Draw() {
	c := g.canvas
	cam := g.world.Camera
	r := g.renderer

	c.Clear(r.SkyColor)
	if g.world.Skybox != nil {
		r.DrawSkybox(cam, c.Surface, g.world.Skybox)
	} else {
		r.DrawSky(c.Surface)
	}
	r.DrawFloor(c.Surface)
	r.CastWalls(cam, c.Surface, c.Depth, g.world.Grid, g.world.Textures)
	g.minimap.Reveal(cam, c.Depth)

	sprites := g.world.Sprites
	if g.cfg.Render.SortSprites {
		sprites = slices.Clone(sprites)
		engine.SortSprites(sprites, cam.Position())
	}
	r.RenderSprites(cam, c.Surface, c.Depth, sprites)

	if !g.overlays {
		return
	}
	if g.cfg.Render.Minimap {
		g.minimap.Draw(c.Surface, cam, g.world.Sprites, g.target)
	}
	if g.cfg.Render.HUD {
		target := g.controlled()
		g.hud.Draw(c.Surface, StatusLines(target.Position(), target.Angle(), g.fps, g.cfg.Movement.Control))
	}
}

func (g *Game) controlled() model.Moveable {
	if g.target < 0 {
		return g.world.Camera
	}
	return g.world.Sprites[g.target]
}

func (g *Game) handleInput() {
	// the overlay toggles once per press, not once per frame held
	held := g.canvas.IsKeyDown(canvas.KeyToggleHUD)
	if held && !g.toggling {
		g.overlays = !g.overlays
	}
	g.toggling = held

	g.controller.Apply(g.canvas, g.controlled(), g.world.Grid)
}
