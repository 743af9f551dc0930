package game

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/harbdog/raycaster-go"
	"github.com/jinzhu/copier"

	"badtracing/asset"
	"badtracing/config"
	"badtracing/engine"
	"badtracing/model"
)

// World is everything the renderer draws: the map with its wall textures,
// the optional skybox, the sprites and the camera.
type World struct {
	Grid     *model.Grid
	Camera   *engine.Camera
	Textures []engine.Sampler
	Skybox   *engine.Skybox
	Sprites  []*engine.Sprite
}

// Build loads the map and assets named by cfg. Sprites listed in the
// configuration come first, in order, followed by one sprite per spawn
// marker of an image level.
func Build(cfg config.Config) (*World, error) {
	w := &World{}

	var lvl *asset.Level
	if cfg.Map.File != "" {
		var err error
		if lvl, err = asset.LoadLevelImage(cfg.Map.File); err != nil {
			return nil, err
		}
		w.Grid = lvl.Grid
	} else {
		g, err := asset.ParseRows(cfg.Map.Rows)
		if err != nil {
			return nil, fmt.Errorf("map rows: %w", err)
		}
		w.Grid = g
	}

	cam, err := NewCamera(cfg)
	if err != nil {
		return nil, err
	}
	if lvl != nil && lvl.HasStart {
		cam.SetPosition(lvl.Start.X, lvl.Start.Y)
	}
	if p := cam.Position(); !w.Grid.Walkable(int(math.Floor(p.Y)), int(math.Floor(p.X))) {
		return nil, fmt.Errorf("camera start (%.2f, %.2f) is not on an open cell of the %dx%d map",
			p.X, p.Y, w.Grid.Cols(), w.Grid.Rows())
	}
	w.Camera = cam

	for _, t := range cfg.Assets.Textures {
		tex, err := loadTexture(t)
		if err != nil {
			return nil, err
		}
		w.Textures = append(w.Textures, tex)
	}

	if cfg.Assets.Skybox != "" {
		if w.Skybox, err = asset.LoadSkybox(cfg.Assets.Skybox); err != nil {
			log.Printf("skybox unavailable, using flat sky: %v", err)
		}
	}

	spriteTextures := make(map[string]engine.Sampler, len(cfg.Assets.SpriteTextures))
	var first engine.Sampler
	for _, t := range cfg.Assets.SpriteTextures {
		tex, err := loadTexture(t)
		if err != nil {
			return nil, err
		}
		spriteTextures[t.Name] = tex
		if first == nil {
			first = tex
		}
	}

	for i, sc := range cfg.Assets.Sprites {
		s, err := newSprite(sc, spriteTextures)
		if err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}
		w.Sprites = append(w.Sprites, s)
	}
	if lvl != nil {
		if first == nil && len(lvl.Spawns) > 0 {
			log.Printf("level has %d sprite markers but no sprite textures", len(lvl.Spawns))
		} else {
			for _, p := range lvl.Spawns {
				w.Sprites = append(w.Sprites, engine.NewSprite(p.X, p.Y, first, 1))
			}
		}
	}
	return w, nil
}

// NewCamera builds the camera described by cfg.Camera. Projection values
// left at zero follow the window's aspect ratio: focal distance H/W and
// viewport W/H.
func NewCamera(cfg config.Config) (*engine.Camera, error) {
	opts := engine.DefaultCameraOptions()
	opts.FocalDistance = float64(cfg.Window.Height) / float64(cfg.Window.Width)
	opts.ViewportSize = float64(cfg.Window.Width) / float64(cfg.Window.Height)
	if err := copier.CopyWithOption(&opts, cfg.Camera, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("camera options: %w", err)
	}
	opts.Fog = fogOf(cfg.Camera.Fog)
	return engine.NewCamera(opts)
}

func fogOf(f config.Fog) engine.Fog {
	if !f.Enabled {
		return engine.NoFog()
	}
	return engine.VisibleDistanceFog(f.Distance, f.Color.Engine())
}

func loadTexture(t config.Texture) (engine.Sampler, error) {
	var fallback *engine.Color
	if t.Color != "" {
		c, err := config.ParseColor(t.Color)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", t.Name, err)
		}
		solid := c.Engine()
		fallback = &solid
	}
	if t.Path == "" {
		if fallback == nil {
			return nil, fmt.Errorf("texture %q has neither path nor colour", t.Name)
		}
		return engine.SolidTexture(*fallback), nil
	}
	tex, err := asset.LoadTexture(t.Path, fallback)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", t.Name, err)
	}
	return tex, nil
}

var anchors = map[string]raycaster.SpriteAnchor{
	"":       raycaster.AnchorBottom,
	"bottom": raycaster.AnchorBottom,
	"center": raycaster.AnchorCenter,
	"top":    raycaster.AnchorTop,
}

func newSprite(sc config.Sprite, textures map[string]engine.Sampler) (*engine.Sprite, error) {
	anchor, ok := anchors[sc.Anchor]
	if !ok {
		return nil, fmt.Errorf("unknown anchor %q", sc.Anchor)
	}
	lookup := func(name string) (engine.Sampler, error) {
		tex, ok := textures[name]
		if !ok {
			return nil, fmt.Errorf("unknown sprite texture %q", name)
		}
		return tex, nil
	}

	var tex engine.Sampler
	if sc.Texture != "" {
		var err error
		if tex, err = lookup(sc.Texture); err != nil {
			return nil, err
		}
	}
	s := engine.NewSprite(sc.X, sc.Y, tex, sc.Scale)
	s.Anchor = anchor

	if len(sc.Frames) > 0 {
		anim := engine.NewAnimation(time.Duration(sc.FrameMS) * time.Millisecond)
		for _, name := range sc.Frames {
			frame, err := lookup(name)
			if err != nil {
				return nil, err
			}
			anim.AddFrame(frame)
		}
		s.Animation = anim
	}
	return s, nil
}
