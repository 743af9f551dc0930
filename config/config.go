package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"badtracing/model"
)

type Config struct {
	Window   Window   `mapstructure:"window" yaml:"window"`
	Camera   Camera   `mapstructure:"camera" yaml:"camera"`
	Movement Movement `mapstructure:"movement" yaml:"movement"`
	Render   Render   `mapstructure:"render" yaml:"render"`
	Assets   Assets   `mapstructure:"assets" yaml:"assets"`
	Map      Map      `mapstructure:"map" yaml:"map"`
}

type Window struct {
	Title   string `mapstructure:"title" yaml:"title"`
	Width   int    `mapstructure:"width" yaml:"width"`
	Height  int    `mapstructure:"height" yaml:"height"`
	FPS     int    `mapstructure:"fps" yaml:"fps"`
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// Camera holds the starting pose and projection. Zero projection values
// are derived from the window size.
type Camera struct {
	X             float64 `mapstructure:"x" yaml:"x"`
	Y             float64 `mapstructure:"y" yaml:"y"`
	Angle         float64 `mapstructure:"angle" yaml:"angle"`
	FocalDistance float64 `mapstructure:"focal_distance" yaml:"focal_distance"`
	ViewportSize  float64 `mapstructure:"viewport_size" yaml:"viewport_size"`
	RayFineness   float64 `mapstructure:"ray_fineness" yaml:"ray_fineness"`
	Fog           Fog     `mapstructure:"fog" yaml:"fog" copier:"-"`
}

// Position lets copier fill engine.CameraOptions.Position from X and Y.
func (c Camera) Position() model.Position {
	return model.Position{X: c.X, Y: c.Y}
}

type Fog struct {
	Enabled  bool    `mapstructure:"enabled" yaml:"enabled"`
	Distance float64 `mapstructure:"distance" yaml:"distance"`
	Color    Color   `mapstructure:"color" yaml:"color"`
}

type Movement struct {
	Speed     float64 `mapstructure:"speed" yaml:"speed"`
	LookSense float64 `mapstructure:"look_sense" yaml:"look_sense"`
	// Control is "camera" or "sprite:<index>".
	Control string `mapstructure:"control" yaml:"control"`
}

type Render struct {
	ShadowCoefficient float64 `mapstructure:"shadow_coefficient" yaml:"shadow_coefficient"`
	FloorColor        Color   `mapstructure:"floor_color" yaml:"floor_color"`
	SkyColor          Color   `mapstructure:"sky_color" yaml:"sky_color"`
	SortSprites       bool    `mapstructure:"sort_sprites" yaml:"sort_sprites"`
	HUD               bool    `mapstructure:"hud" yaml:"hud"`
	Minimap           bool    `mapstructure:"minimap" yaml:"minimap"`
	// Workers is the number of goroutines casting wall columns; 0 uses
	// one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

type Assets struct {
	// Skybox is optional; without it the sky is flat SkyColor.
	Skybox         string    `mapstructure:"skybox" yaml:"skybox,omitempty"`
	Textures       []Texture `mapstructure:"textures" yaml:"textures,omitempty"`
	SpriteTextures []Texture `mapstructure:"sprite_textures" yaml:"sprite_textures,omitempty"`
	Sprites        []Sprite  `mapstructure:"sprites" yaml:"sprites,omitempty"`
}

// Texture is loaded from Path, or is solid Color when Path is empty. A
// texture with both falls back to Color if the file cannot be loaded.
type Texture struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Path  string `mapstructure:"path" yaml:"path,omitempty"`
	Color string `mapstructure:"color" yaml:"color,omitempty"`
}

type Sprite struct {
	X       float64 `mapstructure:"x" yaml:"x"`
	Y       float64 `mapstructure:"y" yaml:"y"`
	Texture string  `mapstructure:"texture" yaml:"texture,omitempty"`
	// Frames names sprite textures cycled every FrameMS milliseconds.
	Frames  []string `mapstructure:"frames" yaml:"frames,omitempty"`
	FrameMS int      `mapstructure:"frame_ms" yaml:"frame_ms,omitempty"`
	Scale   float64  `mapstructure:"scale" yaml:"scale,omitempty"`
	Anchor  string   `mapstructure:"anchor" yaml:"anchor,omitempty"`
}

// Map is read from File (a palette PNG) when set, otherwise from Rows.
type Map struct {
	File string   `mapstructure:"file" yaml:"file,omitempty"`
	Rows []string `mapstructure:"rows" yaml:"rows,omitempty"`
}

var (
	Backends = []string{"ebiten", "terminal", "sdl"}
	Anchors  = []string{"", "bottom", "center", "top"}
)

var defaultRows = []string{
	"1111111111",
	"1000000001",
	"1020000301",
	"1000000001",
	"1000000001",
	"1000004401",
	"1000000001",
	"1030000201",
	"1000000001",
	"1111111111",
}

func defaultTextures() []Texture {
	return []Texture{
		{Name: "stone", Color: "#8c8c8c"},
		{Name: "brick", Color: "#b04a2e"},
		{Name: "moss", Color: "#3f7f3f"},
		{Name: "metal", Color: "#6a7a8a"},
	}
}

func defaultSpriteTextures() []Texture {
	return []Texture{
		{Name: "lamp", Color: "#ffd24a"},
		{Name: "barrel", Color: "#8b5a2b"},
	}
}

func defaultSprites() []Sprite {
	return []Sprite{
		{X: 6.5, Y: 3.5, Texture: "lamp", Scale: 0.4, Anchor: "center"},
		{X: 2.5, Y: 5.5, Texture: "barrel", Scale: 0.6},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{Title: "badtracing", Width: 700, Height: 700, FPS: 60, Backend: "ebiten"},
		Camera: Camera{
			X:           4,
			Y:           4,
			RayFineness: 100,
			Fog:         Fog{Distance: 6, Color: Color(0x202020)},
		},
		Movement: Movement{Speed: 0.04, LookSense: 0.02, Control: "camera"},
		Render: Render{
			ShadowCoefficient: 2.5,
			FloorColor:        Color(0x0000ff),
			SkyColor:          Color(0x141428),
			HUD:               true,
			Minimap:           true,
			Workers:           1,
		},
		Assets: Assets{
			Textures:       defaultTextures(),
			SpriteTextures: defaultSpriteTextures(),
			Sprites:        defaultSprites(),
		},
		Map: Map{Rows: append([]string(nil), defaultRows...)},
	}
}

// fillLists restores list defaults, which viper cannot merge element-wise.
func (c *Config) fillLists() {
	if len(c.Assets.Textures) == 0 {
		c.Assets.Textures = defaultTextures()
	}
	if len(c.Assets.SpriteTextures) == 0 && len(c.Assets.Sprites) == 0 {
		c.Assets.SpriteTextures = defaultSpriteTextures()
		c.Assets.Sprites = defaultSprites()
	}
	if c.Map.File == "" && len(c.Map.Rows) == 0 {
		c.Map.Rows = append([]string(nil), defaultRows...)
	}
}

// ControlTarget parses Movement.Control. It returns -1 for the camera.
func (c Config) ControlTarget() (int, error) {
	switch s := c.Movement.Control; {
	case s == "" || s == "camera":
		return -1, nil
	case strings.HasPrefix(s, "sprite:"):
		i, err := strconv.Atoi(strings.TrimPrefix(s, "sprite:"))
		if err != nil || i < 0 || i >= len(c.Assets.Sprites) {
			return 0, fmt.Errorf("movement.control %q: no such sprite", s)
		}
		return i, nil
	}
	return 0, fmt.Errorf("movement.control %q: want camera or sprite:<index>", c.Movement.Control)
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPS <= 0 {
		errs = append(errs, fmt.Errorf("window.fps %d must be positive", c.Window.FPS))
	}
	if !slices.Contains(Backends, c.Window.Backend) {
		errs = append(errs, fmt.Errorf("window.backend %q: want one of %v", c.Window.Backend, Backends))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("render.workers %d must not be negative", c.Render.Workers))
	}
	if c.Camera.Fog.Enabled && c.Camera.Fog.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera.fog.distance %v must be positive", c.Camera.Fog.Distance))
	}
	if _, err := c.ControlTarget(); err != nil {
		errs = append(errs, err)
	}

	for _, list := range [][]Texture{c.Assets.Textures, c.Assets.SpriteTextures} {
		for _, t := range list {
			if t.Path == "" && t.Color == "" {
				errs = append(errs, fmt.Errorf("texture %q needs a path or a colour", t.Name))
			}
			if t.Color != "" {
				if _, err := ParseColor(t.Color); err != nil {
					errs = append(errs, fmt.Errorf("texture %q: %w", t.Name, err))
				}
			}
		}
	}

	names := make(map[string]bool, len(c.Assets.SpriteTextures))
	for _, t := range c.Assets.SpriteTextures {
		names[t.Name] = true
	}
	for i, s := range c.Assets.Sprites {
		for _, name := range append([]string{s.Texture}, s.Frames...) {
			if name != "" && !names[name] {
				errs = append(errs, fmt.Errorf("sprite %d: unknown sprite texture %q", i, name))
			}
		}
		if s.Texture == "" && len(s.Frames) == 0 {
			errs = append(errs, fmt.Errorf("sprite %d has no texture", i))
		}
		if !slices.Contains(Anchors, s.Anchor) {
			errs = append(errs, fmt.Errorf("sprite %d: anchor %q: want bottom, center or top", i, s.Anchor))
		}
	}

	return errors.Join(errs...)
}

// YAML renders c in the format Load reads.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
