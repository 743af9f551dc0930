package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BADTRACING"

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"backend": "window.backend",
	"width":   "window.width",
	"height":  "window.height",
	"fps":     "window.fps",
	"map":     "map.file",
	"skybox":  "assets.skybox",
	"fog":     "camera.fog.enabled",
	"control": "movement.control",
}

// Source is loaded configuration plus the viper instance it came from.
type Source struct {
	v   *viper.Viper
	cfg Config
}

// Load layers, lowest first: built-in defaults, the config file, BADTRACING_*
// environment variables and any flags in flags that were set. With an empty
// path, badtracing.yaml in the working directory is used if present.
func Load(path string, flags *pflag.FlagSet) (*Source, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("badtracing")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Source{v: v, cfg: cfg}, nil
}

func (s *Source) Config() Config { return s.cfg }

// File is the config file in use, or "" when running on defaults.
func (s *Source) File() string { return s.v.ConfigFileUsed() }

// Watch re-reads the config file whenever it changes and offers each valid
// result on out without blocking. Invalid edits are logged and dropped.
func (s *Source) Watch(out chan<- Config) {
	if s.File() == "" {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(s.v)
		if err != nil {
			log.Printf("config %s changed but is invalid: %v", e.Name, err)
			return
		}
		select {
		case out <- cfg:
		default:
		}
	})
	s.v.WatchConfig()
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		colorHook,
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.fillLists()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every scalar of d so that environment variables
// can override it. Lists are restored after decoding instead.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.fps", d.Window.FPS)
	v.SetDefault("window.backend", d.Window.Backend)

	v.SetDefault("camera.x", d.Camera.X)
	v.SetDefault("camera.y", d.Camera.Y)
	v.SetDefault("camera.angle", d.Camera.Angle)
	v.SetDefault("camera.focal_distance", d.Camera.FocalDistance)
	v.SetDefault("camera.viewport_size", d.Camera.ViewportSize)
	v.SetDefault("camera.ray_fineness", d.Camera.RayFineness)
	v.SetDefault("camera.fog.enabled", d.Camera.Fog.Enabled)
	v.SetDefault("camera.fog.distance", d.Camera.Fog.Distance)
	v.SetDefault("camera.fog.color", d.Camera.Fog.Color.String())

	v.SetDefault("movement.speed", d.Movement.Speed)
	v.SetDefault("movement.look_sense", d.Movement.LookSense)
	v.SetDefault("movement.control", d.Movement.Control)

	v.SetDefault("render.shadow_coefficient", d.Render.ShadowCoefficient)
	v.SetDefault("render.floor_color", d.Render.FloorColor.String())
	v.SetDefault("render.sky_color", d.Render.SkyColor.String())
	v.SetDefault("render.sort_sprites", d.Render.SortSprites)
	v.SetDefault("render.hud", d.Render.HUD)
	v.SetDefault("render.minimap", d.Render.Minimap)
	v.SetDefault("render.workers", d.Render.Workers)

	v.SetDefault("assets.skybox", d.Assets.Skybox)
	v.SetDefault("map.file", d.Map.File)
	v.SetDefault("map.rows", []string{})
}
