// main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"badtracing/canvas"
	"badtracing/canvas/ebitenwin"
	"badtracing/canvas/termwin"
	"badtracing/config"
	"badtracing/game"
)

// openWindow creates the presentation backend for cfg.Window.Backend.
type openWindow func(cfg config.Config) (canvas.Window, error)

var backends = map[string]openWindow{
	"ebiten": func(cfg config.Config) (canvas.Window, error) {
		return ebitenwin.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height), nil
	},
	"terminal": func(cfg config.Config) (canvas.Window, error) {
		// the terminal is the display, so logs go to a file
		logPath := filepath.Join(os.TempDir(), "badtracing.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		log.SetOutput(f)
		return termwin.New()
	},
}

func main() {
	flags := pflag.NewFlagSet("badtracing", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "configuration file (default ./badtracing.yaml if present)")
	dump := flags.Bool("dump-config", false, "print the effective configuration as YAML and exit")
	flags.StringP("backend", "b", "ebiten", "presentation backend: ebiten, terminal or sdl")
	flags.Int("width", 700, "frame width in pixels")
	flags.Int("height", 700, "frame height in pixels")
	flags.Int("fps", 60, "target frame rate")
	flags.StringP("map", "m", "", "level image; the built-in map is used when empty")
	flags.String("skybox", "", "panorama image for the sky")
	flags.Bool("fog", false, "hide everything beyond camera.fog.distance")
	flags.String("control", "camera", "what the movement keys drive: camera or sprite:<index>")
	_ = flags.Parse(os.Args[1:])

	src, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := src.Config()

	if *dump {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatalf("dump config: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	open, ok := backends[cfg.Window.Backend]
	if !ok {
		log.Fatalf("backend %q is not built in", cfg.Window.Backend)
	}

	world, err := game.Build(cfg)
	if err != nil {
		log.Fatalf("build world: %v", err)
	}

	win, err := open(cfg)
	if err != nil {
		log.Fatalf("open %s window: %v", cfg.Window.Backend, err)
	}

	g, err := game.New(cfg, world, canvas.New(cfg.Window.Width, cfg.Window.Height, win))
	if err != nil {
		log.Fatalf("start: %v", err)
	}

	if src.File() != "" {
		reload := make(chan config.Config, 1)
		src.Watch(reload)
		g.Watch(reload)
		log.Printf("watching %s", src.File())
	}

	if err := g.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
