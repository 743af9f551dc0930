//go:build sdl

package main

import (
	"badtracing/canvas"
	"badtracing/canvas/sdlwin"
	"badtracing/config"
)

func init() {
	backends["sdl"] = func(cfg config.Config) (canvas.Window, error) {
		return sdlwin.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	}
}
