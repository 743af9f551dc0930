//go:build sdl

// Package sdlwin shows frames through SDL2. Build with -tags sdl.
package sdlwin

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"badtracing/canvas"
	"badtracing/engine"
)

var bindings = map[canvas.Key][]sdl.Scancode{
	canvas.KeyForward:     {sdl.SCANCODE_W, sdl.SCANCODE_UP},
	canvas.KeyBackward:    {sdl.SCANCODE_S, sdl.SCANCODE_DOWN},
	canvas.KeyStrafeLeft:  {sdl.SCANCODE_A},
	canvas.KeyStrafeRight: {sdl.SCANCODE_D},
	canvas.KeyTurnLeft:    {sdl.SCANCODE_LEFT, sdl.SCANCODE_Q},
	canvas.KeyTurnRight:   {sdl.SCANCODE_RIGHT, sdl.SCANCODE_E},
	canvas.KeyQuit:        {sdl.SCANCODE_ESCAPE},
	canvas.KeyToggleHUD:   {sdl.SCANCODE_H},
}

type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int
	fps      int
	keys     []uint8
}

func New(title string, width, height int) (*Window, error) {
	if err := sdl.Init(uint32(sdl.INIT_VIDEO)); err != nil {
		return nil, fmt.Errorf("init sdl: %w", err)
	}

	win, err := sdl.CreateWindow(title, int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(width), int32(height), uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	ren, err := sdl.CreateRenderer(win, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	// RGB888 is 0x00RRGGBB per 32-bit word, the engine's colour layout
	tex, err := ren.CreateTexture(uint32(sdl.PIXELFORMAT_RGB888), int(sdl.TEXTUREACCESS_STREAMING), int32(width), int32(height))
	if err != nil {
		ren.Destroy()
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	return &Window{
		window:   win,
		renderer: ren,
		texture:  tex,
		width:    width,
		height:   height,
		fps:      60,
	}, nil
}

func (w *Window) Run(step func() error) error {
	defer w.close()

	for {
		start := time.Now()
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			if _, ok := ev.(*sdl.QuitEvent); ok {
				return nil
			}
		}
		w.keys = sdl.GetKeyboardState()

		if err := step(); err != nil {
			if errors.Is(err, canvas.ErrQuit) {
				return nil
			}
			return err
		}

		if rest := time.Second/time.Duration(w.fps) - time.Since(start); rest > 0 {
			sdl.Delay(uint32(rest / time.Millisecond))
		}
	}
}

func (w *Window) Present(frame []engine.Color, width, height int) error {
	if width != w.width || height != w.height {
		return fmt.Errorf("frame is %dx%d, window is %dx%d", width, height, w.width, w.height)
	}
	if err := w.texture.Update(nil, unsafe.Pointer(&frame[0]), width*4); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

func (w *Window) IsKeyDown(k canvas.Key) bool {
	for _, sc := range bindings[k] {
		if int(sc) < len(w.keys) && w.keys[sc] != 0 {
			return true
		}
	}
	return false
}

func (w *Window) SetTargetFrameRate(fps int) {
	if fps > 0 {
		w.fps = fps
	}
}

func (w *Window) close() {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}

var _ canvas.Window = (*Window)(nil)
