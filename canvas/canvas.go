package canvas

import (
	"errors"
	"fmt"
	"log"

	"badtracing/engine"
)

// ErrQuit, returned from a step function, ends Run without an error.
var ErrQuit = errors.New("quit")

// Key is a logical input, mapped to physical keys by each backend.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyStrafeLeft
	KeyStrafeRight
	KeyTurnLeft
	KeyTurnRight
	KeyQuit
	KeyToggleHUD
	KeyCount
)

var keyNames = [...]string{"forward", "backward", "strafe-left", "strafe-right", "turn-left", "turn-right", "quit", "toggle-hud"}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Window is a presentation backend: it runs the frame loop, shows frames
// and reports which logical keys are held.
type Window interface {
	// Run calls step once per frame until step returns an error or the
	// window is closed.
	Run(step func() error) error
	// Present shows a row-major frame of width x height pixels.
	Present(frame []engine.Color, width, height int) error
	IsKeyDown(k Key) bool
	SetTargetFrameRate(fps int)
}

// Canvas owns the frame being drawn and the window it is shown in.
type Canvas struct {
	Surface *engine.Surface
	Depth   engine.DepthBuffer

	window   Window
	frame    []engine.Color
	failures int
}

func New(width, height int, w Window) *Canvas {
	return &Canvas{
		Surface: engine.NewSurface(width, height),
		Depth:   engine.NewDepthBuffer(width),
		window:  w,
		frame:   make([]engine.Color, width*height),
	}
}

func (c *Canvas) Width() int  { return c.Surface.Width() }
func (c *Canvas) Height() int { return c.Surface.Height() }

// Clear resets the surface to background and empties the depth buffer.
func (c *Canvas) Clear(background engine.Color) {
	c.Surface.Flush(background)
	c.Depth.Reset()
}

// Present hands the surface to the window. A failed present only loses
// one frame, so it is logged (first failure, then every 60th) and dropped.
func (c *Canvas) Present() {
	c.Surface.ToScreen(c.frame)
	if err := c.window.Present(c.frame, c.Width(), c.Height()); err != nil {
		c.failures++
		if c.failures == 1 || c.failures%60 == 0 {
			log.Printf("present frame: %v (%d failures)", err, c.failures)
		}
	}
}

// PresentFailures is the number of frames the window failed to show.
func (c *Canvas) PresentFailures() int { return c.failures }

func (c *Canvas) IsKeyDown(k Key) bool { return c.window.IsKeyDown(k) }

func (c *Canvas) SetTargetFrameRate(fps int) { c.window.SetTargetFrameRate(fps) }

func (c *Canvas) Run(step func() error) error { return c.window.Run(step) }
