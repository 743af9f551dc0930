package canvas

import (
	"errors"

	"badtracing/engine"
)

// Headless is a window without a display. It runs a fixed number of
// frames, takes key state from a script and keeps the last frame shown.
type Headless struct {
	// Frames is how many steps Run performs.
	Frames int
	// Script, when set, is called before each step with the frame number.
	Script func(frame int, h *Headless)
	// PresentErr, when set, is returned by every Present.
	PresentErr error

	Presented int
	Last      []engine.Color
	FPS       int

	held [KeyCount]bool
}

func NewHeadless(frames int) *Headless {
	return &Headless{Frames: frames}
}

func (h *Headless) Press(k Key)   { h.held[k] = true }
func (h *Headless) Release(k Key) { h.held[k] = false }

func (h *Headless) Run(step func() error) error {
	for i := 0; i < h.Frames; i++ {
		if h.Script != nil {
			h.Script(i, h)
		}
		if err := step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (h *Headless) Present(frame []engine.Color, width, height int) error {
	if h.PresentErr != nil {
		return h.PresentErr
	}
	h.Last = append(h.Last[:0], frame[:width*height]...)
	h.Presented++
	return nil
}

func (h *Headless) IsKeyDown(k Key) bool {
	return k >= 0 && k < KeyCount && h.held[k]
}

func (h *Headless) SetTargetFrameRate(fps int) { h.FPS = fps }
