package engine

import (
	"errors"
	"time"
)

// ErrFrameUnavailable means an animation has no frame at the requested
// index. Callers should draw nothing for that tick.
var ErrFrameUnavailable = errors.New("animation frame unavailable")

// Animation cycles through a list of textures at a fixed rate.
type Animation struct {
	frames        []Sampler
	current       int
	frameDuration time.Duration
	lastAdvance   time.Time
}

func NewAnimation(frameDuration time.Duration, frames ...Sampler) *Animation {
	return &Animation{
		frames:        append([]Sampler(nil), frames...),
		frameDuration: frameDuration,
	}
}

func (a *Animation) AddFrame(s Sampler) {
	a.frames = append(a.frames, s)
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) CurrentFrame() (Sampler, error) {
	if a.current >= len(a.frames) {
		return nil, ErrFrameUnavailable
	}
	return a.frames[a.current], nil
}

func (a *Animation) SetFrame(i int) error {
	if i < 0 || i >= len(a.frames) {
		return ErrFrameUnavailable
	}
	a.current = i
	return nil
}

// Advance moves to the next frame, wrapping around, once frameDuration has
// passed since the last change. The first call only starts the clock.
func (a *Animation) Advance(now time.Time) {
	if len(a.frames) < 2 || a.frameDuration <= 0 {
		return
	}
	if a.lastAdvance.IsZero() {
		a.lastAdvance = now
		return
	}
	if now.Sub(a.lastAdvance) < a.frameDuration {
		return
	}
	a.current = (a.current + 1) % len(a.frames)
	a.lastAdvance = now
}
