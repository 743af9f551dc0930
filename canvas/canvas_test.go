package canvas

import (
	"errors"
	"testing"

	"badtracing/engine"
)

func TestCanvasPresentsRowMajor(t *testing.T) {
	h := NewHeadless(1)
	c := New(3, 2, h)
	c.Clear(engine.PackRGB(1, 1, 1))
	c.Surface.Set(2, 1, engine.PackRGB(5, 5, 5))
	c.Depth.Claim(0, 2)

	if err := c.Run(func() error {
		c.Present()
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if h.Presented != 1 {
		t.Fatalf("presented %d frames, want 1", h.Presented)
	}
	if h.Last[1*3+2] != engine.PackRGB(5, 5, 5) || h.Last[0] != engine.PackRGB(1, 1, 1) {
		t.Errorf("frame = %v", h.Last)
	}

	c.Clear(0)
	if c.Depth[0] != c.Depth[1] {
		t.Errorf("Clear kept depth %v", c.Depth)
	}
}

func TestCanvasPresentFailureIsNotFatal(t *testing.T) {
	h := NewHeadless(5)
	h.PresentErr = errors.New("device lost")
	c := New(2, 2, h)

	steps := 0
	err := c.Run(func() error {
		steps++
		c.Present()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if steps != 5 {
		t.Errorf("ran %d steps, want 5", steps)
	}
	if c.PresentFailures() != 5 {
		t.Errorf("failures = %d, want 5", c.PresentFailures())
	}
}

func TestHeadlessRun(t *testing.T) {
	h := NewHeadless(10)
	h.Script = func(frame int, h *Headless) {
		if frame == 2 {
			h.Press(KeyQuit)
		}
	}

	steps := 0
	err := h.Run(func() error {
		steps++
		if h.IsKeyDown(KeyQuit) {
			return ErrQuit
		}
		return nil
	})
	if err != nil {
		t.Errorf("ErrQuit leaked out of Run: %v", err)
	}
	if steps != 3 {
		t.Errorf("ran %d steps, want 3", steps)
	}

	boom := errors.New("boom")
	if err := NewHeadless(3).Run(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Run err = %v, want boom", err)
	}
}

func TestKeyString(t *testing.T) {
	if KeyStrafeLeft.String() != "strafe-left" {
		t.Errorf("KeyStrafeLeft = %q", KeyStrafeLeft.String())
	}
	if Key(42).String() != "Key(42)" {
		t.Errorf("Key(42) = %q", Key(42).String())
	}
}
