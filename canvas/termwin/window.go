// Package termwin draws frames in a terminal with tcell, two pixels per
// character cell using upper half blocks.
package termwin

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"badtracing/canvas"
	"badtracing/engine"
)

const (
	halfBlock = '▀'

	// DefaultHold is how long a key counts as held after its last press.
	// Terminals report presses and auto-repeats but never releases.
	DefaultHold = 150 * time.Millisecond
)

var runeBindings = map[rune]canvas.Key{
	'w': canvas.KeyForward,
	's': canvas.KeyBackward,
	'a': canvas.KeyStrafeLeft,
	'd': canvas.KeyStrafeRight,
	'q': canvas.KeyTurnLeft,
	'e': canvas.KeyTurnRight,
	'h': canvas.KeyToggleHUD,
}

var keyBindings = map[tcell.Key]canvas.Key{
	tcell.KeyUp:     canvas.KeyForward,
	tcell.KeyDown:   canvas.KeyBackward,
	tcell.KeyLeft:   canvas.KeyTurnLeft,
	tcell.KeyRight:  canvas.KeyTurnRight,
	tcell.KeyEscape: canvas.KeyQuit,
	tcell.KeyCtrlC:  canvas.KeyQuit,
}

type Window struct {
	screen tcell.Screen
	Hold   time.Duration
	now    func() time.Time

	mu      sync.Mutex
	pressed map[canvas.Key]time.Time
	fps     int

	src *image.RGBA
	dst *image.RGBA
}

// New opens the controlling terminal.
func New() (*Window, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initialises s and draws on it.
func NewWithScreen(s tcell.Screen) (*Window, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	s.HideCursor()
	s.Clear()
	return &Window{
		screen:  s,
		Hold:    DefaultHold,
		now:     time.Now,
		pressed: make(map[canvas.Key]time.Time),
		fps:     30,
	}, nil
}

func (w *Window) Run(step func() error) error {
	done := make(chan struct{})
	defer w.screen.Fini()
	defer close(done)

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := w.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(w.frameRate()))
	defer ticker.Stop()

	for {
	drain:
		for {
			select {
			case ev := <-events:
				w.HandleEvent(ev)
			default:
				break drain
			}
		}

		if err := step(); err != nil {
			if errors.Is(err, canvas.ErrQuit) {
				return nil
			}
			return err
		}
		<-ticker.C
	}
}

// HandleEvent records key presses and redraws after a resize.
func (w *Window) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k, ok := keyBindings[ev.Key()]
		if !ok && ev.Key() == tcell.KeyRune {
			r := ev.Rune()
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			k, ok = runeBindings[r]
		}
		if ok {
			w.mu.Lock()
			w.pressed[k] = w.now()
			w.mu.Unlock()
		}
	case *tcell.EventResize:
		w.screen.Sync()
	}
}

func (w *Window) IsKeyDown(k canvas.Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	at, ok := w.pressed[k]
	return ok && w.now().Sub(at) < w.Hold
}

func (w *Window) SetTargetFrameRate(fps int) {
	w.mu.Lock()
	w.fps = fps
	w.mu.Unlock()
}

func (w *Window) frameRate() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fps <= 0 {
		return 30
	}
	return w.fps
}

// Present scales the frame to the terminal, each cell showing the upper
// pixel as foreground and the lower as background.
func (w *Window) Present(frame []engine.Color, width, height int) error {
	cols, rows := w.screen.Size()
	if cols <= 0 || rows <= 0 {
		return errors.New("terminal has no cells")
	}

	if w.src == nil || w.src.Rect.Dx() != width || w.src.Rect.Dy() != height {
		w.src = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	engine.RowMajorToRGBA(frame[:width*height], w.src.Pix)

	if w.dst == nil || w.dst.Rect.Dx() != cols || w.dst.Rect.Dy() != rows*2 {
		w.dst = image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	}
	draw.NearestNeighbor.Scale(w.dst, w.dst.Rect, w.src, w.src.Rect, draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := w.dst.RGBAAt(x, y*2)
			bottom := w.dst.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			w.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	w.screen.Show()
	return nil
}

var _ canvas.Window = (*Window)(nil)
