// Package ebitenwin shows frames in a desktop window through ebiten.
package ebitenwin

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"badtracing/canvas"
	"badtracing/engine"
)

var bindings = map[canvas.Key][]ebiten.Key{
	canvas.KeyForward:     {ebiten.KeyW, ebiten.KeyArrowUp},
	canvas.KeyBackward:    {ebiten.KeyS, ebiten.KeyArrowDown},
	canvas.KeyStrafeLeft:  {ebiten.KeyA},
	canvas.KeyStrafeRight: {ebiten.KeyD},
	canvas.KeyTurnLeft:    {ebiten.KeyArrowLeft, ebiten.KeyQ},
	canvas.KeyTurnRight:   {ebiten.KeyArrowRight, ebiten.KeyE},
	canvas.KeyQuit:        {ebiten.KeyEscape},
	canvas.KeyToggleHUD:   {ebiten.KeyH},
}

// Window implements canvas.Window and ebiten.Game. Each ebiten tick runs
// one frame step; the frame presented during it is drawn on the next Draw.
type Window struct {
	title  string
	width  int
	height int

	step  func() error
	image *ebiten.Image
	rgba  []byte
}

func New(title string, width, height int) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		rgba:   make([]byte, width*height*4),
	}
}

func (w *Window) Run(step func() error) error {
	w.step = step
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	err := w.step()
	if errors.Is(err, canvas.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(w.width, w.height)
	}
	w.image.WritePixels(w.rgba)
	screen.DrawImage(w.image, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

func (w *Window) Present(frame []engine.Color, width, height int) error {
	if width != w.width || height != w.height {
		return fmt.Errorf("frame is %dx%d, window is %dx%d", width, height, w.width, w.height)
	}
	engine.RowMajorToRGBA(frame[:width*height], w.rgba)
	return nil
}

func (w *Window) IsKeyDown(k canvas.Key) bool {
	for _, key := range bindings[k] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

func (w *Window) SetTargetFrameRate(fps int) {
	ebiten.SetTPS(fps)
}

var _ canvas.Window = (*Window)(nil)
