package app

import (
	"time"

	"github.com/ayusman/handpong/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxDeltaMs caps the simulated time per frame, so a stall such as a
// window drag does not teleport the ball through the paddle.
const maxDeltaMs = 100

var keyBindings = map[ebiten.Key]input.Key{
	ebiten.KeyLeft:  input.KeyPrev,
	ebiten.KeyUp:    input.KeyPrev,
	ebiten.KeyRight: input.KeyNext,
	ebiten.KeyDown:  input.KeyNext,
	ebiten.KeyR:     input.KeyRescan,
}

// keyOrder fixes the order events are delivered in within one frame.
var keyOrder = []ebiten.Key{ebiten.KeyLeft, ebiten.KeyUp, ebiten.KeyRight, ebiten.KeyDown, ebiten.KeyR}

// window adapts the game machine to ebiten.Game.
type window struct {
	app  *App
	last time.Time
}

func newWindow(a *App) *window {
	return &window{app: a}
}

func (w *window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := time.Now()
	delta := 0.0
	if !w.last.IsZero() {
		delta = clampDelta(float64(now.Sub(w.last).Microseconds()) / 1000)
	}
	w.last = now

	w.app.machine.Update(pressedKeys(inpututil.IsKeyJustPressed), delta)
	return nil
}

// Draw renders the frame, then hands the next camera frame to tracking.
func (w *window) Draw(screen *ebiten.Image) {
	w.app.surface.SetTarget(screen)
	w.app.machine.Draw(w.app.surface)
	w.app.machine.AfterDraw(w.app.nowMs())
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.app.config.ScreenWidth, w.app.config.ScreenHeight
}

// pressedKeys translates this frame's key presses into input events.
func pressedKeys(justPressed func(ebiten.Key) bool) []input.Event {
	var events []input.Event
	for _, k := range keyOrder {
		if justPressed(k) {
			events = append(events, input.Event{Key: keyBindings[k]})
		}
	}
	return events
}

func clampDelta(ms float64) float64 {
	if ms < 0 {
		return 0
	}
	if ms > maxDeltaMs {
		return maxDeltaMs
	}
	return ms
}
