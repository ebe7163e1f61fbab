package game

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/event"
	"github.com/ayusman/handpong/internal/input"
	"github.com/ayusman/handpong/internal/render"
	"github.com/ayusman/handpong/internal/tracking"
	"gocv.io/x/gocv"
)

type setupHarness struct {
	setup   *Setup
	tracker *tracking.Context
	queue   *event.Queue
	now     int64
	opened  []int
	openErr error
}

func newSetupHarness(t *testing.T, devices []int) *setupHarness {
	t.Helper()
	h := &setupHarness{
		tracker: newTestTracker(t),
		queue:   event.NewQueue(),
	}
	open := func(id int) (tracking.FrameSource, error) {
		if h.openErr != nil {
			return nil, h.openErr
		}
		h.opened = append(h.opened, id)
		cam := capture.NewMockCamera(id, nil, false)
		if err := cam.Open(); err != nil {
			return nil, err
		}
		return cam, nil
	}
	enumerate := func() []int { return slices.Clone(devices) }
	scanner := capture.NewScanner(enumerate, DefaultTuning().CameraRefreshMs)
	h.setup = NewSetup(DefaultTuning(), h.tracker, h.queue, scanner, open, func() int64 { return h.now })
	return h
}

// scan runs ticks until the first background scan has been applied.
func (h *setupHarness) scan(t *testing.T) {
	t.Helper()
	h.setup.Update(1)
	deadline := time.Now().Add(2 * time.Second)
	for h.setup.Devices() == nil {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for camera scan")
		}
		time.Sleep(time.Millisecond)
		h.setup.Update(0)
	}
}

// tick advances the clock by deltaMs, optionally reporting a hand first.
func (h *setupHarness) tick(deltaMs float64, hand bool) {
	h.now += int64(deltaMs)
	if hand {
		h.tracker.OnDetectionResult(handAt(0.5), h.now)
	}
	h.setup.Update(deltaMs)
}

func TestSetup_StartGameOnceAfterHold(t *testing.T) {
	h := newSetupHarness(t, nil)
	tu := DefaultTuning()

	ticks := int(tu.StartHoldMs/16) + 50
	for i := 0; i < ticks; i++ {
		h.tick(16, true)
	}

	if got := countEvents(h.queue.Drain(), event.StartGame); got != 1 {
		t.Errorf("StartGame posted %d times, want 1", got)
	}

	for i := 0; i < 100; i++ {
		h.tick(16, true)
	}
	if got := countEvents(h.queue.Drain(), event.StartGame); got != 0 {
		t.Errorf("StartGame posted %d more times while still holding", got)
	}
}

func TestSetup_NoStartBeforeThreshold(t *testing.T) {
	h := newSetupHarness(t, nil)

	for h.setup.HoldMs() < DefaultTuning().StartHoldMs-16 {
		h.tick(16, true)
	}
	if h.queue.Len() != 0 {
		t.Errorf("queue has %d events before the hold threshold", h.queue.Len())
	}
}

func TestSetup_HoldProximity(t *testing.T) {
	h := newSetupHarness(t, []int{0})

	if got := h.setup.holdProximity(); got != 0 {
		t.Errorf("holdProximity() = %f before any hold, want 0", got)
	}

	h.setup.tuning.StartHoldMs = 0
	if got := h.setup.holdProximity(); math.IsNaN(got) || got != 1 {
		t.Errorf("holdProximity() with zero hold time = %f, want 1", got)
	}
	h.setup.Draw(render.NewRecorder(800, 600))
}

func TestSetup_InterruptionResetsHold(t *testing.T) {
	h := newSetupHarness(t, nil)

	for i := 0; i < 200; i++ {
		h.tick(16, true)
	}
	if h.setup.HoldMs() == 0 {
		t.Fatal("hold did not accumulate")
	}

	// A dropout inside the debounce window keeps the hold.
	h.tick(200, false)
	if h.setup.HoldMs() == 0 {
		t.Error("hold reset by a dropout shorter than the window")
	}

	// A longer dropout resets it.
	h.tick(200, false)
	if got := h.setup.HoldMs(); got != 0 {
		t.Errorf("HoldMs() = %f after dropout, want 0", got)
	}

	for i := 0; i < 200; i++ {
		h.tick(16, true)
	}
	if got := countEvents(h.queue.Drain(), event.StartGame); got != 0 {
		t.Errorf("StartGame posted %d times across an interrupted hold", got)
	}
}

func TestSetup_SelectsFirstCamera(t *testing.T) {
	h := newSetupHarness(t, []int{0, 2})
	h.scan(t)

	if !slices.Equal(h.opened, []int{0}) {
		t.Errorf("opened = %v, want [0]", h.opened)
	}
	if id, ok := h.tracker.ActiveDevice(); !ok || id != 0 {
		t.Errorf("ActiveDevice() = %d, %v, want 0, true", id, ok)
	}
}

func TestSetup_CycleCameras(t *testing.T) {
	h := newSetupHarness(t, []int{0, 2})
	h.scan(t)

	steps := []struct {
		key  input.Key
		want int
	}{
		{key: input.KeyNext, want: 2},
		{key: input.KeyNext, want: 0},
		{key: input.KeyPrev, want: 2},
	}

	for _, step := range steps {
		h.setup.HandleInput(input.Event{Key: step.key})
		if id, ok := h.tracker.ActiveDevice(); !ok || id != step.want {
			t.Errorf("after key %d: ActiveDevice() = %d, %v, want %d", step.key, id, ok, step.want)
		}
	}
}

func TestSetup_KeepsActiveCameraAcrossScans(t *testing.T) {
	h := newSetupHarness(t, []int{0, 2})
	cam := capture.NewMockCamera(2, nil, false)
	cam.Open()
	h.tracker.SetFrameSource(cam)

	h.scan(t)

	if len(h.opened) != 0 {
		t.Errorf("opened = %v, want no reopen", h.opened)
	}
	if id, ok := h.setup.Selected(); !ok || id != 2 {
		t.Errorf("Selected() = %d, %v, want 2, true", id, ok)
	}
	if cam.Closes() != 0 {
		t.Error("active camera was closed")
	}
}

func TestSetup_NoCameras(t *testing.T) {
	h := newSetupHarness(t, []int{})
	cam := capture.NewMockCamera(1, nil, false)
	cam.Open()
	h.tracker.SetFrameSource(cam)

	h.scan(t)

	if _, ok := h.setup.Selected(); ok {
		t.Error("Selected() reported a camera")
	}
	if _, ok := h.tracker.ActiveDevice(); ok {
		t.Error("frame source should be cleared")
	}
	h.setup.HandleInput(input.Event{Key: input.KeyNext})

	r := render.NewRecorder(1280, 720)
	h.setup.Draw(r)
	if !slices.Contains(r.Texts(), "> "+noCameraLabel) {
		t.Errorf("texts = %q, want %q", r.Texts(), noCameraLabel)
	}
}

func TestSetup_OpenFailure(t *testing.T) {
	h := newSetupHarness(t, []int{3})
	h.openErr = errors.New("device busy")

	h.scan(t)

	if _, ok := h.tracker.ActiveDevice(); ok {
		t.Error("frame source set despite open failure")
	}
}

func TestSetup_DrawPrompt(t *testing.T) {
	h := newSetupHarness(t, nil)
	r := render.NewRecorder(1280, 720)

	h.setup.Draw(r)
	if !slices.Contains(r.Texts(), "Hold your hand in frame to start the game.") {
		t.Errorf("texts = %q, want idle prompt", r.Texts())
	}

	h.tick(1000, true)
	r.Reset()
	h.setup.Draw(r)
	if !slices.Contains(r.Texts(), "Hold for 4.0 seconds!") {
		t.Errorf("texts = %q, want countdown", r.Texts())
	}
	if !slices.Contains(r.Texts(), "Select a Camera") {
		t.Errorf("texts = %q, want title", r.Texts())
	}
}

func TestSetup_DrawPreviewKeepsAspect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV preview test in short mode")
	}

	h := newSetupHarness(t, nil)
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()
	cam := capture.NewMockCamera(0, []*gocv.Mat{&frame}, true)
	cam.Open()
	h.tracker.SetFrameSource(cam)
	h.tracker.SubmitFrame(0)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := h.tracker.Hands(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for detection")
		}
		time.Sleep(time.Millisecond)
	}

	r := render.NewRecorder(1280, 720)
	h.setup.Draw(r)

	var found bool
	for _, op := range r.Ops {
		if op.Kind != "image" {
			continue
		}
		found = true
		if got := op.W / op.H; math.Abs(got-64.0/48.0) > 1e-6 {
			t.Errorf("preview aspect = %f, want %f", got, 64.0/48.0)
		}
		if math.Abs(op.Y+op.H/2-360) > 1e-6 {
			t.Errorf("preview not vertically centred: y=%f h=%f", op.Y, op.H)
		}
	}
	if !found {
		t.Error("preview not drawn")
	}
}

func TestFitAspect(t *testing.T) {
	tests := []struct {
		availW, availH, aspect float64
		wantW, wantH           float64
	}{
		{availW: 800, availH: 600, aspect: 4.0 / 3.0, wantW: 800, wantH: 600},
		{availW: 1000, availH: 600, aspect: 4.0 / 3.0, wantW: 800, wantH: 600},
		{availW: 400, availH: 600, aspect: 2, wantW: 400, wantH: 200},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%vx%v@%v", tt.availW, tt.availH, tt.aspect), func(t *testing.T) {
			w, h := fitAspect(tt.availW, tt.availH, tt.aspect)
			if math.Abs(w-tt.wantW) > 1e-6 || math.Abs(h-tt.wantH) > 1e-6 {
				t.Errorf("fitAspect = %f x %f, want %f x %f", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
