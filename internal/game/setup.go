package game

import (
	"fmt"
	"log"
	"math"

	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/event"
	"github.com/ayusman/handpong/internal/input"
	"github.com/ayusman/handpong/internal/render"
)

const (
	setupMargin = 50
	setupGap    = 10

	noCameraLabel = "No Cameras Found"
	minListWidth  = 250
)

// Setup is the camera selection screen. The game starts once a hand has
// been in view, without interruption, for Tuning.StartHoldMs.
type Setup struct {
	tuning  Tuning
	tracker Tracker
	events  event.Poster
	scanner *capture.Scanner
	open    CameraOpener
	now     func() int64

	devices  []int
	selected int // index into devices, -1 for none

	holdMs  float64
	started bool
}

// NewSetup creates the Setup state. The device list starts empty and is
// filled by the first background scan, which the scanner kicks off on the
// first Update.
func NewSetup(t Tuning, tracker Tracker, events event.Poster, scanner *capture.Scanner, open CameraOpener, now func() int64) *Setup {
	return &Setup{
		tuning:   t,
		tracker:  tracker,
		events:   events,
		scanner:  scanner,
		open:     open,
		now:      now,
		selected: -1,
	}
}

// HandleInput cycles through the camera list and forces rescans.
func (s *Setup) HandleInput(ev input.Event) {
	switch ev.Key {
	case input.KeyNext:
		s.cycle(1)
	case input.KeyPrev:
		s.cycle(-1)
	case input.KeyRescan:
		s.scanner.RescanNow()
	}
}

// Update runs the device scanner and the hold-to-start accumulator.
func (s *Setup) Update(deltaMs float64) {
	s.scanner.MaybeRescan(deltaMs)
	if devices, ok := s.scanner.TryConsume(); ok {
		s.syncDevices(devices)
	}

	if s.tracker.HandSeenWithin(s.tuning.HandWindowMs, s.now()) {
		s.holdMs += deltaMs
	} else {
		s.holdMs = 0
	}

	if s.holdMs > s.tuning.StartHoldMs && !s.started {
		s.started = true
		s.events.Post(event.Event{Type: event.StartGame})
	}
}

// holdProximity is the hold progress in [0, 1].
func (s *Setup) holdProximity() float64 {
	if s.tuning.StartHoldMs <= 0 {
		return 1
	}
	return math.Min(s.holdMs/s.tuning.StartHoldMs, 1)
}

// Draw renders the breathing background, the camera list, the prompt and
// the annotated camera preview.
func (s *Setup) Draw(surface render.Surface) {
	width, height := surface.Size()
	tSec := float64(s.now()) / 1000
	proximity := s.holdProximity()

	hue := tSec * 20
	sat := 10 + 150*proximity
	lum := 10 + 10*math.Pow(math.Sin(tSec/2), 8) + proximity*80
	surface.Fill(render.HSLuv(hue, sat, lum))

	x, y := float64(setupMargin), float64(setupMargin)
	_, th := surface.TextSize("Select a Camera", 2)
	surface.Text("Select a Camera", x, y, 2, render.White)
	y += setupGap + th

	_, th = surface.TextSize("(this list refreshes automatically)", 1.5)
	surface.Text("(this list refreshes automatically)", x, y, 1.5, render.White)
	y += th + 4*setupGap

	listWidth := float64(minListWidth)
	for i, label := range s.options() {
		prefix := "  "
		if i == s.selected || (s.selected < 0 && len(s.devices) == 0) {
			prefix = "> "
		}
		line := prefix + label
		lw, lh := surface.TextSize(line, 2)
		surface.Text(line, x, y, 2, render.White)
		listWidth = math.Max(listWidth, lw)
		y += lh + setupGap
	}
	y += setupGap
	surface.Text("left/right: switch camera   r: rescan", x, y, 1, render.White)

	prompt := "Hold your hand in frame to start the game."
	if s.holdMs > 0 {
		left := math.Max(s.tuning.StartHoldMs-s.holdMs, 0) / 1000
		prompt = fmt.Sprintf("Hold for %.1f seconds!", left)
	}
	_, th = surface.TextSize(prompt, 2)
	surface.Text(prompt, x, float64(height)-setupMargin-th, 2, render.White)

	minX := x + listWidth
	if img, ok := s.tracker.AnnotatedPreview(); ok {
		b := img.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			aspect := float64(b.Dx()) / float64(b.Dy())
			availW := float64(width) - 2*setupMargin - minX
			availH := float64(height) - 2*setupMargin
			w, h := fitAspect(availW, availH, aspect)
			if w > 0 && h > 0 {
				surface.Image(img, minX+setupMargin, (float64(height)-h)/2, w, h)
			}
		}
	}
}

// HoldMs returns how long a hand has been continuously in view.
func (s *Setup) HoldMs() float64 { return s.holdMs }

// Devices returns the last scanned list of working cameras.
func (s *Setup) Devices() []int { return s.devices }

// Selected returns the selected camera, if any.
func (s *Setup) Selected() (int, bool) {
	if s.selected < 0 || s.selected >= len(s.devices) {
		return 0, false
	}
	return s.devices[s.selected], true
}

func (s *Setup) options() []string {
	if len(s.devices) == 0 {
		return []string{noCameraLabel}
	}
	labels := make([]string, len(s.devices))
	for i, d := range s.devices {
		labels[i] = fmt.Sprintf("Camera %d", d)
	}
	return labels
}

// syncDevices adopts a fresh scan result, keeping the current camera when
// it is still listed.
func (s *Setup) syncDevices(devices []int) {
	s.devices = devices
	s.selected = -1

	if active, ok := s.tracker.ActiveDevice(); ok {
		for i, d := range devices {
			if d == active {
				s.selected = i
				return
			}
		}
	}

	if len(devices) > 0 {
		s.selected = 0
	}
	s.applySelection()
}

func (s *Setup) cycle(step int) {
	if len(s.devices) == 0 {
		return
	}
	n := len(s.devices)
	s.selected = ((s.selected+step)%n + n) % n
	s.applySelection()
}

// applySelection points the tracking context at the selected camera.
func (s *Setup) applySelection() {
	id, ok := s.Selected()
	if !ok {
		s.tracker.SetFrameSource(nil)
		return
	}
	if active, ok := s.tracker.ActiveDevice(); ok && active == id {
		return
	}

	src, err := s.open(id)
	if err != nil {
		log.Printf("Error opening camera %d: %v", id, err)
		s.tracker.SetFrameSource(nil)
		return
	}
	log.Printf("Camera %d opened", id)
	s.tracker.SetFrameSource(src)
}

// fitAspect returns the largest w x h with w/h == aspect that fits in
// availW x availH.
func fitAspect(availW, availH, aspect float64) (float64, float64) {
	if availW/aspect <= availH {
		return availW, availW / aspect
	}
	return availH * aspect, availH
}
