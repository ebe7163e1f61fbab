package game

import (
	"log"

	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/event"
	"github.com/ayusman/handpong/internal/input"
	"github.com/ayusman/handpong/internal/render"
)

// Mode names the active state.
type Mode int

const (
	ModeSetup Mode = iota
	ModePlaying
)

func (m Mode) String() string {
	switch m {
	case ModeSetup:
		return "setup"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Deps are the long-lived collaborators shared by every state.
type Deps struct {
	Tuning  Tuning
	Tracker Tracker
	Width   int
	Height  int
	Now     func() int64 // monotonic milliseconds
	Open    CameraOpener
	// Enumerate lists working camera indices. It runs on a background
	// goroutine.
	Enumerate func() []int
}

// Machine owns the active state and switches states on posted events.
// It is driven from a single goroutine.
type Machine struct {
	deps      Deps
	events    *event.Queue
	state     State
	mode      Mode
	listeners []func(event.Event)
}

// NewMachine creates a machine in Setup.
func NewMachine(deps Deps) *Machine {
	m := &Machine{
		deps:   deps,
		events: event.NewQueue(),
	}
	m.enter(ModeSetup)
	return m
}

// Subscribe registers fn to receive every drained event, after any
// transition it causes.
func (m *Machine) Subscribe(fn func(event.Event)) {
	m.listeners = append(m.listeners, fn)
}

// Events is the queue states post to.
func (m *Machine) Events() *event.Queue { return m.events }

// Current returns the active mode.
func (m *Machine) Current() Mode { return m.mode }

// State returns the active state.
func (m *Machine) State() State { return m.state }

// Tick runs one full frame: Update, Draw, then AfterDraw.
func (m *Machine) Tick(inputs []input.Event, deltaMs float64, nowMs int64, s render.Surface) {
	m.Update(inputs, deltaMs)
	m.Draw(s)
	m.AfterDraw(nowMs)
}

// Update drains the events posted during the previous frame, then feeds
// inputs and elapsed time to the active state.
func (m *Machine) Update(inputs []input.Event, deltaMs float64) {
	for _, ev := range m.events.Drain() {
		m.dispatch(ev)
	}
	for _, in := range inputs {
		m.state.HandleInput(in)
	}
	m.state.Update(deltaMs)
}

// Draw renders the active state.
func (m *Machine) Draw(s render.Surface) {
	m.state.Draw(s)
}

// AfterDraw hands the next camera frame to tracking. It runs after Draw so
// the slow camera read never delays the frame being presented.
func (m *Machine) AfterDraw(nowMs int64) {
	m.deps.Tracker.SubmitFrame(nowMs)
}

func (m *Machine) dispatch(ev event.Event) {
	switch {
	case ev.Type == event.StartGame && m.mode == ModeSetup:
		m.enter(ModePlaying)
	case ev.Type == event.GameOver && m.mode == ModePlaying:
		m.enter(ModeSetup)
	}
	for _, fn := range m.listeners {
		fn(ev)
	}
}

func (m *Machine) enter(mode Mode) {
	d := m.deps
	switch mode {
	case ModeSetup:
		scanner := capture.NewScanner(d.Enumerate, d.Tuning.CameraRefreshMs)
		m.state = NewSetup(d.Tuning, d.Tracker, m.events, scanner, d.Open, d.Now)
	case ModePlaying:
		m.state = NewPong(d.Tuning, d.Tracker, m.events, d.Width, d.Height)
	}
	if m.mode != mode {
		log.Printf("Entering %s", mode)
	}
	m.mode = mode
}
