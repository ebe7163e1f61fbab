// Package game implements the two game states, Setup and Playing, and the
// machine that switches between them on posted events.
package game

import (
	"image"

	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/input"
	"github.com/ayusman/handpong/internal/render"
	"github.com/ayusman/handpong/internal/tracking"
)

// State is one screen of the game. The machine calls HandleInput for each
// pending input, then Update, then Draw, once per frame.
type State interface {
	HandleInput(ev input.Event)
	Update(deltaMs float64)
	Draw(s render.Surface)
}

// Tracker is the view of the tracking context the states need.
// *tracking.Context satisfies it.
type Tracker interface {
	SubmitFrame(timestampMs int64)
	HandSeenWithin(windowMs, nowMs int64) bool
	Hands() (detector.Result, bool)
	AnnotatedPreview() (image.Image, bool)
	SetFrameSource(src tracking.FrameSource)
	ActiveDevice() (int, bool)
}

// CameraOpener opens a camera by device index.
type CameraOpener func(deviceID int) (tracking.FrameSource, error)

var _ Tracker = (*tracking.Context)(nil)
