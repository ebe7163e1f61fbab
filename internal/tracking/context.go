// Package tracking caches the latest camera frame and hand detection result
// so the game can query hand state every frame without waiting on detection.
package tracking

import (
	"image"
	"log"
	"sync"

	"github.com/ayusman/handpong/internal/detector"
	"gocv.io/x/gocv"
)

// FrameSource is a camera as seen by the tracking context.
type FrameSource interface {
	IsOpen() bool
	ReadFrame() (*gocv.Mat, error)
	Close() error
	DeviceID() int
}

// Context owns the frame source and the asynchronous detector, and holds
// the most recent frame and detection result. The detector callback runs
// on its own goroutine; every field is guarded by mu.
type Context struct {
	mu       sync.Mutex
	source   FrameSource
	frame    *gocv.Mat
	result   *detector.Result
	lastSeen int64
	seen     bool
	async    *detector.Async
}

// New creates a Context that analyzes frames with d. The context takes
// ownership of d and closes it in Close.
func New(d detector.Detector) *Context {
	c := &Context{}
	c.async = detector.NewAsync(d, c.OnDetectionResult)
	return c
}

// SubmitFrame reads one frame from the active source, stores it and
// dispatches it for hand detection. If a detection is still outstanding
// the frame is stored but not analyzed. A failed read clears both the
// stored frame and the cached result.
func (c *Context) SubmitFrame(timestampMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil || !c.source.IsOpen() {
		return
	}

	frame, err := c.source.ReadFrame()
	if err != nil {
		c.replaceFrame(nil)
		c.result = nil
		return
	}

	c.replaceFrame(frame)
	c.async.Submit(frame, timestampMs)
}

// OnDetectionResult caches result. It is the detector callback and may be
// called from any goroutine. The last-seen time only moves when the result
// contains at least one hand.
func (c *Context) OnDetectionResult(result detector.Result, timestampMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = &result
	if result.HandCount() > 0 {
		c.lastSeen = timestampMs
		c.seen = true
	}
}

// HandSeenWithin reports whether a hand was observed no more than windowMs
// before nowMs. Use it to debounce momentary tracking dropouts.
func (c *Context) HandSeenWithin(windowMs, nowMs int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seen {
		return false
	}
	return nowMs-c.lastSeen <= windowMs
}

// Hands returns the cached detection result, if any.
func (c *Context) Hands() (detector.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return detector.Result{}, false
	}
	return *c.result, true
}

// Snapshot returns the cached result and the last time a hand was seen.
func (c *Context) Snapshot() (result detector.Result, lastSeenMs int64, seen bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil {
		result = *c.result
	}
	return result, c.lastSeen, c.seen
}

// HasFrame reports whether a frame is currently stored.
func (c *Context) HasFrame() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame != nil
}

// AnnotatedMat returns a copy of the last frame with the cached hands drawn
// on it. The caller must close the returned Mat. It returns false if there
// is no frame or no detection result.
func (c *Context) AnnotatedMat() (gocv.Mat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frame == nil || c.result == nil {
		return gocv.Mat{}, false
	}

	annotated := c.frame.Clone()
	DrawHands(&annotated, c.result.Hands)
	return annotated, true
}

// AnnotatedPreview is AnnotatedMat converted to an image for display.
func (c *Context) AnnotatedPreview() (image.Image, bool) {
	annotated, ok := c.AnnotatedMat()
	if !ok {
		return nil, false
	}
	defer annotated.Close()

	img, err := annotated.ToImage()
	if err != nil {
		log.Printf("Error converting preview frame: %v", err)
		return nil, false
	}
	return img, true
}

// SetFrameSource replaces the active camera, closing the previous one.
// Cached detection results are kept so the preview does not flicker.
func (c *Context) SetFrameSource(src FrameSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source != nil && c.source != src {
		if err := c.source.Close(); err != nil {
			log.Printf("Error closing camera %d: %v", c.source.DeviceID(), err)
		}
	}
	c.source = src
}

// ActiveDevice returns the device ID of the active frame source.
func (c *Context) ActiveDevice() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return 0, false
	}
	return c.source.DeviceID(), true
}

// Close releases the frame source, the stored frame and the detector.
func (c *Context) Close() error {
	c.SetFrameSource(nil)

	c.mu.Lock()
	c.replaceFrame(nil)
	c.mu.Unlock()

	return c.async.Close()
}

// replaceFrame must be called with mu held.
func (c *Context) replaceFrame(frame *gocv.Mat) {
	if c.frame != nil {
		c.frame.Close()
	}
	c.frame = frame
}
