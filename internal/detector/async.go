package detector

import (
	"log"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Callback receives a detection result together with the timestamp of the
// frame it was computed from. It runs on the detector's goroutine.
type Callback func(result Result, timestampMs int64)

// Async runs a synchronous Detector on a background goroutine and reports
// results through a callback. At most one request is in flight at a time:
// a newer result can never be overwritten by an older, slower one.
type Async struct {
	detector Detector
	callback Callback
	busy     atomic.Bool
	wg       sync.WaitGroup
}

// NewAsync wraps d so that detections are dispatched without blocking the caller.
func NewAsync(d Detector, cb Callback) *Async {
	return &Async{
		detector: d,
		callback: cb,
	}
}

// Submit dispatches frame for analysis and returns immediately.
// The frame is cloned; the caller keeps ownership of its Mat.
// It returns false, without dispatching, while a previous request is outstanding.
func (a *Async) Submit(frame *gocv.Mat, timestampMs int64) bool {
	if frame == nil || frame.Empty() {
		return false
	}
	if !a.busy.CompareAndSwap(false, true) {
		return false
	}

	clone := frame.Clone()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.busy.Store(false)
		defer clone.Close()

		hands, err := a.detector.Detect(&clone)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			return
		}
		a.callback(Result{Hands: hands}, timestampMs)
	}()

	return true
}

// Busy reports whether a detection request is outstanding.
func (a *Async) Busy() bool {
	return a.busy.Load()
}

// Wait blocks until the outstanding request, if any, has delivered its result.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Close waits for the in-flight request and closes the underlying detector.
func (a *Async) Close() error {
	a.wg.Wait()
	return a.detector.Close()
}
