package capture

import (
	"log"
	"sync/atomic"
	"time"
)

// DefaultRefreshPeriodMs is how often the camera list is refreshed.
const DefaultRefreshPeriodMs = 10000

// Scanner periodically re-enumerates camera devices on a background
// goroutine. Results are handed back through a one-slot channel that the
// game loop polls; the loop never waits on a scan.
//
// The elapsed-time accumulator only resets once a scan's results are
// consumed, so a slow scan cannot cause a second, overlapping one.
type Scanner struct {
	enumerate func() []int
	periodMs  float64
	elapsedMs float64
	scanning  atomic.Bool
	results   chan []int
}

// NewScanner creates a Scanner. The first call to MaybeRescan with a
// positive delta starts a scan.
func NewScanner(enumerate func() []int, periodMs float64) *Scanner {
	if periodMs <= 0 {
		periodMs = DefaultRefreshPeriodMs
	}
	return &Scanner{
		enumerate: enumerate,
		periodMs:  periodMs,
		elapsedMs: periodMs,
		results:   make(chan []int, 1),
	}
}

// MaybeRescan advances the accumulator by deltaMs and starts one
// background scan in the tick that crosses the refresh period.
// It reports whether a scan was started.
func (s *Scanner) MaybeRescan(deltaMs float64) bool {
	crossing := s.elapsedMs <= s.periodMs && s.elapsedMs+deltaMs > s.periodMs
	s.elapsedMs += deltaMs

	if !crossing {
		return false
	}
	if !s.scanning.CompareAndSwap(false, true) {
		return false
	}

	go s.scan()
	return true
}

func (s *Scanner) scan() {
	start := time.Now()
	devices := s.enumerate()
	log.Printf("Camera scan found %d working device(s) in %s", len(devices), time.Since(start).Round(time.Millisecond))

	// Keep only the most recent result.
	select {
	case <-s.results:
	default:
	}
	s.results <- devices
	s.scanning.Store(false)
}

// TryConsume returns the devices found by the last completed scan, at
// most once per scan. It never blocks.
func (s *Scanner) TryConsume() ([]int, bool) {
	select {
	case devices := <-s.results:
		s.elapsedMs = 0
		return devices, true
	default:
		return nil, false
	}
}

// RescanNow forces a scan on the next MaybeRescan tick.
func (s *Scanner) RescanNow() {
	if !s.scanning.Load() {
		s.elapsedMs = s.periodMs
	}
}
