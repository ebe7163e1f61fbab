package audio

import (
	"fmt"

	"github.com/gopxl/beep"
)

// regionLoop plays s from its current position to end, then repeats the
// [start, end) region forever. Each repeat fades in linearly over fade
// samples.
type regionLoop struct {
	s          beep.StreamSeeker
	start, end int
	fade       int
	fadePos    int
	err        error
}

func newRegionLoop(s beep.StreamSeeker, start, end, fade int) (*regionLoop, error) {
	if end <= 0 || end > s.Len() {
		end = s.Len()
	}
	if start < 0 || start >= end {
		return nil, fmt.Errorf("invalid loop region [%d, %d) for stream of %d samples", start, end, s.Len())
	}
	fade = max(fade, 0)
	return &regionLoop{s: s, start: start, end: end, fade: fade, fadePos: fade}, nil
}

func (l *regionLoop) Stream(samples [][2]float64) (n int, ok bool) {
	if l.err != nil {
		return 0, false
	}
	for len(samples) > 0 {
		pos := l.s.Position()
		if pos >= l.end {
			if err := l.s.Seek(l.start); err != nil {
				l.err = err
				return n, n > 0
			}
			pos = l.start
			l.fadePos = 0
		}

		want := min(len(samples), l.end-pos)
		sn, sok := l.s.Stream(samples[:want])
		l.applyFade(samples[:sn])
		n += sn
		samples = samples[sn:]

		if !sok || sn == 0 {
			if err := l.s.Err(); err != nil {
				l.err = err
				return n, n > 0
			}
			// Ended before the loop end; wrap early.
			if err := l.s.Seek(l.start); err != nil {
				l.err = err
				return n, n > 0
			}
			l.fadePos = 0
			if sn == 0 && pos == l.start {
				return n, n > 0
			}
		}
	}
	return n, true
}

func (l *regionLoop) applyFade(samples [][2]float64) {
	for i := range samples {
		if l.fadePos >= l.fade {
			return
		}
		g := float64(l.fadePos) / float64(l.fade)
		samples[i][0] *= g
		samples[i][1] *= g
		l.fadePos++
	}
}

func (l *regionLoop) Err() error { return l.err }
