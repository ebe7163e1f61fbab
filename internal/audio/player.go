// Package audio plays sound effects and music in response to game events.
// Audio is cosmetic: every failure here is logged and the game carries on.
package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/handpong/internal/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	sampleRate      = beep.SampleRate(44100)
	resampleQuality = 4
	pulseBPM        = 84
	bounceVolume    = 0.8
	loopFade        = 1500 * time.Millisecond
)

// Config selects the sound assets. Empty paths fall back to synthesized
// sounds.
type Config struct {
	Enabled         bool
	MusicPath       string
	LoopStart       time.Duration
	LoopEnd         time.Duration
	MusicVolume     float64
	HitSoundPath    string
	BounceSoundPath string
}

// sink is where finished streams are sent. The speaker in production.
type sink interface {
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerSink struct{}

func (speakerSink) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerSink) Lock()                   { speaker.Lock() }
func (speakerSink) Unlock()                 { speaker.Unlock() }

// Player reacts to game events with sound.
type Player struct {
	cfg Config

	mu     sync.Mutex
	out    sink
	hit    *beep.Buffer
	bounce *beep.Buffer
	music  *beep.Ctrl
	closer io.Closer
}

// New creates a Player. Call Init before use.
func New(cfg Config) *Player {
	return &Player{cfg: cfg}
}

// Init opens the audio device and loads the effects. It is a no-op when
// audio is disabled.
func (p *Player) Init() error {
	if !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.attach(speakerSink{})
	return nil
}

// attach loads the effects and starts sending streams to out.
func (p *Player) attach(out sink) {
	hit := p.loadEffect(p.cfg.HitSoundPath, func() beep.Streamer { return hitSound(sampleRate) })
	bounce := p.loadEffect(p.cfg.BounceSoundPath, func() beep.Streamer {
		return newVolume(bounceSound(sampleRate), bounceVolume)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = out
	p.hit = hit
	p.bounce = bounce
}

// HandleEvent plays the sound for ev. Events without a sound are ignored.
func (p *Player) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.FirstPaddleHit:
		p.StartMusic()
	case event.PaddleHit:
		p.playEffect(func() *beep.Buffer { return p.hit })
	case event.WallBounce:
		p.playEffect(func() *beep.Buffer { return p.bounce })
	case event.GameOver:
		p.StopMusic()
	}
}

// StartMusic starts the looping music unless it is already playing.
func (p *Player) StartMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.out == nil || p.music != nil {
		return
	}

	stream, closer, err := p.openMusic()
	if err != nil {
		log.Printf("Music unavailable, using generated pulse: %v", err)
		stream, closer = newPulse(sampleRate, pulseBPM), nil
	}

	p.music = &beep.Ctrl{Streamer: newVolume(stream, p.cfg.MusicVolume)}
	p.closer = closer
	p.out.Play(p.music)
}

// StopMusic stops the music if it is playing.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.music == nil {
		return
	}

	// A Ctrl without a streamer ends, which drops it from the speaker.
	p.out.Lock()
	p.music.Streamer = nil
	p.out.Unlock()
	p.music = nil

	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			log.Printf("Error closing music: %v", err)
		}
		p.closer = nil
	}
}

// MusicPlaying reports whether the music is running.
func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.music != nil
}

// Close stops playback and releases the audio device.
func (p *Player) Close() error {
	p.StopMusic()

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.out.(speakerSink); ok {
		speaker.Close()
	}
	p.out = nil
	return nil
}

func (p *Player) playEffect(pick func() *beep.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buf := pick()
	if p.out == nil || buf == nil {
		return
	}
	p.out.Play(buf.Streamer(0, buf.Len()))
}

func (p *Player) openMusic() (beep.Streamer, io.Closer, error) {
	if p.cfg.MusicPath == "" {
		return nil, nil, fmt.Errorf("no music file configured")
	}

	s, format, err := decodeFile(p.cfg.MusicPath)
	if err != nil {
		return nil, nil, err
	}

	loop, err := newRegionLoop(s, format.SampleRate.N(p.cfg.LoopStart), format.SampleRate.N(p.cfg.LoopEnd), format.SampleRate.N(loopFade))
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("loop %s: %w", p.cfg.MusicPath, err)
	}
	return beep.Resample(resampleQuality, format.SampleRate, sampleRate, loop), s, nil
}

// loadEffect decodes path into memory, or renders the synthesized
// fallback when path is empty or unreadable.
func (p *Player) loadEffect(path string, fallback func() beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})

	if path != "" {
		s, format, err := decodeFile(path)
		if err == nil {
			buf.Append(beep.Resample(resampleQuality, format.SampleRate, sampleRate, s))
			s.Close()
			return buf
		}
		log.Printf("Error loading sound %s, using generated sound: %v", path, err)
	}

	buf.Append(fallback())
	return buf
}

// decodeFile opens an mp3 or wav file by extension.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: %w", path, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, format, nil
}
