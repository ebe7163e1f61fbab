// Package app wires the camera, tracking, game, audio and preview server
// together and runs the game window.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handpong/internal/audio"
	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/config"
	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/game"
	"github.com/ayusman/handpong/internal/render"
	"github.com/ayusman/handpong/internal/server"
	"github.com/ayusman/handpong/internal/tracking"
	"github.com/hajimehoshi/ebiten/v2"
)

// App is the running game.
type App struct {
	config   config.Config
	tracking *tracking.Context
	machine  *game.Machine
	audio    *audio.Player
	surface  *render.EbitenSurface
	start    time.Time

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// New creates an App that detects hands with d. The app takes ownership
// of d.
func New(cfg config.Config, d detector.Detector) *App {
	a := &App{
		config:   cfg,
		tracking: tracking.New(d),
		audio:    audio.New(AudioConfig(cfg)),
		surface:  render.NewEbitenSurface(),
		start:    time.Now(),
		cancel:   func() {},
	}

	a.machine = game.NewMachine(game.Deps{
		Tuning:    Tuning(cfg),
		Tracker:   a.tracking,
		Width:     cfg.ScreenWidth,
		Height:    cfg.ScreenHeight,
		Now:       a.nowMs,
		Open:      a.openCamera,
		Enumerate: a.enumerateCameras,
	})
	a.machine.Subscribe(a.audio.HandleEvent)

	return a
}

// DetectorConfig maps the process config onto the detector's.
func DetectorConfig(cfg config.Config) detector.Config {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.MaxHands
	dc.MinConfidence = cfg.MinConfidence
	dc.ScriptPath = cfg.MediaPipeScript
	dc.PythonPath = cfg.Python
	return dc
}

// AudioConfig maps the process config onto the audio player's.
func AudioConfig(cfg config.Config) audio.Config {
	return audio.Config{
		Enabled:         cfg.Audio,
		MusicPath:       cfg.MusicPath,
		LoopStart:       seconds(cfg.MusicLoopStartS),
		LoopEnd:         seconds(cfg.MusicLoopEndS),
		MusicVolume:     cfg.MusicVolume,
		HitSoundPath:    cfg.HitSoundPath,
		BounceSoundPath: cfg.BounceSoundPath,
	}
}

// Tuning returns the default gameplay tuning with the configured timings.
func Tuning(cfg config.Config) game.Tuning {
	t := game.DefaultTuning()
	t.StartHoldMs = float64(cfg.StartHoldMs)
	t.HandWindowMs = cfg.HandWindowMs
	t.CameraRefreshMs = float64(cfg.CameraRefreshMs)
	return t
}

// Machine returns the game state machine.
func (a *App) Machine() *game.Machine {
	return a.machine
}

// Tracking returns the tracking context.
func (a *App) Tracking() *tracking.Context {
	return a.tracking
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	defer a.Close()

	if err := a.audio.Init(); err != nil {
		log.Printf("Audio disabled: %v", err)
	}

	if a.config.PreviewAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		srv := server.New(server.Config{Tracking: a.tracking})
		go func() {
			if err := srv.Run(ctx, a.config.PreviewAddr); err != nil {
				log.Printf("Preview server failed: %v", err)
			}
		}()
	}

	ebiten.SetWindowSize(a.config.ScreenWidth, a.config.ScreenHeight)
	ebiten.SetWindowTitle("handpong")

	log.Println("Game started")
	return ebiten.RunGame(newWindow(a))
}

// Close stops the preview server and releases the camera, detector and
// audio device. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		if err := a.tracking.Close(); err != nil {
			log.Printf("Error closing tracking: %v", err)
		}
		if err := a.audio.Close(); err != nil {
			log.Printf("Error closing audio: %v", err)
		}
		log.Println("Game stopped")
	})
}

func (a *App) nowMs() int64 {
	return time.Since(a.start).Milliseconds()
}

func (a *App) openCamera(deviceID int) (tracking.FrameSource, error) {
	return capture.OpenCamera(deviceID, a.config.CameraFPS)
}

// enumerateCameras probes camera indices for the device scanner. The
// active camera is already held open by us and may refuse a second open,
// so it is reported as working without probing.
func (a *App) enumerateCameras() []int {
	active, hasActive := a.tracking.ActiveDevice()
	return capture.EnumerateWorkingDevices(func(id int) (bool, bool) {
		if hasActive && id == active {
			return true, true
		}
		return capture.ProbeDevice(id)
	})
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
