// Package config loads handpong settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-wide settings. Gameplay tuning lives in game.Tuning.
type Config struct {
	ScreenWidth  int `env:"HANDPONG_SCREEN_WIDTH"  envDefault:"1280"`
	ScreenHeight int `env:"HANDPONG_SCREEN_HEIGHT" envDefault:"720"`

	CameraRefreshMs int64 `env:"HANDPONG_CAMERA_REFRESH_MS" envDefault:"10000"`
	CameraFPS       int   `env:"HANDPONG_CAMERA_FPS"        envDefault:"30"`
	StartHoldMs     int64 `env:"HANDPONG_START_HOLD_MS"     envDefault:"5000"`
	HandWindowMs    int64 `env:"HANDPONG_HAND_WINDOW_MS"    envDefault:"300"`

	MediaPipeScript string  `env:"HANDPONG_MEDIAPIPE_SCRIPT"`
	Python          string  `env:"HANDPONG_PYTHON"`
	MaxHands        int     `env:"HANDPONG_MAX_HANDS"      envDefault:"2"`
	MinConfidence   float64 `env:"HANDPONG_MIN_CONFIDENCE" envDefault:"0.5"`

	Audio           bool    `env:"HANDPONG_AUDIO"              envDefault:"true"`
	MusicPath       string  `env:"HANDPONG_MUSIC_PATH"`
	MusicLoopStartS float64 `env:"HANDPONG_MUSIC_LOOP_START_S" envDefault:"6"`
	MusicLoopEndS   float64 `env:"HANDPONG_MUSIC_LOOP_END_S"   envDefault:"75"`
	MusicVolume     float64 `env:"HANDPONG_MUSIC_VOLUME"       envDefault:"0.3"`
	HitSoundPath    string  `env:"HANDPONG_HIT_SOUND_PATH"`
	BounceSoundPath string  `env:"HANDPONG_BOUNCE_SOUND_PATH"`

	PreviewAddr string `env:"HANDPONG_PREVIEW_ADDR"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.CameraRefreshMs <= 0 {
		return fmt.Errorf("camera refresh period must be positive, got %d", c.CameraRefreshMs)
	}
	if c.CameraFPS <= 0 {
		return fmt.Errorf("camera fps must be positive, got %d", c.CameraFPS)
	}
	if c.StartHoldMs <= 0 {
		return fmt.Errorf("start hold must be positive, got %d", c.StartHoldMs)
	}
	if c.HandWindowMs < 0 {
		return fmt.Errorf("hand window must not be negative, got %d", c.HandWindowMs)
	}
	if c.MusicLoopEndS <= c.MusicLoopStartS {
		return fmt.Errorf("music loop end (%vs) must be after loop start (%vs)", c.MusicLoopEndS, c.MusicLoopStartS)
	}
	return nil
}
