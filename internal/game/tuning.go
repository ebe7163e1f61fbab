package game

import "math"

// Tuning holds gameplay constants. The background and colour values were
// tuned by eye; only their qualitative relationships matter.
type Tuning struct {
	PaddleWidth  float64
	PaddleHeight float64

	BallRadius     float64
	BallStartX     float64
	BallStartY     float64
	BallStartAngle float64 // radians, screen coordinates (y down)

	BallMinSpeed float64 // px/s
	BallMaxSpeed float64 // px/s
	// AccelerationTimescale is the number of hits used as the time
	// constant of the speed-versus-hits exponential.
	AccelerationTimescale float64

	// ExitMargin is how far past the paddle side, as a fraction of the
	// arena width, the ball travels before the round ends.
	ExitMargin float64

	// Palm heights outside [TrackLow, TrackHigh] are detected unreliably,
	// so that band is stretched over the full paddle travel.
	TrackLow  float64
	TrackHigh float64

	BgMargin       float64
	BgAccentPitch  float64
	BgAccentRadius float64
	BgAccentSway   float64
	BgDecayRadii   float64 // spotlight decay length in ball radii
	BgHueRate      float64 // degrees per ms
	BgMaxLightness float64 // percent, reached at max speed

	HandWindowMs    int64
	StartHoldMs     float64
	CameraRefreshMs float64
}

// DefaultTuning returns the stock gameplay constants.
func DefaultTuning() Tuning {
	return Tuning{
		PaddleWidth:  20,
		PaddleHeight: 100,

		BallRadius:     10,
		BallStartX:     300,
		BallStartY:     200,
		BallStartAngle: -math.Pi * 0.8,

		BallMinSpeed:          150,
		BallMaxSpeed:          1000,
		AccelerationTimescale: 10,

		ExitMargin: 1.1,

		TrackLow:  0.2,
		TrackHigh: 0.8,

		BgMargin:       30,
		BgAccentPitch:  60,
		BgAccentRadius: 20,
		BgAccentSway:   15,
		BgDecayRadii:   10,
		BgHueRate:      0.01,
		BgMaxLightness: 80,

		HandWindowMs:    300,
		StartHoldMs:     5000,
		CameraRefreshMs: 10000,
	}
}

// SpeedForScore eases the ball speed from min toward max as the score
// grows: quickly for the first hits, then ever more slowly, never
// reaching max.
func (t Tuning) SpeedForScore(score int) float64 {
	span := t.BallMaxSpeed - t.BallMinSpeed
	if span <= 0 {
		return t.BallMinSpeed
	}
	speed := t.BallMinSpeed + span*(1-math.Exp(-float64(score)/t.AccelerationTimescale))
	// The exponential rounds to exactly 1 past a few hundred hits.
	return min(speed, math.Nextafter(t.BallMaxSpeed, t.BallMinSpeed))
}

// PaddleTop maps a normalized palm height to the paddle's top edge for
// an arena of the given height.
func (t Tuning) PaddleTop(palmY, arenaHeight float64) float64 {
	y := math.Max(t.TrackLow, math.Min(t.TrackHigh, palmY))
	y = (y - t.TrackLow) / (t.TrackHigh - t.TrackLow)
	return y * (arenaHeight - t.PaddleHeight)
}
