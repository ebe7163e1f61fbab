// Package event carries game signals from state logic to the main loop.
package event

// Type identifies a game signal.
type Type int

const (
	// StartGame is posted by Setup once the player has held a hand in view long enough.
	StartGame Type = iota
	// FirstPaddleHit is posted once per round, on the first paddle hit. Starts the music.
	FirstPaddleHit
	// GameOver is posted when the ball leaves the arena.
	GameOver
	// PaddleHit is posted on every paddle hit.
	PaddleHit
	// WallBounce is posted on every wall collision.
	WallBounce
)

func (t Type) String() string {
	switch t {
	case StartGame:
		return "start_game"
	case FirstPaddleHit:
		return "first_paddle_hit"
	case GameOver:
		return "game_over"
	case PaddleHit:
		return "paddle_hit"
	case WallBounce:
		return "wall_bounce"
	default:
		return "unknown"
	}
}

// Event is a single posted signal.
type Event struct {
	Type Type
}

// Poster accepts events. States post through it without knowing who drains them.
type Poster interface {
	Post(Event)
}
