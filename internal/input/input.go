// Package input defines the player input events delivered to game states.
package input

// Key is a logical key, independent of the windowing backend.
type Key int

const (
	// KeyPrev selects the previous camera.
	KeyPrev Key = iota
	// KeyNext selects the next camera.
	KeyNext
	// KeyRescan refreshes the camera list immediately.
	KeyRescan
)

// Event is a key press.
type Event struct {
	Key Key
}
