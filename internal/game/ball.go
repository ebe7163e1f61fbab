package game

import (
	"image/color"
	"math"

	"github.com/ayusman/handpong/internal/render"
)

// Ball is a circle moving at Speed px/s along the unit vector (DirX, DirY).
type Ball struct {
	X, Y       float64
	Radius     float64
	Speed      float64
	DirX, DirY float64
	Color      color.Color
}

// NewBall creates a ball heading along angle (radians, y down).
func NewBall(x, y, radius, speed, angle float64) *Ball {
	return &Ball{
		X:      x,
		Y:      y,
		Radius: radius,
		Speed:  speed,
		DirX:   math.Cos(angle),
		DirY:   math.Sin(angle),
		Color:  render.White,
	}
}

// Bounds returns the ball's bounding box.
func (b *Ball) Bounds() Rect {
	return Rect{X: b.X - b.Radius, Y: b.Y - b.Radius, W: 2 * b.Radius, H: 2 * b.Radius}
}

// Update advances the ball by deltaMs and resolves collisions in a fixed
// order: paddle, then top and bottom walls, then the wall opposite the
// paddle (the left edge of arena). The paddle goes first so a wall bounce
// on the same tick cannot hide a hit.
//
// After every collision the ball is moved just clear of what it hit and
// sent away from it, so it cannot stick or register the same hit twice.
func (b *Ball) Update(deltaMs float64, arena, paddle Rect) (hitPaddle, hitWall bool) {
	b.X += b.DirX * b.Speed * deltaMs / 1000
	b.Y += b.DirY * b.Speed * deltaMs / 1000

	box := b.Bounds()

	if box.Intersects(paddle) {
		// A ball travelling right came from the open side of the arena,
		// however deep it has sunk into the paddle.
		if b.DirX >= 0 {
			b.DirX = -math.Abs(b.DirX)
			b.X = paddle.Left() - b.Radius - 1
		} else {
			b.DirX = math.Abs(b.DirX)
			b.X = paddle.Right() + b.Radius + 1
		}
		hitPaddle = true
	}

	if box.Top() <= arena.Top() {
		b.DirY = math.Abs(b.DirY)
		b.Y = arena.Top() + b.Radius + 1
		hitWall = true
	}

	if box.Bottom() >= arena.Bottom() {
		b.DirY = -math.Abs(b.DirY)
		b.Y = arena.Bottom() - b.Radius - 1
		hitWall = true
	}

	if box.Left() <= arena.Left() {
		b.DirX = math.Abs(b.DirX)
		b.X = arena.Left() + b.Radius + 1
		hitWall = true
	}

	b.normalize()
	return hitPaddle, hitWall
}

func (b *Ball) normalize() {
	n := math.Hypot(b.DirX, b.DirY)
	if n == 0 || math.IsNaN(n) {
		b.DirX, b.DirY = -1, 0
		return
	}
	b.DirX /= n
	b.DirY /= n
}

// Draw renders the ball.
func (b *Ball) Draw(s render.Surface) {
	s.FillCircle(b.X, b.Y, b.Radius, b.Color)
}
