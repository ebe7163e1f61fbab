package game

import (
	"fmt"
	"log"
	"math"

	"github.com/ayusman/handpong/internal/event"
	"github.com/ayusman/handpong/internal/input"
	"github.com/ayusman/handpong/internal/render"
	"github.com/google/uuid"
)

// Pong is the Playing state: one round of single-paddle pong.
type Pong struct {
	tuning  Tuning
	tracker Tracker
	events  event.Poster

	width, height float64

	ball    *Ball
	paddleY float64
	score   int
	phase   float64
	hue     float64

	roundID string
	over    bool
}

// NewPong starts a round in an arena of the given size.
func NewPong(t Tuning, tracker Tracker, events event.Poster, width, height int) *Pong {
	p := &Pong{
		tuning:  t,
		tracker: tracker,
		events:  events,
		width:   float64(width),
		height:  float64(height),
		ball:    NewBall(t.BallStartX, t.BallStartY, t.BallRadius, t.SpeedForScore(0), t.BallStartAngle),
		paddleY: (float64(height) - t.PaddleHeight) / 2,
		roundID: uuid.NewString(),
	}
	log.Printf("[round %s] started", p.roundID)
	return p
}

// HandleInput ignores input; the paddle follows the hand.
func (p *Pong) HandleInput(input.Event) {}

// Update advances the round by deltaMs.
func (p *Pong) Update(deltaMs float64) {
	hitPaddle, hitWall := p.ball.Update(deltaMs, p.arena(), p.paddle())
	if hitPaddle {
		if p.score == 0 {
			p.events.Post(event.Event{Type: event.FirstPaddleHit})
		}
		p.score++
		p.ball.Speed = p.tuning.SpeedForScore(p.score)
		p.events.Post(event.Event{Type: event.PaddleHit})
	}
	if hitWall {
		p.events.Post(event.Event{Type: event.WallBounce})
	}

	p.hue = math.Mod(p.hue+deltaMs*p.tuning.BgHueRate, 360)
	p.phase = math.Mod(p.phase+p.normalizedSpeed()*deltaMs/1000, 2*math.Pi)

	if result, ok := p.tracker.Hands(); ok && result.HandCount() > 0 {
		p.paddleY = p.tuning.PaddleTop(result.Hands[0].PalmY(), p.height)
	}

	if !p.over && p.ball.X > p.width*p.tuning.ExitMargin {
		p.over = true
		log.Printf("[round %s] over after %d hits", p.roundID, p.score)
		p.events.Post(event.Event{Type: event.GameOver})
	}
}

// Draw renders the background, score, ball and paddle.
func (p *Pong) Draw(s render.Surface) {
	s.Fill(render.HSLuv(p.hue, 100, p.speedRamp()*p.tuning.BgMaxLightness))

	for _, a := range BackgroundAccents(p.tuning, p.width, p.height, p.ball.X, p.ball.Y, p.ball.Radius, p.phase) {
		s.FillCircle(a.X, a.Y, a.R, render.Black)
	}

	label := fmt.Sprintf("%d hits", p.score)
	_, th := s.TextSize(label, 2)
	s.Text(label, p.tuning.BgMargin, p.height-p.tuning.BgMargin-th, 2, render.White)

	p.ball.Draw(s)

	paddle := p.paddle()
	s.FillRect(paddle.X, paddle.Y, paddle.W, paddle.H, render.White)
}

// Score returns the number of paddle hits this round.
func (p *Pong) Score() int { return p.score }

// Ball returns the round's ball.
func (p *Pong) Ball() *Ball { return p.ball }

// PaddleY returns the paddle's top edge.
func (p *Pong) PaddleY() float64 { return p.paddleY }

// RoundID identifies the round in logs.
func (p *Pong) RoundID() string { return p.roundID }

func (p *Pong) arena() Rect {
	return Rect{W: p.width, H: p.height}
}

func (p *Pong) paddle() Rect {
	return Rect{
		X: p.width - p.tuning.PaddleWidth,
		Y: p.paddleY,
		W: p.tuning.PaddleWidth,
		H: p.tuning.PaddleHeight,
	}
}

func (p *Pong) normalizedSpeed() float64 {
	return p.ball.Speed / p.tuning.BallMaxSpeed
}

// speedRamp is 0 at min speed and approaches 1 at max speed.
func (p *Pong) speedRamp() float64 {
	return (p.ball.Speed - p.tuning.BallMinSpeed) / (p.tuning.BallMaxSpeed - p.tuning.BallMinSpeed)
}
