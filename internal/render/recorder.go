package render

import (
	"image"
	"image/color"
)

// Op is one recorded drawing command.
type Op struct {
	Kind  string // "fill", "circle", "rect", "text", "image"
	X, Y  float64
	W, H  float64
	Text  string
	Color color.Color
}

// Recorder is a Surface that records drawing commands instead of drawing.
type Recorder struct {
	Width, Height int
	Ops           []Op
}

// NewRecorder creates a Recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Fill(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "fill", W: float64(r.Width), H: float64(r.Height), Color: c})
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "circle", X: x, Y: y, W: 2 * rad, H: 2 * rad, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) Text(s string, x, y, scale float64, c color.Color) {
	w, h := r.TextSize(s, scale)
	r.Ops = append(r.Ops, Op{Kind: "text", X: x, Y: y, W: w, H: h, Text: s, Color: c})
}

// TextSize assumes the 7x13 base font used by the window surface.
func (r *Recorder) TextSize(s string, scale float64) (float64, float64) {
	return float64(len([]rune(s))) * 7 * scale, 13 * scale
}

func (r *Recorder) Image(img image.Image, x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: "image", X: x, Y: y, W: w, H: h})
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the recorded text strings in drawing order.
func (r *Recorder) Texts() []string {
	var texts []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

// Reset clears recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
