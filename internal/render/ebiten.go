package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var face = text.NewGoXFace(basicfont.Face7x13)

// EbitenSurface draws onto an ebiten screen image.
type EbitenSurface struct {
	screen *ebiten.Image

	// Camera previews arrive every frame at a fixed size, so the GPU image
	// is reused and only its pixels are rewritten.
	preview     *ebiten.Image
	previewSize image.Point
}

// NewEbitenSurface creates a surface. Call SetTarget each frame before drawing.
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{}
}

// SetTarget points the surface at this frame's screen.
func (s *EbitenSurface) SetTarget(screen *ebiten.Image) {
	s.screen = screen
}

func (s *EbitenSurface) Size() (int, int) {
	b := s.screen.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Fill(c color.Color) {
	s.screen.Fill(c)
}

func (s *EbitenSurface) FillCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(s.screen, float32(x), float32(y), float32(r), c, true)
}

func (s *EbitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.screen, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *EbitenSurface) Text(str string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.screen, str, face, op)
}

func (s *EbitenSurface) TextSize(str string, scale float64) (float64, float64) {
	w, h := text.Measure(str, face, face.Metrics().HLineGap+face.Metrics().HAscent+face.Metrics().HDescent)
	return w * scale, h * scale
}

func (s *EbitenSurface) Image(img image.Image, x, y, w, h float64) {
	src := s.upload(img)
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	s.screen.DrawImage(src, op)
}

func (s *EbitenSurface) upload(img image.Image) *ebiten.Image {
	size := img.Bounds().Size()
	rgba, ok := img.(*image.RGBA)
	if ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*size.X {
		if s.preview == nil || s.previewSize != size {
			if s.preview != nil {
				s.preview.Deallocate()
			}
			s.preview = ebiten.NewImage(size.X, size.Y)
			s.previewSize = size
		}
		s.preview.WritePixels(rgba.Pix)
		return s.preview
	}
	return ebiten.NewImageFromImage(img)
}
