// Package render is the boundary between game logic and the screen: states
// issue drawing commands against a Surface and nothing else.
package render

import (
	"image"
	"image/color"
)

// Surface receives drawing commands for one frame.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (width, height int)
	// Fill paints the whole surface.
	Fill(c color.Color)
	// FillCircle draws a filled circle centred at (x, y).
	FillCircle(x, y, r float64, c color.Color)
	// FillRect draws a filled axis-aligned rectangle with top-left (x, y).
	FillRect(x, y, w, h float64, c color.Color)
	// Text draws s with its top-left corner at (x, y). Scale 1 is the base font size.
	Text(s string, x, y, scale float64, c color.Color)
	// TextSize measures s at the given scale.
	TextSize(s string, scale float64) (w, h float64)
	// Image draws img scaled into the rectangle (x, y, w, h).
	Image(img image.Image, x, y, w, h float64)
}

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
)
