package render

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSLuv returns the colour for hue h in degrees and saturation s and
// lightness l in percent. HSLuv keeps perceived brightness uniform across
// hues, so a cycling hue does not pulse.
func HSLuv(h, s, l float64) color.Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = clamp(s, 0, 100)
	l = clamp(l, 0, 100)
	return colorful.HSLuv(h, s/100, l/100).Clamped()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
