package game

import "math"

// Accent is one dot of the Playing background grid.
type Accent struct {
	X, Y, R float64
}

// BackgroundAccents lays out a hexagonal grid of dots over a width x height
// arena. Each dot sways around its grid point as phase advances and grows
// the closer it is to (ballX, ballY). It returns nil when the arena is too
// small to hold at least two rows and two columns.
func BackgroundAccents(t Tuning, width, height, ballX, ballY, ballRadius, phase float64) []Accent {
	inset := t.BgMargin + t.BgAccentRadius
	w := width - 2*inset
	h := height - 2*inset
	if w <= 0 || h <= 0 {
		return nil
	}

	cols := math.Round(w / t.BgAccentPitch)
	rows := math.Round(h / (t.BgAccentPitch * math.Cos(math.Pi/6)))
	if cols < 1 || rows < 1 {
		return nil
	}

	dx := w / cols
	dy := h / rows
	decay := t.BgDecayRadii * ballRadius

	accents := make([]Accent, 0, int((cols+1)*(rows+1)))
	for j := 0; j <= int(rows); j++ {
		for i := 0; i <= int(cols); i++ {
			x := inset + float64(i)*dx
			if j%2 == 0 {
				if i == 0 {
					continue
				}
				x -= dx / 2
			}
			y := inset + float64(j)*dy

			arg := 10*float64(i) + float64(j) + phase
			x += t.BgAccentSway * math.Cos(arg)
			y += t.BgAccentSway * math.Sin(arg)

			dist := math.Hypot(x-ballX, y-ballY)
			r := t.BgAccentRadius * (0.1 + math.Exp(-dist/decay))
			accents = append(accents, Accent{X: x, Y: y, R: r})
		}
	}
	return accents
}
