package tracking

import (
	"image"
	"image/color"

	"github.com/ayusman/handpong/internal/detector"
	"gocv.io/x/gocv"
)

var (
	boneColor  = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	jointColor = color.RGBA{R: 255, G: 48, B: 48, A: 255}
)

// DrawHands draws a skeleton for every hand on img. Landmarks are
// normalized, so they are scaled to the image size first.
func DrawHands(img *gocv.Mat, hands []detector.HandLandmarks) {
	w, h := img.Cols(), img.Rows()
	if w == 0 || h == 0 {
		return
	}

	for i := range hands {
		var pts [detector.NumLandmarks]image.Point
		for j, p := range hands[i].Points {
			pts[j] = image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
		}

		for _, conn := range detector.HandConnections {
			gocv.Line(img, pts[conn[0]], pts[conn[1]], boneColor, 2)
		}
		for _, pt := range pts {
			gocv.Circle(img, pt, 4, jointColor, -1)
		}
	}
}
