package analysis

import (
	"image"
	"image/color"

	"github.com/user/spectrometer_go/internal/frame"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func gray(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v, A: 255} }

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// crossFrame is a 200x100 frame with a white cross centred on (150, 50): a
// horizontal bar over columns 140..160 and a vertical bar over rows 40..60.
func crossFrame(background color.RGBA) *frame.PixelGrid {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	fillRect(img, 0, 0, 199, 99, background)
	fillRect(img, 140, 48, 160, 52, white)
	fillRect(img, 148, 40, 152, 60, white)
	return frame.NewPixelGrid(img)
}

type sliceLine []int

func (s sliceLine) Len() int             { return len(s) }
func (s sliceLine) Brightness(i int) int { return s[i] }
