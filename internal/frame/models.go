package frame

import (
	"image"
	"image/color"
)

// NominalWidth and NominalHeight are the capture dimensions the calibration
// constants were measured at.
const (
	NominalWidth  = 1296
	NominalHeight = 972
)

// PixelGrid is a read-only RGB frame indexed by (column, row) with the origin at
// the top-left corner. Channels are stored packed, three bytes per pixel.
type PixelGrid struct {
	width  int
	height int
	pix    []uint8
}

// NewPixelGrid copies img into a PixelGrid. The image bounds are rebased so the
// grid always starts at (0, 0).
func NewPixelGrid(img image.Image) *PixelGrid {
	b := img.Bounds()
	g := &PixelGrid{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    make([]uint8, 3*b.Dx()*b.Dy()),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			g.pix[i] = c.R
			g.pix[i+1] = c.G
			g.pix[i+2] = c.B
			i += 3
		}
	}
	return g
}

func (g *PixelGrid) Width() int  { return g.width }
func (g *PixelGrid) Height() int { return g.height }

// Contains reports whether (x, y) addresses a pixel of the grid.
func (g *PixelGrid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// RGB returns the channel values at (x, y). The caller must stay within bounds.
func (g *PixelGrid) RGB(x, y int) (r, gr, b uint8) {
	i := 3 * (y*g.width + x)
	return g.pix[i], g.pix[i+1], g.pix[i+2]
}

// Brightness is the plain channel sum r+g+b, in [0, 765].
func (g *PixelGrid) Brightness(x, y int) int {
	r, gr, b := g.RGB(x, y)
	return int(r) + int(gr) + int(b)
}

// Image returns a fresh RGBA copy of the grid for rendering.
func (g *PixelGrid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			r, gr, b := g.RGB(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: gr, B: b, A: 255})
		}
	}
	return img
}
