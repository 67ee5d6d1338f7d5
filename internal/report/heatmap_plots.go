package report

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/frame"
)

// BoundaryColormap picks a flat colour per interval.
type BoundaryColormap struct {
	Boundaries []float64     // N+1 boundaries for N colors
	Colors     []color.Color // N colors
	UnderColor color.Color   // below the first boundary
	OverColor  color.Color   // at or above the last boundary
	NaNColor   color.Color
}

// Color returns the color for a given z value.
func (cm *BoundaryColormap) Color(z float64) color.Color {
	if math.IsNaN(z) {
		return cm.NaNColor
	}
	if z < cm.Boundaries[0] {
		return cm.UnderColor
	}
	for i := 0; i < len(cm.Colors); i++ {
		if z >= cm.Boundaries[i] && z < cm.Boundaries[i+1] {
			return cm.Colors[i]
		}
	}
	return cm.OverColor
}

// Palette samples the colormap at n evenly spaced points over [min, max] so a
// HeatMap with the same Min and Max reproduces the boundaries.
func (cm *BoundaryColormap) Palette(n int, min, max float64) palette.Palette {
	if n < 2 {
		n = 2
	}
	cols := make([]color.Color, n)
	for i := range cols {
		cols[i] = cm.Color(min + (max-min)*float64(i)/float64(n-1))
	}
	return flatPalette(cols)
}

type flatPalette []color.Color

func (p flatPalette) Colors() []color.Color { return p }

// ExposureColormap colours a brightness fraction by the exposure band it
// falls in: blue under, green inside, orange over, red near saturation.
func ExposureColormap(opts analysis.ExposureOptions) *BoundaryColormap {
	return &BoundaryColormap{
		Boundaries: []float64{0, opts.Low, opts.High, 0.95},
		Colors: []color.Color{
			color.RGBA{R: 0x1f, G: 0x3a, B: 0x93, A: 255},
			color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
			color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
		},
		UnderColor: color.Black,
		OverColor:  color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255},
		NaNColor:   color.Gray{Y: 200},
	}
}

// brightnessWindow exposes a rectangle of a frame as a plotter.GridXYZ, each
// cell being the pixel's green-weighted brightness as a fraction of full scale,
// the same scale the exposure fraction uses. The efficiency correction is left
// out, so a cell is a close but not exact match for the band it would add to.
type brightnessWindow struct {
	grid       *frame.PixelGrid
	x0, y0     int
	cols, rows int
}

func (w brightnessWindow) Dims() (c, r int) { return w.cols, w.rows }
func (w brightnessWindow) X(c int) float64  { return float64(w.x0 + c) }
func (w brightnessWindow) Y(r int) float64  { return float64(w.y0 + r) }
func (w brightnessWindow) Z(c, r int) float64 {
	return analysis.WeightedBrightness(w.grid.RGB(w.x0+c, w.y0+r)) / analysis.FullScale
}

// apertureWindow frames the aperture with some margin, clamped to the grid.
func apertureWindow(grid *frame.PixelGrid, geom analysis.ApertureGeometry) brightnessWindow {
	halfW := int(math.Max(40, 6*geom.HalfHeight))
	halfH := int(math.Max(30, 3*geom.HalfHeight))
	cx, cy := int(geom.X), int(geom.Y)

	x0, x1 := clamp(cx-halfW, 0, grid.Width()-1), clamp(cx+halfW, 0, grid.Width()-1)
	y0, y1 := clamp(cy-halfH, 0, grid.Height()-1), clamp(cy+halfH, 0, grid.Height()-1)
	return brightnessWindow{grid: grid, x0: x0, y0: y0, cols: x1 - x0 + 1, rows: y1 - y0 + 1}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CreateApertureHeatmap renders the frame around the detected aperture,
// coloured by exposure band, so the operator can see which part of the slit
// is driving the exposure advice.
func CreateApertureHeatmap(grid *frame.PixelGrid, res *analysis.Result) ([]byte, error) {
	if grid == nil || res == nil {
		return nil, fmt.Errorf("no frame to plot heatmap")
	}
	window := apertureWindow(grid, res.Aperture)
	if window.cols < 2 || window.rows < 2 {
		return nil, fmt.Errorf("aperture window %dx%d is too small to plot", window.cols, window.rows)
	}

	p := plot.New()
	p.Title.Text = "Aperture exposure (fraction of full scale)"
	p.X.Label.Text = "Column (px)"
	p.Y.Label.Text = "Row (px)"
	// image rows grow downwards
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	cm := ExposureColormap(res.Options.Exposure)
	hm := plotter.NewHeatMap(window, cm.Palette(256, 0, 1))
	hm.Min = 0
	hm.Max = 1
	hm.Underflow = cm.UnderColor
	hm.Overflow = cm.OverColor
	hm.NaN = cm.NaNColor
	p.Add(hm)

	geom := res.Aperture
	marker, err := plotter.NewLine(plotter.XYs{
		{X: geom.X, Y: geom.Y - geom.HalfHeight},
		{X: geom.X, Y: geom.Y + geom.HalfHeight},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aperture marker: %v", err)
	}
	marker.Color = color.White
	marker.LineStyle.Width = vg.Points(1.5)
	marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(marker)

	log.Printf("Aperture heatmap window: cols %d-%d, rows %d-%d",
		window.x0, window.x0+window.cols-1, window.y0, window.y0+window.rows-1)

	writer, err := p.WriterTo(vg.Points(500), vg.Points(400), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write heatmap to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
