package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/frame"
	"github.com/user/spectrometer_go/pkg/colorutil"
)

// OverlayOptions controls the diagnostic overlay drawn on the captured frame.
type OverlayOptions struct {
	// GraphScale is the raw amplitude that reaches one HalfHeight above the
	// lower band edge.
	GraphScale float64
	TickFirst  int // nm
	TickLast   int // nm
	TickStep   int // nm
	TickLength float64
	// LabelOffset is the distance from the lower band edge to the top of a label.
	LabelOffset float64
	LineWidth   vg.Length
}

func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		GraphScale:  50,
		TickFirst:   400,
		TickLast:    1000,
		TickStep:    50,
		TickLength:  5,
		LabelOffset: 15,
		LineWidth:   1,
	}
}

// overlayCanvas draws in image pixel coordinates on a transparent vgimg canvas
// the size of the frame. vg has its origin bottom left, so rows are flipped.
type overlayCanvas struct {
	c      *vgimg.Canvas
	height float64
	width  vg.Length
}

func newOverlayCanvas(w, h int) *overlayCanvas {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(w), vg.Length(h)),
		vgimg.UseDPI(72), // one point per pixel
		vgimg.UseBackgroundColor(color.Transparent),
	)
	return &overlayCanvas{c: c, height: float64(h)}
}

func (o *overlayCanvas) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(o.height - y)}
}

// polyline strokes the points given as x0, y0, x1, y1, ...
func (o *overlayCanvas) polyline(col color.Color, coords ...float64) {
	if len(coords) < 4 {
		return
	}
	var path vg.Path
	path.Move(o.pt(coords[0], coords[1]))
	for i := 2; i+1 < len(coords); i += 2 {
		path.Line(o.pt(coords[i], coords[i+1]))
	}
	o.c.SetColor(col)
	o.c.SetLineWidth(o.width)
	o.c.Stroke(path)
}

// RenderOverlay draws the aperture marker, the scan band edges, the raw
// spectrum and a wavelength scale onto a copy of the frame.
func RenderOverlay(grid *frame.PixelGrid, res *analysis.Result, opts OverlayOptions) (image.Image, error) {
	if grid == nil || res == nil {
		return nil, fmt.Errorf("nothing to draw: frame or result missing")
	}
	if opts.GraphScale <= 0 || opts.TickStep <= 0 {
		return nil, fmt.Errorf("invalid overlay options: graph scale %v, tick step %d", opts.GraphScale, opts.TickStep)
	}
	geom := res.Aperture
	scan := res.Options.Scan
	hh := geom.HalfHeight

	img := grid.Image()
	oc := newOverlayCanvas(grid.Width(), grid.Height())
	oc.width = opts.LineWidth

	// aperture
	oc.polyline(colorutil.Black, geom.X, geom.Y-hh, geom.X, geom.Y+hh)

	// band edges
	_, y0, x1, y1 := res.ScanLine()
	oc.polyline(colorutil.Grey, 0, y0-hh, x1, y1-hh)
	oc.polyline(colorutil.Grey, 0, y0+hh, x1, y1+hh)

	// raw amplitudes, measured up from the lower band edge
	if res.Raw.Len() > 1 {
		coords := make([]float64, 0, 2*res.Raw.Len())
		for _, s := range res.Raw.Samples {
			x := geom.Column(s.Wavelength, scan.Dispersion)
			base := geom.ScanCenter(x, scan.Tilt) + hh
			coords = append(coords, x, base-s.Amplitude/opts.GraphScale*hh)
		}
		oc.polyline(colorutil.White, coords...)
	}

	type label struct {
		x, y float64
		text string
	}
	var labels []label
	for wl := opts.TickFirst; wl <= opts.TickLast; wl += opts.TickStep {
		x := geom.Column(float64(wl), scan.Dispersion)
		if x < 0 || x >= float64(grid.Width()) {
			continue
		}
		base := geom.ScanCenter(x, scan.Tilt) + hh
		oc.polyline(colorutil.White, x, base+opts.TickLength, x, base-opts.TickLength)
		labels = append(labels, label{x: x, y: base + opts.LabelOffset, text: fmt.Sprintf("%d", wl)})
	}

	draw.Draw(img, img.Bounds(), oc.c.Image(), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(colorutil.White), Face: face}
	ascent := face.Metrics().Ascent
	for _, l := range labels {
		d.Dot = fixed.Point26_6{X: fixed.I(int(l.x)), Y: fixed.I(int(l.y)) + ascent}
		d.DrawString(l.text)
	}
	return img, nil
}
