package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/pkg/colorutil"
)

// ChartOptions controls the spectrum chart. The zero value is not useful; start
// from DefaultChartOptions.
type ChartOptions struct {
	Title         string
	MinWavelength float64
	MaxWavelength float64
	Width, Height vg.Length
	// Strips is the number of colour bands in the background.
	Strips int
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		MinWavelength: 380,
		MaxWavelength: 1000,
		Width:         vg.Points(600),
		Height:        vg.Points(300),
		Strips:        310,
	}
}

const chartTop = 1.05

// CreateSpectrumChart draws a normalized spectrum over a coloured background.
// Everything above the curve is masked white so the colours show through only
// underneath it.
func CreateSpectrumChart(spectrum analysis.Spectrum, opts ChartOptions) ([]byte, error) {
	if spectrum.Len() == 0 {
		return nil, fmt.Errorf("no samples to plot")
	}
	if opts.MaxWavelength <= opts.MinWavelength {
		return nil, fmt.Errorf("invalid chart range %v-%v nm", opts.MinWavelength, opts.MaxWavelength)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Wavelength (nm)"
	p.Y.Label.Text = "Relative intensity"

	p.Add(&spectralBackground{
		Min:    opts.MinWavelength,
		Max:    opts.MaxWavelength,
		Top:    chartTop,
		Strips: opts.Strips,
	})

	mask, err := plotter.NewPolygon(maskAbove(spectrum, opts.MinWavelength, opts.MaxWavelength, chartTop))
	if err != nil {
		return nil, fmt.Errorf("failed to create curve mask: %v", err)
	}
	mask.Color = colorutil.White
	mask.LineStyle.Color = colorutil.Black
	mask.LineStyle.Width = vg.Points(1)
	p.Add(mask)

	// Add extends the axes to the data, so the range is pinned afterwards.
	p.X.Min = opts.MinWavelength
	p.X.Max = opts.MaxWavelength
	p.Y.Min = 0
	p.Y.Max = chartTop
	p.X.Tick.Marker = plot.ConstantTicks(generateTicks(400, 1000, 10, 50))

	writer, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// maskAbove outlines the region between the curve and the top of the chart.
// The curve is walked from long to short wavelengths so the outline does not
// cross itself.
func maskAbove(spectrum analysis.Spectrum, lo, hi, top float64) plotter.XYs {
	samples := spectrum.Samples
	pts := make(plotter.XYs, 0, len(samples)+4)
	pts = append(pts, plotter.XY{X: hi, Y: top}, plotter.XY{X: hi, Y: 0})

	ascending := samples[0].Wavelength <= samples[len(samples)-1].Wavelength
	for i := range samples {
		s := samples[i]
		if ascending {
			s = samples[len(samples)-1-i]
		}
		pts = append(pts, plotter.XY{X: s.Wavelength, Y: s.Amplitude})
	}
	return append(pts, plotter.XY{X: lo, Y: 0}, plotter.XY{X: lo, Y: top})
}

// spectralBackground fills the plot area with the colour of each wavelength.
// Strip edges are evenly spaced in frequency.
type spectralBackground struct {
	Min, Max float64
	Top      float64
	Strips   int
}

func (b *spectralBackground) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	n := b.Strips
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		lo := colorutil.FrequencySpacedWavelength(float64(i)/float64(n), b.Min, b.Max)
		hi := colorutil.FrequencySpacedWavelength(float64(i+1)/float64(n), b.Min, b.Max)
		strip := []vg.Point{
			{X: trX(lo), Y: trY(0)},
			{X: trX(hi), Y: trY(0)},
			{X: trX(hi), Y: trY(b.Top)},
			{X: trX(lo), Y: trY(b.Top)},
		}
		var col color.Color = colorutil.WavelengthToRGB((lo + hi) / 2)
		c.FillPolygon(col, c.ClipPolygonXY(strip))
	}
}

// generateTicks returns a tick every minor step from min to max, labelled on
// multiples of major.
func generateTicks(min, max, minor, major int) []plot.Tick {
	var ticks []plot.Tick
	for v := min; v <= max; v += minor {
		label := ""
		if v%major == 0 {
			label = fmt.Sprintf("%d", v)
		}
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: label})
	}
	return ticks
}
