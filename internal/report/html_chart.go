package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/pkg/colorutil"
)

// visualMapSteps is how many colour stops the line gradient gets across the
// visible range.
const visualMapSteps = 40

// NewSpectrumLine builds an interactive line chart of the spectrum. Each
// segment of the line takes the colour of its wavelength.
func NewSpectrumLine(spectrum analysis.Spectrum, title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1000px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:         "value",
			Name:         "Wavelength (nm)",
			NameLocation: "middle",
			NameGap:      30,
			Min:          380,
			Max:          1000,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Relative intensity", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:      "continuous",
			Show:      opts.Bool(false),
			Dimension: "0",
			Min:       colorutil.VisibleMin,
			Max:       colorutil.VisibleMax,
			InRange:   &opts.VisualMapInRange{Color: wavelengthStops(visualMapSteps)},
		}),
	)

	data := make([]opts.LineData, 0, spectrum.Len())
	for _, s := range spectrum.Samples {
		data = append(data, opts.LineData{Value: []float64{s.Wavelength, s.Amplitude}})
	}
	line.AddSeries("amplitude", data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}

// wavelengthStops samples WavelengthToRGB across the visible range as CSS
// colours.
func wavelengthStops(n int) []string {
	stops := make([]string, n)
	for i := range stops {
		wl := colorutil.VisibleMin + (colorutil.VisibleMax-colorutil.VisibleMin)*float64(i)/float64(n-1)
		if wl >= colorutil.VisibleMax {
			wl = colorutil.VisibleMax - 1
		}
		c := colorutil.WavelengthToRGB(wl)
		stops[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return stops
}

// WriteSpectrumHTML renders the interactive chart as a standalone page.
func WriteSpectrumHTML(w io.Writer, spectrum analysis.Spectrum, title, subtitle string) error {
	if spectrum.Len() == 0 {
		return fmt.Errorf("no samples to chart")
	}
	return NewSpectrumLine(spectrum, title, subtitle).Render(w)
}

// SaveSpectrumHTML writes the interactive chart to path.
func SaveSpectrumHTML(path string, spectrum analysis.Spectrum, title, subtitle string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML chart: %w", err)
	}
	if err := WriteSpectrumHTML(f, spectrum, title, subtitle); err != nil {
		f.Close()
		return fmt.Errorf("failed to render HTML chart: %w", err)
	}
	return f.Close()
}
