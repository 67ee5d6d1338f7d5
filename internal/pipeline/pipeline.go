// Package pipeline runs one acquisition end to end: analysis, every rendering
// and the files that go with it. Everything is produced in memory first so a
// failure leaves no partial output behind.
package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/astrogo/fitsio"
	"github.com/google/uuid"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/config"
	"github.com/user/spectrometer_go/internal/frame"
	"github.com/user/spectrometer_go/internal/report"
)

// NewRun stamps a new acquisition with a random id and the current time.
func NewRun(name string, shutterMicros int64, source string) report.RunInfo {
	return report.RunInfo{
		ID:            uuid.New().String(),
		Name:          name,
		ShutterMicros: shutterMicros,
		Source:        source,
		Captured:      time.Now(),
	}
}

// Outputs is everything one run produces, ready to be written.
type Outputs struct {
	Run    report.RunInfo
	Result *analysis.Result

	Raw     []byte // JPEG as captured; nil when processing an existing file
	Overlay []byte // JPEG
	CSV     []byte
	Chart   []byte // PNG
	HTML    []byte
	PDF     []byte
	FITS    []byte

	// Warnings are failures of the optional renderings.
	Warnings []string
}

// Paths maps each output to its file name under dir.
type Paths struct {
	Raw, Overlay, CSV, Chart, HTML, PDF, FITS string
}

func PathsFor(dir, name string) Paths {
	base := filepath.Join(dir, name)
	return Paths{
		Raw:     base + "_raw.jpg",
		Overlay: base + "_out.jpg",
		CSV:     base + ".csv",
		Chart:   base + "_chart.png",
		HTML:    base + "_chart.html",
		PDF:     base + ".pdf",
		FITS:    base + "_raw.fits",
	}
}

// Process analyses grid and renders every output enabled in cfg. status, if
// not nil, receives progress messages.
func Process(grid *frame.PixelGrid, run report.RunInfo, cfg config.Config, status func(string)) (*Outputs, error) {
	say := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		if status != nil {
			status(msg)
		} else {
			log.Println(msg)
		}
	}

	say("Analyzing %s...", run.Name)
	res, err := analysis.AnalyzeFrame(grid, cfg.AnalysisOptions())
	if err != nil {
		return nil, err
	}
	say("Aperture at x=%.1f y=%.1f, half height %.1f px; %d samples.",
		res.Aperture.X, res.Aperture.Y, res.Aperture.HalfHeight, res.Raw.Len())
	for _, e := range res.AnalysisErrors {
		say("- %s", e)
	}

	out := &Outputs{Run: run, Result: res}

	var csvBuf bytes.Buffer
	if err := report.WriteSpectrumCSV(&csvBuf, res.Normalized); err != nil {
		return nil, fmt.Errorf("writing CSV: %w", err)
	}
	out.CSV = csvBuf.Bytes()

	say("Rendering overlay...")
	overlay, err := report.RenderOverlay(grid, res, report.DefaultOverlayOptions())
	if err != nil {
		return nil, fmt.Errorf("rendering overlay: %w", err)
	}
	var ovBuf bytes.Buffer
	if err := jpeg.Encode(&ovBuf, overlay, &jpeg.Options{Quality: cfg.Output.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding overlay: %w", err)
	}
	out.Overlay = ovBuf.Bytes()

	say("Rendering chart...")
	chartOpts := report.DefaultChartOptions()
	chartOpts.Title = run.Name
	out.Chart, err = report.CreateSpectrumChart(res.Normalized, chartOpts)
	if err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}

	subtitle := fmt.Sprintf("exposure %.3f, %s", res.Exposure.Fraction, res.Exposure.Advice)
	if cfg.Output.HTML {
		var buf bytes.Buffer
		if err := report.WriteSpectrumHTML(&buf, res.Normalized, run.Name, subtitle); err != nil {
			out.warn(say, "interactive chart: %v", err)
		} else {
			out.HTML = buf.Bytes()
		}
	}

	if cfg.Output.PDF {
		say("Generating PDF report...")
		images := map[string][]byte{report.ImageChart: out.Chart}
		if b, err := encodePNG(overlay); err != nil {
			out.warn(say, "overlay image for PDF: %v", err)
		} else {
			images[report.ImageOverlay] = b
		}
		if b, err := report.CreateApertureHeatmap(grid, res); err != nil {
			out.warn(say, "aperture heatmap: %v", err)
		} else {
			images[report.ImageHeatmap] = b
		}
		var buf bytes.Buffer
		if err := report.WritePDFReport(&buf, run, res, images); err != nil {
			out.warn(say, "PDF report: %v", err)
		} else {
			out.PDF = buf.Bytes()
		}
	}

	if cfg.Output.FITS {
		var buf bytes.Buffer
		if err := frame.WriteBrightnessFITS(&buf, grid, fitsCards(run, res)); err != nil {
			out.warn(say, "FITS archive: %v", err)
		} else {
			out.FITS = buf.Bytes()
		}
	}
	return out, nil
}

func (o *Outputs) warn(say func(string, ...interface{}), format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	o.Warnings = append(o.Warnings, msg)
	say("Warning: %s", msg)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fitsCards(run report.RunInfo, res *analysis.Result) []fitsio.Card {
	return []fitsio.Card{
		{Name: "RUNID", Value: run.ID, Comment: "acquisition id"},
		{Name: "OBJECT", Value: run.Name},
		{Name: "DATE-OBS", Value: run.Captured.UTC().Format("2006-01-02T15:04:05"), Comment: "UTC"},
		{Name: "SHUTTER", Value: int(run.ShutterMicros), Comment: "exposure time [us]"},
		{Name: "APERTX", Value: res.Aperture.X, Comment: "aperture column [px]"},
		{Name: "APERTY", Value: res.Aperture.Y, Comment: "aperture row [px]"},
		{Name: "DISPERS", Value: res.Options.Scan.Dispersion, Comment: "[nm/px]"},
		{Name: "EXPFRAC", Value: res.Exposure.Fraction, Comment: "peak / full scale"},
	}
}

// Write stores every non-empty output under dir and returns the paths written.
func (o *Outputs) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	p := PathsFor(dir, o.Run.Name)
	files := []struct {
		path string
		data []byte
	}{
		{p.Raw, o.Raw},
		{p.Overlay, o.Overlay},
		{p.CSV, o.CSV},
		{p.Chart, o.Chart},
		{p.HTML, o.HTML},
		{p.PDF, o.PDF},
		{p.FITS, o.FITS},
	}
	var written []string
	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
