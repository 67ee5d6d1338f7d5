package report

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/spectrometer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Keys of the images BuildPDFReport knows how to place.
const (
	ImageOverlay = "overlay"
	ImageChart   = "chart"
	ImageHeatmap = "heatmap"
)

// RunInfo describes one acquisition for the report header.
type RunInfo struct {
	ID            string
	Name          string
	ShutterMicros int64
	Source        string // camera binary or input file
	Captured      time.Time
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // tracked by hand for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["warning"] = func() {
		s.pdf.SetFont("Arial", "B", 10)
		s.pdf.SetTextColor(200, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable draws a header row and data rows; widths are fractions of the
// content width. cellStyle may be nil.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, cellStyle func(row, col int) string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	header := func() {
		sX := pdfMargin
		s.applyStyle("tableHeader")
		for i, h := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			sX += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			header()
		}
		sX := pdfMargin
		for c, cell := range row {
			style := "tableCell"
			if cellStyle != nil {
				style = cellStyle(r, c)
			}
			s.applyStyle(style)
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

// sampleEvery picks, for each multiple of step within the spectrum, the sample
// closest to it. Order follows the spectrum.
func sampleEvery(spectrum analysis.Spectrum, step float64) []int {
	best := make(map[float64]int)
	var order []float64
	for i, s := range spectrum.Samples {
		target := math.Round(s.Wavelength/step) * step
		j, ok := best[target]
		if !ok {
			order = append(order, target)
			best[target] = i
			continue
		}
		if math.Abs(s.Wavelength-target) < math.Abs(spectrum.Samples[j].Wavelength-target) {
			best[target] = i
		}
	}
	idx := make([]int, len(order))
	for i, t := range order {
		idx[i] = best[t]
	}
	return idx
}

func describeNotches(m analysis.EfficiencyModel) string {
	var parts []string
	for _, n := range m.Notches {
		if !n.Enabled {
			continue
		}
		parts = append(parts, fmt.Sprintf("%.0f+/-%.0f nm x%+.2f", n.Center, n.HalfWidth, n.Gain))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// BuildPDFReport writes the run summary, geometry, images and a sample table.
func BuildPDFReport(filepath string, run RunInfo, res *analysis.Result, images map[string][]byte) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create PDF file: %w", err)
	}
	if err := WritePDFReport(f, run, res, images); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePDFReport is BuildPDFReport to an arbitrary writer.
func WritePDFReport(w io.Writer, run RunInfo, res *analysis.Result, images map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph(fmt.Sprintf("Spectrum Report: %s", run.Name), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Run %s", run.ID), "normal", "L")
	if !run.Captured.IsZero() {
		styler.writeParagraph(fmt.Sprintf("Captured %s from %s", run.Captured.Format(time.RFC3339), run.Source), "normal", "L")
	}
	styler.writeParagraph(fmt.Sprintf("Shutter: %d us", run.ShutterMicros), "normal", "L")
	styler.addSpacer(4)

	if res == nil {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
		return pdf.Output(w)
	}

	exp := res.Options.Exposure
	styler.writeParagraph("Exposure", "h2", "L")
	styler.writeParagraph(fmt.Sprintf("Ideal exposure between %.2f and %.2f of full scale. Measured %.3f.",
		exp.Low, exp.High, res.Exposure.Fraction), "normal", "L")
	if res.Exposure.Advice == analysis.ExposureOK {
		styler.writeParagraph("Exposure ok.", "normal", "L")
	} else {
		styler.writeParagraph(fmt.Sprintf("Advice: %s.", res.Exposure.Advice), "warning", "L")
	}
	styler.addSpacer(4)

	geom := res.Aperture
	scan := res.Options.Scan
	styler.writeParagraph("Calibration and Aperture", "h2", "L")
	band := fmt.Sprintf(">= %.0f nm", scan.MinWavelength)
	if scan.EnforceMaxWavelength {
		band = fmt.Sprintf("%.0f-%.0f nm", scan.MinWavelength, scan.MaxWavelength)
	}
	geometry := [][]string{
		{"Aperture centre", fmt.Sprintf("x=%.1f px, y=%.1f px", geom.X, geom.Y)},
		{"Aperture half height", fmt.Sprintf("%.2f px", geom.HalfHeight)},
		{"Aperture peak brightness", fmt.Sprintf("%d / %d", geom.PeakBrightness, analysis.FullScale)},
		{"Tilt", fmt.Sprintf("%.4f rad", scan.Tilt)},
		{"Dispersion", fmt.Sprintf("%.4f nm/px", scan.Dispersion)},
		{"Band", band},
		{"Efficiency notches", describeNotches(scan.Efficiency)},
		{"Samples", fmt.Sprintf("%d", res.Raw.Len())},
	}
	if p := res.PeakIndex; p >= 0 && p < res.Raw.Len() {
		geometry = append(geometry, []string{"Peak",
			fmt.Sprintf("%s nm, raw %.2f", res.Raw.Samples[p].Key(), res.Raw.Samples[p].Amplitude)})
	}
	styler.writeTable([]string{"Parameter", "Value"}, []float64{0.35, 0.65}, geometry, nil)
	styler.addSpacer(4)

	if len(res.AnalysisErrors) > 0 {
		styler.writeParagraph("Warnings", "h2", "L")
		for _, msg := range res.AnalysisErrors {
			styler.writeParagraph(msg, "warning", "L")
		}
	}

	styler.newPage()
	styler.writeParagraph("Graphical Analysis", "h1", "C")
	styler.addSpacer(3)

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
		Aspect  float64 // height / width
		Width   float64
	}{
		{ImageChart, "Normalized Spectrum", "Relative intensity against wavelength", 0.5, pdfContentWidth * 0.8},
		{ImageOverlay, "Frame Overlay", "Aperture, scan band and raw amplitude drawn on the frame", 0.75, pdfContentWidth * 0.55},
		{ImageHeatmap, "Aperture Exposure", "Brightness around the aperture, coloured by exposure band", 0.8, pdfContentWidth * 0.5},
	}
	for i, pDef := range plotDefs {
		if i > 0 {
			styler.newPage()
		}
		styler.writeParagraph(pDef.Title, "h2", "L")
		if imgBytes, ok := images[pDef.Key]; ok && len(imgBytes) > 0 {
			styler.addImage(imgBytes, pDef.Key, pDef.Width, pDef.Width*pDef.Aspect, pDef.Caption, "normal")
		} else {
			log.Printf("PDF report: no %s image supplied", pDef.Key)
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", pDef.Title), "normal", "L")
		}
	}

	styler.newPage()
	styler.writeParagraph("Samples (every 10 nm)", "h2", "L")
	var rows [][]string
	var peakRows []int
	for _, i := range sampleEvery(res.Raw, 10) {
		raw := res.Raw.Samples[i]
		norm := 0.0
		if i < res.Normalized.Len() {
			norm = res.Normalized.Samples[i].Amplitude
		}
		if i == res.PeakIndex {
			peakRows = append(peakRows, len(rows))
		}
		rows = append(rows, []string{
			raw.Key(),
			fmt.Sprintf("%.3f", raw.Amplitude),
			fmt.Sprintf("%.3f", norm),
			fmt.Sprintf("%.3f", scan.Efficiency.Factor(raw.Wavelength)),
		})
	}
	styler.writeTable(
		[]string{"Wavelength (nm)", "Raw amplitude", "Normalized", "Efficiency"},
		[]float64{0.25, 0.25, 0.25, 0.25},
		rows,
		func(row, _ int) string {
			for _, p := range peakRows {
				if p == row {
					return "tableCellRed"
				}
			}
			return "tableCell"
		},
	)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
