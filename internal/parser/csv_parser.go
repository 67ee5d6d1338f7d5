package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/user/spectrometer_go/internal/analysis"
)

// ParseSpectrumCSV reads a spectrum exported by the spectrometer.
func ParseSpectrumCSV(filepath string) (*ParsedSpectrum, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ReadSpectrumCSV(file)
}

// ReadSpectrumCSV parses "wavelength,amplitude" rows in file order. Rows that do
// not parse are skipped and noted in ParseErrors; a wrong header is fatal.
func ReadSpectrumCSV(r io.Reader) (*ParsedSpectrum, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	header := allRows[0]
	if len(header) < 2 || strings.TrimSpace(header[0]) != "wavelength" || strings.TrimSpace(header[1]) != "amplitude" {
		return nil, fmt.Errorf("unexpected CSV header %q, want wavelength,amplitude", strings.Join(header, ","))
	}

	parsed := NewParsedSpectrum()
	for rowIdx, row := range allRows[1:] {
		line := rowIdx + 2
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			parsed.ParseErrors = append(parsed.ParseErrors, fmt.Sprintf("Line %d: expected 2 fields, found %d. Skipped.", line, len(row)))
			continue
		}
		wl, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil || math.IsNaN(wl) {
			parsed.ParseErrors = append(parsed.ParseErrors, fmt.Sprintf("Line %d: bad wavelength %q. Skipped.", line, row[0]))
			continue
		}
		amp, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil || math.IsNaN(amp) {
			parsed.ParseErrors = append(parsed.ParseErrors, fmt.Sprintf("Line %d: bad amplitude %q. Skipped.", line, row[1]))
			continue
		}
		parsed.Spectrum.Samples = append(parsed.Spectrum.Samples, analysis.SpectralSample{Wavelength: wl, Amplitude: amp})
	}

	if parsed.Spectrum.Len() == 0 {
		parsed.ParseErrors = append(parsed.ParseErrors, "Warning: no samples parsed.")
	}
	return parsed, nil
}
