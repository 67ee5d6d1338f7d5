package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/user/spectrometer_go/internal/analysis"
)

// CSVHeader is the first line of every exported spectrum.
var CSVHeader = []string{"wavelength", "amplitude"}

// WriteSpectrumCSV writes one line per sample in scan order, the wavelength as
// its plain decimal key and the amplitude to three decimals.
func WriteSpectrumCSV(w io.Writer, spectrum analysis.Spectrum) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range spectrum.Samples {
		if err := cw.Write([]string{s.Key(), fmt.Sprintf("%.3f", s.Amplitude)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveSpectrumCSV writes the spectrum to path.
func SaveSpectrumCSV(path string, spectrum analysis.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteSpectrumCSV(f, spectrum); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV data: %w", err)
	}
	return f.Close()
}
