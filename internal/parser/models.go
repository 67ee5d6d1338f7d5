package parser

import "github.com/user/spectrometer_go/internal/analysis"

// ParsedSpectrum is a spectrum read back from an exported CSV file.
type ParsedSpectrum struct {
	Spectrum    analysis.Spectrum
	ParseErrors []string // rows that were skipped, and why
}

func NewParsedSpectrum() *ParsedSpectrum {
	return &ParsedSpectrum{
		Spectrum:    analysis.Spectrum{Samples: make([]analysis.SpectralSample, 0)},
		ParseErrors: make([]string, 0),
	}
}
