package analysis

import (
	"fmt"

	"github.com/user/spectrometer_go/internal/frame"
)

// Options bundles the tunables of every stage.
type Options struct {
	Aperture ApertureOptions
	Scan     ScanOptions
	Exposure ExposureOptions
}

func DefaultOptions() Options {
	return Options{
		Aperture: DefaultApertureOptions(),
		Scan:     DefaultScanOptions(),
		Exposure: DefaultExposureOptions(),
	}
}

// AnalyzeFrame runs aperture location, the spectral scan and normalization on
// one frame. Any stage failing aborts the run; no partial result is returned.
func AnalyzeFrame(grid *frame.PixelGrid, opts Options) (*Result, error) {
	if grid == nil || grid.Width() == 0 || grid.Height() == 0 {
		return nil, inputErrorf("analyze frame", "empty frame")
	}

	results := NewResult(opts)

	geom, err := LocateAperture(grid, opts.Aperture)
	if err != nil {
		return nil, fmt.Errorf("locating aperture: %w", err)
	}
	results.Aperture = geom
	if geom.HalfHeight == 0 {
		results.AnalysisErrors = append(results.AnalysisErrors,
			fmt.Sprintf("Aperture at x=%.1f has zero height; the scan band is empty.", geom.X))
	}

	raw, clipped, err := ScanSpectrum(grid, geom, opts.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning spectrum: %w", err)
	}
	if clipped > 0 {
		results.AnalysisErrors = append(results.AnalysisErrors,
			fmt.Sprintf("%d columns had their scan band outside the frame and were skipped.", clipped))
	}
	results.Raw = raw

	norm, peak, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing spectrum (%d samples): %w", raw.Len(), err)
	}
	results.Normalized = norm
	results.PeakIndex = peak
	results.Exposure = AdviseExposure(results.PeakRaw(), opts.Exposure)

	return results, nil
}
