package analysis

import (
	"math"

	"github.com/user/spectrometer_go/internal/frame"
)

// ScanOptions describe the optical calibration of the instrument.
type ScanOptions struct {
	// Tilt is the angle of the spectral line across the sensor, in radians
	Tilt float64
	// Dispersion is nanometres per pixel of horizontal displacement from the aperture
	Dispersion float64

	MinWavelength float64
	MaxWavelength float64
	// EnforceMaxWavelength drops columns past MaxWavelength. Without it only
	// the lower bound applies.
	EnforceMaxWavelength bool

	Efficiency EfficiencyModel
}

// DefaultScanOptions are calibrated for a 1000 lines/mm grating at 1296x972.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Tilt:                 0.03,
		Dispersion:           0.892,
		MinWavelength:        380,
		MaxWavelength:        1000,
		EnforceMaxWavelength: true,
		Efficiency:           DefaultEfficiencyModel(),
	}
}

func (o ScanOptions) inBand(wl float64) bool {
	if wl < o.MinWavelength {
		return false
	}
	return !o.EnforceMaxWavelength || wl <= o.MaxWavelength
}

// WeightedBrightness is r+b+2g, the per-pixel quantity the scan integrates.
// Green counts twice to follow the sensor's Bayer layout.
func WeightedBrightness(r, g, b uint8) float64 {
	return float64(int(r) + int(b) + 2*int(g))
}

// ScanSpectrum integrates the tilted band Y±HalfHeight at every column from
// 7/8 of the way to the aperture back to the left edge, so samples come out in
// order of increasing wavelength. The aperture's own neighbourhood is left out;
// the unscattered spot would swamp everything else.
//
// clipped counts in-band columns whose band lay entirely outside the frame.
// They produce no sample.
func ScanSpectrum(grid *frame.PixelGrid, geom ApertureGeometry, opts ScanOptions) (spec Spectrum, clipped int, err error) {
	const op = "scan spectrum"
	switch {
	case !(opts.Dispersion > 0) || math.IsInf(opts.Dispersion, 0):
		return Spectrum{}, 0, inputErrorf(op, "dispersion must be positive, got %v", opts.Dispersion)
	case math.IsNaN(geom.X) || geom.X < 0 || geom.X >= float64(grid.Width()):
		return Spectrum{}, 0, inputErrorf(op, "aperture column %v outside frame width %d", geom.X, grid.Width())
	case math.IsNaN(geom.Y) || geom.Y < 0 || geom.Y >= float64(grid.Height()):
		return Spectrum{}, 0, inputErrorf(op, "aperture row %v outside frame height %d", geom.Y, grid.Height())
	case !(geom.HalfHeight >= 0):
		return Spectrum{}, 0, inputErrorf(op, "aperture half height %v is negative", geom.HalfHeight)
	}

	h := geom.HalfHeight
	last := int(math.Floor(geom.X * 7 / 8))
	spec.Samples = make([]SpectralSample, 0, last+1)

	for x := last; x >= 0; x-- {
		wl := (geom.X - float64(x)) * opts.Dispersion
		if !opts.inBand(wl) {
			continue
		}
		eff := opts.Efficiency.Factor(wl)
		y0 := geom.ScanCenter(float64(x), opts.Tilt)

		sum, rows := 0.0, 0.0
		for y := int(y0 - h); y < int(y0+h); y++ {
			if !grid.Contains(x, y) {
				continue
			}
			q := WeightedBrightness(grid.RGB(x, y))
			// soft edges keep light from the neighbouring orders out
			if float64(y) < y0-h+2 || float64(y) > y0+h-3 {
				q *= 0.5
			}
			sum += q
			rows++
		}
		if rows == 0 {
			clipped++
			continue
		}
		spec.Samples = append(spec.Samples, SpectralSample{
			Wavelength: wl,
			Amplitude:  sum / rows / eff,
		})
	}
	return spec, clipped, nil
}
