package analysis

import (
	"math"
	"strconv"
	"strings"
)

// ApertureGeometry is the zero-order spot found on a frame. X is always right of
// the frame's horizontal midpoint. The spectral scan band is Y±HalfHeight.
type ApertureGeometry struct {
	X              float64
	Y              float64
	HalfHeight     float64
	PeakBrightness int // max r+g+b seen on the midline
}

// ScanCenter is the row the spectral line crosses at column x, given the
// tilt of the line across the sensor.
func (g ApertureGeometry) ScanCenter(x, tilt float64) float64 {
	return math.Tan(tilt)*(g.X-x) + g.Y
}

// Column is the pixel column at which wavelength wl lands.
func (g ApertureGeometry) Column(wl, dispersion float64) float64 {
	return g.X - wl/dispersion
}

// SpectralSample is one scanned column converted to wavelength (nm).
type SpectralSample struct {
	Wavelength float64
	Amplitude  float64
}

// Key is the wavelength as a plain decimal string, always with a decimal point
// ("400.0", "401.784"). It is what the CSV export writes.
func (s SpectralSample) Key() string {
	return FormatWavelength(s.Wavelength)
}

// FormatWavelength formats wl with up to 12 significant digits and keeps a
// trailing ".0" on whole numbers.
func FormatWavelength(wl float64) string {
	str := strconv.FormatFloat(wl, 'g', 12, 64)
	if !strings.ContainsAny(str, ".eEnN") {
		str += ".0"
	}
	return str
}

// Spectrum is an ordered list of samples. The order is the scan order, which is
// increasing wavelength; nothing downstream re-sorts it.
type Spectrum struct {
	Samples []SpectralSample
}

func (s Spectrum) Len() int { return len(s.Samples) }

// Amplitudes returns the amplitudes in scan order.
func (s Spectrum) Amplitudes() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Amplitude
	}
	return out
}

// Result holds everything one pipeline run produces.
type Result struct {
	Aperture   ApertureGeometry
	Raw        Spectrum
	Normalized Spectrum
	PeakIndex  int // index of the first sample with the maximum raw amplitude
	Exposure   Exposure
	Options    Options
	// AnalysisErrors are non-fatal conditions worth showing the operator.
	AnalysisErrors []string
}

// PeakRaw is the highest raw amplitude of the run.
func (r *Result) PeakRaw() float64 {
	if r.PeakIndex < 0 || r.PeakIndex >= len(r.Raw.Samples) {
		return 0
	}
	return r.Raw.Samples[r.PeakIndex].Amplitude
}

// ScanLine returns the tilted centre line from column 0 to the aperture.
func (r *Result) ScanLine() (x0, y0, x1, y1 float64) {
	return 0, r.Aperture.ScanCenter(0, r.Options.Scan.Tilt), r.Aperture.X, r.Aperture.Y
}

func NewResult(opts Options) *Result {
	return &Result{
		Options:        opts,
		PeakIndex:      -1,
		AnalysisErrors: make([]string, 0),
	}
}
