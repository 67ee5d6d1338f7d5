package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWavelength(t *testing.T) {
	tests := []struct {
		wl   float64
		want string
	}{
		{400, "400.0"},
		{1000, "1000.0"},
		{401.784, "401.784"},
		{437 * 0.892, "389.804"},
		{19, "19.0"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWavelength(tt.wl))
		assert.Equal(t, tt.want, SpectralSample{Wavelength: tt.wl}.Key())
	}
}

func TestResultPeakRaw(t *testing.T) {
	r := NewResult(DefaultOptions())
	assert.Zero(t, r.PeakRaw())

	r.Raw = spectrumOf(3, 9, 1)
	r.PeakIndex = 1
	assert.Equal(t, 9.0, r.PeakRaw())
}

func TestResultScanLine(t *testing.T) {
	r := NewResult(DefaultOptions())
	r.Options.Scan.Tilt = 0
	r.Aperture = ApertureGeometry{X: 800, Y: 480, HalfHeight: 20}

	x0, y0, x1, y1 := r.ScanLine()
	assert.Equal(t, []float64{0, 480, 800, 480}, []float64{x0, y0, x1, y1})
}
