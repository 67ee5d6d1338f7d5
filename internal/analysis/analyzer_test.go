package analysis

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/spectrometer_go/internal/frame"
)

// spectrumFrame is a 640x480 frame with the aperture at (560, 240) and a dim
// spectral band with one bright line at column 300.
func spectrumFrame() *frame.PixelGrid {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	fillRect(img, 0, 0, 639, 479, gray(0))
	fillRect(img, 555, 225, 565, 255, white)
	fillRect(img, 0, 220, 500, 260, gray(50))
	fillRect(img, 300, 220, 300, 260, gray(200))
	return frame.NewPixelGrid(img)
}

func TestAnalyzeFrame(t *testing.T) {
	opts := DefaultOptions()
	opts.Scan.Tilt = 0
	opts.Scan.Dispersion = 2.0

	res, err := AnalyzeFrame(spectrumFrame(), opts)
	require.NoError(t, err)

	assert.Equal(t, 560.0, res.Aperture.X)
	assert.Equal(t, 240.0, res.Aperture.Y)
	assert.InDelta(t, 13.5, res.Aperture.HalfHeight, 1e-9)
	assert.Empty(t, res.AnalysisErrors)

	// columns 370 (380 nm) down to 60 (1000 nm)
	require.Equal(t, 311, res.Raw.Len())
	require.Equal(t, res.Raw.Len(), res.Normalized.Len())

	peak := res.Normalized.Samples[res.PeakIndex]
	assert.Equal(t, 520.0, peak.Wavelength)
	assert.Equal(t, 1.0, peak.Amplitude)

	for i, s := range res.Normalized.Samples {
		assert.Equal(t, res.Raw.Samples[i].Wavelength, s.Wavelength)
		assert.LessOrEqual(t, s.Amplitude, 1.0)
	}

	assert.Equal(t, res.PeakRaw()/FullScale, res.Exposure.Fraction)
	assert.Equal(t, ExposureDecrease, res.Exposure.Advice)
}

func TestAnalyzeFrameErrors(t *testing.T) {
	t.Run("dark frame", func(t *testing.T) {
		dark := frame.NewPixelGrid(image.NewRGBA(image.Rect(0, 0, 64, 48)))
		_, err := AnalyzeFrame(dark, DefaultOptions())
		assert.ErrorIs(t, err, ErrApertureNotFound)
		assert.Contains(t, err.Error(), "check the illumination and the camera focus")
	})

	t.Run("no light in the band", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Scan.Dispersion = 1
		opts.Scan.MinWavelength = 0
		_, err := AnalyzeFrame(crossFrame(gray(0)), opts)
		assert.ErrorIs(t, err, ErrDegenerateSpectrum)
	})

	t.Run("nothing in range", func(t *testing.T) {
		// 150 px at 0.892 nm/px never reaches 380 nm
		_, err := AnalyzeFrame(crossFrame(gray(40)), DefaultOptions())
		assert.ErrorIs(t, err, ErrDegenerateSpectrum)
	})

	t.Run("nil frame", func(t *testing.T) {
		_, err := AnalyzeFrame(nil, DefaultOptions())
		var inErr *InputError
		assert.ErrorAs(t, err, &inErr)
	})
}

func TestAnalyzeFrameReportsClippedColumns(t *testing.T) {
	opts := DefaultOptions()
	opts.Scan.Tilt = 0.5
	opts.Scan.Dispersion = 2.0

	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	fillRect(img, 0, 0, 639, 479, gray(50))
	fillRect(img, 555, 225, 565, 255, white)

	res, err := AnalyzeFrame(frame.NewPixelGrid(img), opts)
	require.NoError(t, err)
	assert.Len(t, res.AnalysisErrors, 1)
	assert.Contains(t, res.AnalysisErrors[0], "outside the frame")
}
