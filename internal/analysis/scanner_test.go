package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(t *testing.T, s Spectrum, wl float64) SpectralSample {
	t.Helper()
	for _, smp := range s.Samples {
		if math.Abs(smp.Wavelength-wl) < 1e-9 {
			return smp
		}
	}
	t.Fatalf("no sample at %v nm", wl)
	return SpectralSample{}
}

func TestScanSpectrumCrossFrame(t *testing.T) {
	grid := crossFrame(gray(0))
	geom, err := LocateAperture(grid, DefaultApertureOptions())
	require.NoError(t, err)

	opts := DefaultScanOptions()
	opts.Tilt = 0
	opts.Dispersion = 1.0
	opts.MinWavelength = 0

	spec, clipped, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	assert.Zero(t, clipped)

	// columns 131 down to 0
	require.Equal(t, 132, spec.Len())
	assert.Equal(t, 19.0, spec.Samples[0].Wavelength)
	assert.Equal(t, 150.0, spec.Samples[131].Wavelength)
	for i := 1; i < spec.Len(); i++ {
		assert.Greater(t, spec.Samples[i].Wavelength, spec.Samples[i-1].Wavelength)
	}
}

func TestScanSpectrumEfficiencyCorrection(t *testing.T) {
	grid := crossFrame(gray(40))
	geom, err := LocateAperture(grid, DefaultApertureOptions())
	require.NoError(t, err)

	opts := DefaultScanOptions()
	opts.Tilt = 0
	opts.Dispersion = 5.0

	spec, _, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	// 380 nm is column 74, the left edge is 750 nm
	require.Equal(t, 75, spec.Len())
	assert.Equal(t, 380.0, spec.Samples[0].Wavelength)

	// 18 rows of q=160, the outer two on each side at half weight
	mean := (14*160.0 + 4*80.0) / 18

	at500 := sampleAt(t, spec, 500)
	at700 := sampleAt(t, spec, 700)
	assert.InDelta(t, mean/opts.Efficiency.Factor(500), at500.Amplitude, 1e-9)
	assert.InDelta(t, mean/opts.Efficiency.Factor(700), at700.Amplitude, 1e-9)
	assert.Greater(t, at700.Amplitude, at500.Amplitude)
}

func TestScanSpectrumWavelengthBand(t *testing.T) {
	grid := crossFrame(gray(40))
	geom := ApertureGeometry{X: 150, Y: 50, HalfHeight: 9}

	opts := DefaultScanOptions()
	opts.Tilt = 0
	opts.Dispersion = 10

	bounded, _, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	assert.Equal(t, 63, bounded.Len())
	for _, s := range bounded.Samples {
		assert.GreaterOrEqual(t, s.Wavelength, 380.0)
		assert.LessOrEqual(t, s.Wavelength, 1000.0)
	}

	opts.EnforceMaxWavelength = false
	open, _, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	assert.Equal(t, 113, open.Len())
	assert.Equal(t, 1500.0, open.Samples[open.Len()-1].Wavelength)
}

func TestScanSpectrumTiltLeavesFrame(t *testing.T) {
	grid := crossFrame(gray(40))
	geom := ApertureGeometry{X: 150, Y: 50, HalfHeight: 9}

	opts := DefaultScanOptions()
	opts.Tilt = math.Pi / 4
	opts.Dispersion = 1
	opts.MinWavelength = 0

	spec, clipped, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	assert.Positive(t, clipped)
	assert.Positive(t, spec.Len())
	assert.Equal(t, 132, spec.Len()+clipped)
}

func TestScanSpectrumFollowsTilt(t *testing.T) {
	geom := ApertureGeometry{X: 150, Y: 50, HalfHeight: 9}
	assert.Equal(t, 50.0, geom.ScanCenter(150, 0.3))
	assert.InDelta(t, 50+math.Tan(0.03)*100, geom.ScanCenter(50, 0.03), 1e-12)
	assert.InDelta(t, 150-500/0.892, geom.Column(500, 0.892), 1e-12)
}

func TestScanSpectrumRejectsBadInput(t *testing.T) {
	grid := crossFrame(gray(0))
	good := ApertureGeometry{X: 150, Y: 50, HalfHeight: 9}

	tests := []struct {
		name string
		geom ApertureGeometry
		disp float64
	}{
		{"zero dispersion", good, 0},
		{"negative dispersion", good, -1},
		{"NaN dispersion", good, math.NaN()},
		{"aperture past right edge", ApertureGeometry{X: 200, Y: 50, HalfHeight: 9}, 1},
		{"aperture above frame", ApertureGeometry{X: 150, Y: -1, HalfHeight: 9}, 1},
		{"negative half height", ApertureGeometry{X: 150, Y: 50, HalfHeight: -1}, 1},
		{"NaN half height", ApertureGeometry{X: 150, Y: 50, HalfHeight: math.NaN()}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultScanOptions()
			opts.Dispersion = tt.disp
			_, _, err := ScanSpectrum(grid, tt.geom, opts)
			var inErr *InputError
			assert.ErrorAs(t, err, &inErr)
		})
	}
}

func TestScanSpectrumDeterministic(t *testing.T) {
	grid := crossFrame(gray(77))
	geom := ApertureGeometry{X: 150, Y: 50, HalfHeight: 9}
	opts := DefaultScanOptions()
	opts.Dispersion = 5

	a, _, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	b, _, err := ScanSpectrum(grid, geom, opts)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("scan not reproducible (-first +second):\n%s", diff)
	}
}
