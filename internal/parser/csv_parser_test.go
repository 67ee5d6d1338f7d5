package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/report"
)

func TestReadSpectrumCSVRoundTrip(t *testing.T) {
	want := analysis.Spectrum{Samples: []analysis.SpectralSample{
		{Wavelength: 452.5, Amplitude: 0.25},
		{Wavelength: 451.608, Amplitude: 1},
		{Wavelength: 450.716, Amplitude: 0.125},
	}}
	var buf bytes.Buffer
	require.NoError(t, report.WriteSpectrumCSV(&buf, want))

	got, err := ReadSpectrumCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.ParseErrors)
	assert.Equal(t, want, got.Spectrum)
}

func TestReadSpectrumCSVSkipsBadRows(t *testing.T) {
	in := "wavelength,amplitude\n400.0,0.500\nabc,1\n410.0\n420.0,NaN\n\n430.0,1.000\n"
	got, err := ReadSpectrumCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, got.Spectrum.Len())
	assert.Equal(t, 400.0, got.Spectrum.Samples[0].Wavelength)
	assert.Equal(t, 430.0, got.Spectrum.Samples[1].Wavelength)
	require.Len(t, got.ParseErrors, 3)
	assert.Contains(t, got.ParseErrors[0], "Line 3")
	assert.Contains(t, got.ParseErrors[1], "Line 4")
	assert.Contains(t, got.ParseErrors[2], "Line 5")
}

func TestReadSpectrumCSVHeader(t *testing.T) {
	_, err := ReadSpectrumCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadSpectrumCSV(strings.NewReader("x,y\n1,2\n"))
	assert.Error(t, err)

	got, err := ReadSpectrumCSV(strings.NewReader("wavelength,amplitude\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Spectrum.Len())
	assert.Equal(t, []string{"Warning: no samples parsed."}, got.ParseErrors)
}

func TestParseSpectrumCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lamp.csv")
	require.NoError(t, os.WriteFile(path, []byte("wavelength,amplitude\n400.0,0.500\n"), 0o644))

	got, err := ParseSpectrumCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Spectrum.Len())

	_, err = ParseSpectrumCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
