package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/spectrometer_go/internal/analysis"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultMatchesPipelineDefaults(t *testing.T) {
	if diff := cmp.Diff(analysis.DefaultOptions(), Default().AnalysisOptions()); diff != "" {
		t.Errorf("AnalysisOptions (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
scan:
  dispersion: 0.7683
  enforcemaxwavelength: false
aperture:
  shrinkfactor: 1.0
efficiency:
  orangebump:
    enabled: false
camera:
  warmup: 500ms
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.7683, c.Scan.Dispersion)
	assert.False(t, c.Scan.EnforceMaxWavelength)
	assert.Equal(t, 1.0, c.Aperture.ShrinkFactor)
	assert.False(t, c.Efficiency.OrangeBump.Enabled)
	assert.True(t, c.Efficiency.YellowDip.Enabled)

	// untouched keys keep their defaults
	assert.Equal(t, 380.0, c.Scan.MinWavelength)
	assert.Equal(t, 64, c.Aperture.DarkTolerance)
	assert.Equal(t, 10.0, c.Efficiency.OrangeBump.HalfWidth)

	opts := c.AnalysisOptions()
	assert.Equal(t, 0.7683, opts.Scan.Dispersion)
	assert.Equal(t, analysis.BaseFactor(588), opts.Scan.Efficiency.Factor(588))

	warm, err := c.WarmUp()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, warm)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero dispersion":  "scan:\n  dispersion: 0\n",
		"inverted band":    "scan:\n  minwavelength: 900\n  maxwavelength: 400\n",
		"threshold ratio":  "aperture:\n  thresholdratio: 1.5\n",
		"exposure band":    "exposure:\n  low: 0.5\n  high: 0.2\n",
		"bad warmup":       "camera:\n  warmup: soon\n",
		"jpeg quality":     "output:\n  jpegquality: 0\n",
		"vertical tilt":    "scan:\n  tiltradians: 1.6\n",
		"malformed yaml":   "scan: [dispersion\n",
		"negative shrink":  "aperture:\n  shrinkfactor: -0.9\n",
		"negative dropout": "aperture:\n  darktolerance: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))
	assert.Contains(t, buf.String(), "dispersion: 0.892")

	c, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestCameraConfig(t *testing.T) {
	cc, err := Default().CameraConfig(250000)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), cc.ShutterMicros)
	assert.Equal(t, 3*time.Second, cc.WarmUp)
	assert.Equal(t, 1296, cc.Width)
	assert.True(t, cc.VFlip)
}
