package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdviseExposure(t *testing.T) {
	tests := []struct {
		peak   float64
		advice ExposureAdvice
	}{
		{0, ExposureIncrease},
		{100, ExposureIncrease},
		{0.15 * FullScale, ExposureOK},
		{150, ExposureOK},
		{0.30 * FullScale, ExposureOK},
		{240, ExposureDecrease},
		{1200, ExposureDecrease},
	}
	for _, tt := range tests {
		e := AdviseExposure(tt.peak, DefaultExposureOptions())
		assert.Equal(t, tt.advice, e.Advice, "peak=%v", tt.peak)
		assert.InDelta(t, tt.peak/765, e.Fraction, 1e-12)
	}
}

func TestExposureAdviceString(t *testing.T) {
	assert.Equal(t, "consider increasing shutter time", ExposureIncrease.String())
	assert.Equal(t, "consider reducing shutter time", ExposureDecrease.String())
	assert.Equal(t, "exposure ok", ExposureOK.String())
}
