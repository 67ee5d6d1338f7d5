// Package colorutil provides colour helpers for rendering spectra.
package colorutil

import "image/color"

// Visible range rendered by WavelengthToRGB, in nm.
const (
	VisibleMin = 380.0
	VisibleMax = 780.0
)

// Band edges: violet, blue, cyan, green, yellow, red.
var hueThresholds = [...]float64{380, 400, 450, 465, 520, 565, 780}

// Common chart colours.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Grey  = color.RGBA{R: 136, G: 136, B: 136, A: 255}
)

// WavelengthToRGB approximates the colour of monochromatic light at wl nm.
// Within each band one channel ramps linearly while another is held at full;
// successive bands ramp in opposite directions so the hue sweeps continuously
// from violet to red. Brightness falls off towards both ends of the visible
// range. Anything outside [380, 780) is black.
func WavelengthToRGB(wl float64) color.RGBA {
	var c [3]float64
	factor := 0.0

	for i := 0; i < len(hueThresholds)-1; i++ {
		t1, t2 := hueThresholds[i], hueThresholds[i+1]
		if wl < t1 || wl >= t2 {
			continue
		}
		if i%2 != 0 {
			t1, t2 = t2, t1
		}
		if i < 5 {
			c[i%3] = (wl - t2) / (t1 - t2)
		}
		c[2-i/2] = 1.0
		factor = 1.0
		break
	}

	switch {
	case wl >= 380 && wl < 420:
		factor = 0.2 + 0.8*(wl-380)/(420-380)
	case wl >= 600 && wl < 780:
		factor = 0.2 + 0.8*(780-wl)/(780-600)
	}

	return color.RGBA{
		R: uint8(255 * c[0] * factor),
		G: uint8(255 * c[1] * factor),
		B: uint8(255 * c[2] * factor),
		A: 255,
	}
}

// FrequencySpacedWavelength maps t in [0, 1] to a wavelength between lo and hi
// spaced evenly in frequency rather than wavelength, which gives the blue end
// of a chart background the room the eye expects.
func FrequencySpacedWavelength(t, lo, hi float64) float64 {
	f1, f2 := 1/lo, 1/hi
	return 1 / (f1 - t*(f1-f2))
}
