package analysis

import "math"

const (
	minEfficiency = 0.3
	maxEfficiency = 1.0
)

// Notch is a local triangular correction to the efficiency curve. Inside
// Center±HalfWidth the factor is multiplied by 1+d*Gain, where d falls linearly
// from 1 at the centre to 0 at the edges. Negative Gain cuts, positive boosts.
type Notch struct {
	Enabled   bool
	Center    float64
	HalfWidth float64
	Gain      float64
}

func (n Notch) apply(wl, eff float64) float64 {
	if !n.Enabled || n.HalfWidth <= 0 {
		return eff
	}
	dist := math.Abs(wl - n.Center)
	if dist >= n.HalfWidth {
		return eff
	}
	d := (n.HalfWidth - dist) / n.HalfWidth
	return eff * (1 + d*n.Gain)
}

// EfficiencyModel approximates the relative efficiency of a 1000 lines/mm
// grating on the camera sensor. Amplitudes are divided by Factor.
type EfficiencyModel struct {
	Notches []Notch
}

// DefaultEfficiencyModel has the yellow dip at 575 nm and the bump at 588 nm
// seen on the reference camera.
func DefaultEfficiencyModel() EfficiencyModel {
	return EfficiencyModel{Notches: []Notch{
		{Enabled: true, Center: 575, HalfWidth: 10, Gain: -0.1},
		{Enabled: true, Center: 588, HalfWidth: 10, Gain: 0.1},
	}}
}

// BaseFactor is the smooth part of the curve, falling linearly with
// wavelength and held within [0.3, 1.0].
func BaseFactor(wl float64) float64 {
	eff := (800 - (wl - 250)) / 800
	return math.Min(maxEfficiency, math.Max(minEfficiency, eff))
}

// Factor is the correction at wavelength wl in nm. Notches may take it outside
// the [0.3, 1.0] range of the base curve.
func (m EfficiencyModel) Factor(wl float64) float64 {
	eff := BaseFactor(wl)
	for _, n := range m.Notches {
		eff = n.apply(wl, eff)
	}
	return eff
}
