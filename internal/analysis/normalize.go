package analysis

import "gonum.org/v1/gonum/floats"

// Normalize divides every amplitude by the largest one, keeping the order.
// peak is the index of the first sample holding the maximum.
func Normalize(raw Spectrum) (norm Spectrum, peak int, err error) {
	if raw.Len() == 0 {
		return Spectrum{}, -1, ErrDegenerateSpectrum
	}
	amps := raw.Amplitudes()
	peak = floats.MaxIdx(amps)
	max := amps[peak]
	if !(max > 0) {
		return Spectrum{}, -1, ErrDegenerateSpectrum
	}

	norm.Samples = make([]SpectralSample, len(raw.Samples))
	for i, s := range raw.Samples {
		norm.Samples[i] = SpectralSample{Wavelength: s.Wavelength, Amplitude: s.Amplitude / max}
	}
	return norm, peak, nil
}
