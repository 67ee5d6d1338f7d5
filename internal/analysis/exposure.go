package analysis

// FullScale is the largest possible per-pixel sum of three 8-bit channels.
const FullScale = 255 + 255 + 255

// ExposureAdvice tells the operator which way to move the shutter time.
type ExposureAdvice int

const (
	ExposureOK ExposureAdvice = iota
	ExposureIncrease
	ExposureDecrease
)

func (a ExposureAdvice) String() string {
	switch a {
	case ExposureIncrease:
		return "consider increasing shutter time"
	case ExposureDecrease:
		return "consider reducing shutter time"
	default:
		return "exposure ok"
	}
}

// ExposureOptions is the band of peak fractions considered well exposed.
type ExposureOptions struct {
	Low  float64
	High float64
}

func DefaultExposureOptions() ExposureOptions {
	return ExposureOptions{Low: 0.15, High: 0.30}
}

// Exposure is the peak raw amplitude as a fraction of FullScale.
type Exposure struct {
	Fraction float64
	Advice   ExposureAdvice
}

// AdviseExposure grades a run by its peak raw amplitude.
func AdviseExposure(peakRaw float64, opts ExposureOptions) Exposure {
	e := Exposure{Fraction: peakRaw / FullScale}
	switch {
	case e.Fraction < opts.Low:
		e.Advice = ExposureIncrease
	case e.Fraction > opts.High:
		e.Advice = ExposureDecrease
	}
	return e
}
