package analysis

import "github.com/user/spectrometer_go/internal/frame"

// ApertureOptions tune the zero-order spot search.
type ApertureOptions struct {
	// ThresholdRatio of the peak brightness separates the spot from its surroundings
	ThresholdRatio float64
	// DarkTolerance is the number of consecutive dark rows the vertical search steps over
	DarkTolerance int
	// ShrinkFactor scales the measured spot height down before it becomes the scan band
	ShrinkFactor float64
	// NoiseFloor is the brightest midline value still treated as no light
	NoiseFloor int
}

func DefaultApertureOptions() ApertureOptions {
	return ApertureOptions{
		ThresholdRatio: 0.9,
		DarkTolerance:  64,
		ShrinkFactor:   0.9,
		NoiseFloor:     0,
	}
}

// LocateAperture finds the zero-order spot on the right half of the frame's
// midline and measures its vertical extent.
func LocateAperture(grid *frame.PixelGrid, opts ApertureOptions) (ApertureGeometry, error) {
	w, h := grid.Width(), grid.Height()
	if w < 2 || h < 2 {
		return ApertureGeometry{}, inputErrorf("locate aperture", "frame %dx%d is too small", w, h)
	}
	midX, midY := w/2, h/2
	midline := Row(grid, midY)

	peakX, peak := 0, 0
	for x := midX; x < w; x++ {
		if b := midline.Brightness(x); b > peak {
			peak = b
			peakX = x
		}
	}
	if peak <= opts.NoiseFloor {
		return ApertureGeometry{}, ErrApertureNotFound
	}

	threshold := float64(peak) * opts.ThresholdRatio

	x1 := peakX
	for x := peakX; x > midX; x-- {
		if float64(midline.Brightness(x)) < threshold {
			x1 = x
			break
		}
	}
	x2 := peakX
	for x := peakX; x < w; x++ {
		if float64(midline.Brightness(x)) < threshold {
			x2 = x
			break
		}
	}
	cx := float64(x1+x2) / 2
	// the spot must sit right of the midpoint; a lit midpoint means no distinct spot
	if cx <= float64(midX) {
		return ApertureGeometry{}, ErrApertureNotFound
	}

	top, bottom := FindBandBounds(Column(grid, int(cx)), midY, threshold, opts.DarkTolerance)

	return ApertureGeometry{
		X:              cx,
		Y:              float64(top+bottom) / 2,
		HalfHeight:     float64(bottom-top) * opts.ShrinkFactor / 2,
		PeakBrightness: peak,
	}, nil
}
