package analysis

import "github.com/user/spectrometer_go/internal/frame"

// Line is a one-dimensional run of pixels, such as a single column or row.
type Line interface {
	Len() int
	Brightness(i int) int
}

type columnLine struct {
	grid *frame.PixelGrid
	x    int
}

func (c columnLine) Len() int             { return c.grid.Height() }
func (c columnLine) Brightness(i int) int { return c.grid.Brightness(c.x, i) }

type rowLine struct {
	grid *frame.PixelGrid
	y    int
}

func (r rowLine) Len() int             { return r.grid.Width() }
func (r rowLine) Brightness(i int) int { return r.grid.Brightness(i, r.y) }

// Column views column x of grid as a Line.
func Column(grid *frame.PixelGrid, x int) Line { return columnLine{grid, x} }

// Row views row y of grid as a Line.
func Row(grid *frame.PixelGrid, y int) Line { return rowLine{grid, y} }

// FindBandBounds returns the furthest indices below and above start at which the
// line was still at or above threshold. Up to tolerance consecutive dark samples
// are stepped over; one more ends the walk in that direction. A dark start gives
// lo == hi == start.
func FindBandBounds(line Line, start int, threshold float64, tolerance int) (lo, hi int) {
	lo = walkBand(line, start, -1, threshold, tolerance)
	hi = walkBand(line, start, +1, threshold, tolerance)
	return lo, hi
}

func walkBand(line Line, start, step int, threshold float64, tolerance int) int {
	bound := start
	dark := 0
	for i := start; i >= 0 && i < line.Len(); i += step {
		if float64(line.Brightness(i)) < threshold {
			dark++
			if dark > tolerance {
				break
			}
			continue
		}
		bound = i
		dark = 0
	}
	return bound
}
