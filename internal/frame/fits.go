package frame

import (
	"io"

	"github.com/astrogo/fitsio"
)

// WriteBrightnessFITS streams the r+g+b plane of g as a 16-bit FITS image.
// The sum never exceeds 765, so no BZERO offset is needed.
func WriteBrightnessFITS(w io.Writer, g *PixelGrid, metadata []fitsio.Card) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()

	im := fitsio.NewImage(16, []int{g.Width(), g.Height()})
	defer im.Close()

	metadata = append(metadata,
		fitsio.Card{Name: "BUNIT", Value: "r+g+b", Comment: "8-bit channel sum"},
		fitsio.Card{Name: "ORIGIN", Value: "spectrometer"},
	)
	if err := im.Header().Append(metadata...); err != nil {
		return err
	}

	ints := make([]int16, g.Width()*g.Height())
	i := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			ints[i] = int16(g.Brightness(x, y))
			i++
		}
	}
	if err := im.Write(ints); err != nil {
		return err
	}
	return fits.Write(im)
}
