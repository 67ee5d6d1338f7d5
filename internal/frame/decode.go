package frame

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/gift"
	_ "golang.org/x/image/tiff"
)

// LoadImage decodes a JPEG, PNG or TIFF file.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %s (%s) has no pixels", path, format)
	}
	return img, nil
}

// FlipVertical mirrors img top to bottom. Cameras mounted upside down in the
// spectrometer housing need this to put the aperture back on the right.
func FlipVertical(img image.Image) image.Image {
	g := gift.New(gift.FlipVertical())
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// SaveJPEG writes img as a JPEG with the given quality (1-100).
func SaveJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
