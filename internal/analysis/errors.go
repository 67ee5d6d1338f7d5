package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrApertureNotFound means no distinct spot rose above the noise floor
	// right of the midpoint on the midline.
	ErrApertureNotFound = errors.New("no aperture found on the frame midline; check the illumination and the camera focus")

	// ErrDegenerateSpectrum means every sampled amplitude was zero, so the
	// spectrum cannot be normalized.
	ErrDegenerateSpectrum = errors.New("spectrum has no light at any sampled wavelength")
)

// InputError reports a frame or geometry that does not fit the configured scan.
type InputError struct {
	Op     string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

func inputErrorf(op, format string, args ...interface{}) error {
	return &InputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
