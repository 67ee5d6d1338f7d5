/*Package frame holds the pixel grid the spectrometer analyses and the sources
that produce it.

A Source is the only place that touches hardware or the filesystem on the way in.
CameraSource drives a Raspberry Pi camera through the libcamera-still tool with a
fixed exposure; FileSource re-reads a frame captured earlier.
*/
package frame

import (
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"time"
)

// Source produces one frame per call to Capture.
type Source interface {
	// Capture blocks until a complete frame is available or ctx is done.
	Capture(ctx context.Context) (*PixelGrid, error)

	// Close releases whatever the source holds open.
	Close() error
}

// FileSource reads a previously saved frame from disk.
type FileSource struct {
	Path  string
	VFlip bool
}

// Capture decodes the file. ctx is only checked before the read.
func (s *FileSource) Capture(ctx context.Context) (*PixelGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := LoadImage(s.Path)
	if err != nil {
		return nil, err
	}
	return gridFrom(img, s.VFlip), nil
}

func (s *FileSource) Close() error { return nil }

// CameraConfig fixes every exposure parameter so that frames taken minutes or
// days apart are comparable.
type CameraConfig struct {
	// Binary is the still-capture tool, libcamera-still or rpicam-still
	Binary string

	// ShutterMicros is the exposure time in microseconds
	ShutterMicros int64

	// Gain is the analogue gain; 1.0 corresponds to ISO 100
	Gain float64

	Width  int
	Height int

	// WarmUp is how long the sensor runs before the frame is taken.
	// Auto exposure and white balance are disabled, so this only lets the
	// sensor settle.
	WarmUp time.Duration

	VFlip bool
}

// CameraSource captures through the external still-capture tool and keeps the
// JPEG it wrote at RawPath.
type CameraSource struct {
	Config  CameraConfig
	RawPath string
}

// NewCameraSource checks the configuration and returns a source that writes its
// frames to rawPath.
func NewCameraSource(cfg CameraConfig, rawPath string) (*CameraSource, error) {
	if cfg.ShutterMicros <= 0 {
		return nil, fmt.Errorf("shutter speed must be positive, got %d", cfg.ShutterMicros)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Binary == "" {
		cfg.Binary = "libcamera-still"
	}
	return &CameraSource{Config: cfg, RawPath: rawPath}, nil
}

// Args is the command line passed to the capture tool.
func (c *CameraSource) Args() []string {
	warm := c.Config.WarmUp.Milliseconds()
	if warm < 1 {
		warm = 1
	}
	return []string{
		"--nopreview",
		"--output", c.RawPath,
		"--timeout", strconv.FormatInt(warm, 10),
		"--shutter", strconv.FormatInt(c.Config.ShutterMicros, 10),
		"--gain", strconv.FormatFloat(c.Config.Gain, 'f', -1, 64),
		"--awbgains", "1,1",
		"--denoise", "off",
		"--width", strconv.Itoa(c.Config.Width),
		"--height", strconv.Itoa(c.Config.Height),
		"--encoding", "jpg",
		"--quality", "95",
	}
}

// Capture runs the capture tool and decodes its output. The call blocks for at
// least the configured warm-up.
func (c *CameraSource) Capture(ctx context.Context) (*PixelGrid, error) {
	cmd := exec.CommandContext(ctx, c.Config.Binary, c.Args()...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", c.Config.Binary, err, out)
	}
	img, err := LoadImage(c.RawPath)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != c.Config.Width || b.Dy() != c.Config.Height {
		return nil, fmt.Errorf("camera returned %dx%d, expected %dx%d", b.Dx(), b.Dy(), c.Config.Width, c.Config.Height)
	}
	return gridFrom(img, c.Config.VFlip), nil
}

func (c *CameraSource) Close() error { return nil }

func gridFrom(img image.Image, vflip bool) *PixelGrid {
	if vflip {
		img = FlipVertical(img)
	}
	return NewPixelGrid(img)
}
