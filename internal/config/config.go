// Package config loads spectrometer settings from spectrometer.yml over the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/frame"
)

// FileName is the configuration file looked for in the working directory.
const FileName = "spectrometer.yml"

type Camera struct {
	Binary string  `koanf:"binary" yaml:"binary"`
	Gain   float64 `koanf:"gain" yaml:"gain"`
	Width  int     `koanf:"width" yaml:"width"`
	Height int     `koanf:"height" yaml:"height"`
	// WarmUp is a duration string such as "3s"
	WarmUp string `koanf:"warmup" yaml:"warmup"`
	VFlip  bool   `koanf:"vflip" yaml:"vflip"`
}

type Aperture struct {
	ThresholdRatio float64 `koanf:"thresholdratio" yaml:"thresholdratio"`
	DarkTolerance  int     `koanf:"darktolerance" yaml:"darktolerance"`
	ShrinkFactor   float64 `koanf:"shrinkfactor" yaml:"shrinkfactor"`
	NoiseFloor     int     `koanf:"noisefloor" yaml:"noisefloor"`
}

type Scan struct {
	// TiltRadians is the slope of the spectral line across the sensor
	TiltRadians          float64 `koanf:"tiltradians" yaml:"tiltradians"`
	Dispersion           float64 `koanf:"dispersion" yaml:"dispersion"`
	MinWavelength        float64 `koanf:"minwavelength" yaml:"minwavelength"`
	MaxWavelength        float64 `koanf:"maxwavelength" yaml:"maxwavelength"`
	EnforceMaxWavelength bool    `koanf:"enforcemaxwavelength" yaml:"enforcemaxwavelength"`
}

type Notch struct {
	Enabled   bool    `koanf:"enabled" yaml:"enabled"`
	Center    float64 `koanf:"center" yaml:"center"`
	HalfWidth float64 `koanf:"halfwidth" yaml:"halfwidth"`
	Gain      float64 `koanf:"gain" yaml:"gain"`
}

type Efficiency struct {
	YellowDip  Notch `koanf:"yellowdip" yaml:"yellowdip"`
	OrangeBump Notch `koanf:"orangebump" yaml:"orangebump"`
}

type Exposure struct {
	Low  float64 `koanf:"low" yaml:"low"`
	High float64 `koanf:"high" yaml:"high"`
}

type Output struct {
	Dir         string `koanf:"dir" yaml:"dir"`
	JPEGQuality int    `koanf:"jpegquality" yaml:"jpegquality"`
	FITS        bool   `koanf:"fits" yaml:"fits"`
	HTML        bool   `koanf:"html" yaml:"html"`
	PDF         bool   `koanf:"pdf" yaml:"pdf"`
}

// Config is the whole file.
type Config struct {
	Camera     Camera     `koanf:"camera" yaml:"camera"`
	Aperture   Aperture   `koanf:"aperture" yaml:"aperture"`
	Scan       Scan       `koanf:"scan" yaml:"scan"`
	Efficiency Efficiency `koanf:"efficiency" yaml:"efficiency"`
	Exposure   Exposure   `koanf:"exposure" yaml:"exposure"`
	Output     Output     `koanf:"output" yaml:"output"`
}

// Default mirrors the calibration of the reference instrument: a 1000 lines/mm
// grating in front of a Raspberry Pi camera at 1296x972.
func Default() Config {
	ap := analysis.DefaultApertureOptions()
	sc := analysis.DefaultScanOptions()
	ex := analysis.DefaultExposureOptions()
	n := sc.Efficiency.Notches
	return Config{
		Camera: Camera{
			Binary: "libcamera-still",
			Gain:   1.0,
			Width:  frame.NominalWidth,
			Height: frame.NominalHeight,
			WarmUp: "3s",
			VFlip:  true,
		},
		Aperture: Aperture{
			ThresholdRatio: ap.ThresholdRatio,
			DarkTolerance:  ap.DarkTolerance,
			ShrinkFactor:   ap.ShrinkFactor,
			NoiseFloor:     ap.NoiseFloor,
		},
		Scan: Scan{
			TiltRadians:          sc.Tilt,
			Dispersion:           sc.Dispersion,
			MinWavelength:        sc.MinWavelength,
			MaxWavelength:        sc.MaxWavelength,
			EnforceMaxWavelength: sc.EnforceMaxWavelength,
		},
		Efficiency: Efficiency{
			YellowDip:  Notch(n[0]),
			OrangeBump: Notch(n[1]),
		},
		Exposure: Exposure{Low: ex.Low, High: ex.High},
		Output: Output{
			Dir:         ".",
			JPEGQuality: 80,
			FITS:        false,
			HTML:        true,
			PDF:         true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading config %s: %w", path, err)
		}
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Write encodes c as YAML.
func Write(w io.Writer, c Config) error {
	return yml.NewEncoder(w).Encode(c)
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	switch {
	case !(c.Scan.Dispersion > 0):
		return fmt.Errorf("scan.dispersion must be positive, got %v", c.Scan.Dispersion)
	case c.Scan.EnforceMaxWavelength && c.Scan.MaxWavelength <= c.Scan.MinWavelength:
		return fmt.Errorf("scan.maxwavelength %v must exceed scan.minwavelength %v", c.Scan.MaxWavelength, c.Scan.MinWavelength)
	case math.Abs(c.Scan.TiltRadians) >= math.Pi/2:
		return fmt.Errorf("scan.tiltradians %v is not a usable angle", c.Scan.TiltRadians)
	case c.Aperture.ThresholdRatio <= 0 || c.Aperture.ThresholdRatio > 1:
		return fmt.Errorf("aperture.thresholdratio must be in (0, 1], got %v", c.Aperture.ThresholdRatio)
	case c.Aperture.ShrinkFactor <= 0:
		return fmt.Errorf("aperture.shrinkfactor must be positive, got %v", c.Aperture.ShrinkFactor)
	case c.Aperture.DarkTolerance < 0:
		return fmt.Errorf("aperture.darktolerance must not be negative, got %d", c.Aperture.DarkTolerance)
	case c.Exposure.Low >= c.Exposure.High:
		return fmt.Errorf("exposure.low %v must be below exposure.high %v", c.Exposure.Low, c.Exposure.High)
	case c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100:
		return fmt.Errorf("output.jpegquality must be 1-100, got %d", c.Output.JPEGQuality)
	}
	if _, err := c.WarmUp(); err != nil {
		return err
	}
	return nil
}

// WarmUp parses Camera.WarmUp.
func (c Config) WarmUp() (time.Duration, error) {
	d, err := time.ParseDuration(c.Camera.WarmUp)
	if err != nil {
		return 0, fmt.Errorf("camera.warmup: %w", err)
	}
	return d, nil
}

// AnalysisOptions converts the file layout into pipeline options.
func (c Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Aperture: analysis.ApertureOptions{
			ThresholdRatio: c.Aperture.ThresholdRatio,
			DarkTolerance:  c.Aperture.DarkTolerance,
			ShrinkFactor:   c.Aperture.ShrinkFactor,
			NoiseFloor:     c.Aperture.NoiseFloor,
		},
		Scan: analysis.ScanOptions{
			Tilt:                 c.Scan.TiltRadians,
			Dispersion:           c.Scan.Dispersion,
			MinWavelength:        c.Scan.MinWavelength,
			MaxWavelength:        c.Scan.MaxWavelength,
			EnforceMaxWavelength: c.Scan.EnforceMaxWavelength,
			Efficiency: analysis.EfficiencyModel{Notches: []analysis.Notch{
				analysis.Notch(c.Efficiency.YellowDip),
				analysis.Notch(c.Efficiency.OrangeBump),
			}},
		},
		Exposure: analysis.ExposureOptions{Low: c.Exposure.Low, High: c.Exposure.High},
	}
}

// CameraConfig builds the capture settings for a given shutter time.
func (c Config) CameraConfig(shutterMicros int64) (frame.CameraConfig, error) {
	warm, err := c.WarmUp()
	if err != nil {
		return frame.CameraConfig{}, err
	}
	return frame.CameraConfig{
		Binary:        c.Camera.Binary,
		ShutterMicros: shutterMicros,
		Gain:          c.Camera.Gain,
		Width:         c.Camera.Width,
		Height:        c.Camera.Height,
		WarmUp:        warm,
		VFlip:         c.Camera.VFlip,
	}, nil
}
