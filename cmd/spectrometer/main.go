package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/theckman/yacspin"

	"github.com/user/spectrometer_go/internal/analysis"
	"github.com/user/spectrometer_go/internal/config"
	"github.com/user/spectrometer_go/internal/frame"
	"github.com/user/spectrometer_go/internal/parser"
	"github.com/user/spectrometer_go/internal/pipeline"
	"github.com/user/spectrometer_go/internal/report"
)

// Version is the version number.  Typically injected via ldflags with git build
var Version = "1"

var (
	configPath = flag.String("config", config.FileName, "configuration file")
	inputPath  = flag.String("input", "", "process an existing frame (JPEG, PNG or TIFF) instead of capturing one")
	outDir     = flag.String("out", "", "output directory, overrides output.dir")
)

func root() {
	str := `spectrometer photographs the spectrum thrown by a diffraction grating onto a
Raspberry Pi camera and turns it into a calibrated, normalized intensity curve.

Usage:
	spectrometer [flags] <name> <shutter>
	spectrometer [flags] <command>

<shutter> is the exposure time in microseconds. <name> prefixes every output:
	<name>_raw.jpg, <name>_out.jpg, <name>.csv, <name>_chart.png
	and, depending on the configuration, <name>_chart.html, <name>.pdf, <name>_raw.fits

Commands:
	chart <csv> <name>
	help
	mkconf
	conf
	version

Flags:`
	fmt.Fprintln(os.Stderr, str)
	flag.PrintDefaults()
}

func help() {
	str := `spectrometer is amenable to configuration via its .yml file.  For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used, which match a 1000 lines/mm
grating in front of the camera at 1296x972.  The command mkconf generates the
configuration file with the default values.

The calibration lives in the scan section: dispersion is nm per pixel away from
the aperture and tiltradians the slope of the spectrum across the sensor.  Both
depend on the mechanical build and are worth re-measuring with a lamp of known
lines (a fluorescent tube shows mercury at 436 and 546 nm).

The exposure is judged from the brightest raw sample.  Between 0.15 and 0.30 of
full scale is ideal; outside that the shutter should be changed and the run repeated.

chart re-renders the PNG and HTML charts from a CSV written by an earlier run.`
	fmt.Println(str)
}

func mkconf() {
	c, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := config.Write(f, c); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := config.Write(os.Stdout, c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("spectrometer version %v\n", Version)
}

func outputDir(c config.Config) string {
	if *outDir != "" {
		return *outDir
	}
	return c.Output.Dir
}

// chart rebuilds the charts of a previous run from its CSV.
func chart(csvPath, name string) {
	c, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	parsed, err := parser.ParseSpectrumCSV(csvPath)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range parsed.ParseErrors {
		log.Println(e)
	}

	opts := report.DefaultChartOptions()
	opts.Title = name
	png, err := report.CreateSpectrumChart(parsed.Spectrum, opts)
	if err != nil {
		log.Fatal(err)
	}
	dir := outputDir(c)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal(err)
	}
	p := pipeline.PathsFor(dir, name)
	if err := os.WriteFile(p.Chart, png, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Println("wrote", p.Chart)
	if c.Output.HTML {
		if err := report.SaveSpectrumHTML(p.HTML, parsed.Spectrum, name, filepath.Base(csvPath)); err != nil {
			log.Fatal(err)
		}
		log.Println("wrote", p.HTML)
	}
}

// capture takes a frame from the camera into a temporary file. The raw JPEG is
// returned alongside the grid so it is only written once processing succeeds.
func capture(ctx context.Context, c config.Config, shutter int64) (*frame.PixelGrid, []byte, error) {
	cc, err := c.CameraConfig(shutter)
	if err != nil {
		return nil, nil, err
	}
	tmp, err := os.MkdirTemp("", "spectrometer")
	if err != nil {
		return nil, nil, err
	}
	defer os.RemoveAll(tmp)

	src, err := frame.NewCameraSource(cc, filepath.Join(tmp, "raw.jpg"))
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	spinner, err := yacspin.New(yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " ",
		Message:           fmt.Sprintf("capturing, %v warm-up at %d us", cc.WarmUp, shutter),
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopMessage:       "captured",
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
		StopFailMessage:   "capture failed",
	})
	if err != nil {
		return nil, nil, err
	}
	if err := spinner.Start(); err != nil {
		log.Println("spinner:", err)
	}

	grid, err := src.Capture(ctx)
	if err != nil {
		spinner.StopFail()
		return nil, nil, err
	}
	spinner.Stop()

	raw, err := os.ReadFile(src.RawPath)
	if err != nil {
		return nil, nil, err
	}
	return grid, raw, nil
}

func printExposure(res *analysis.Result) {
	e := res.Options.Exposure
	fmt.Printf("ideal exposure between %.2f and %.2f\n", e.Low, e.High)
	fmt.Println("exposure=", res.Exposure.Fraction)
	switch res.Exposure.Advice {
	case analysis.ExposureIncrease, analysis.ExposureDecrease:
		color.Yellow(res.Exposure.Advice.String())
	default:
		color.Green(res.Exposure.Advice.String())
	}
}

func run(name, shutterArg string) {
	shutter, err := strconv.ParseInt(shutterArg, 10, 64)
	if err != nil || shutter <= 0 {
		log.Fatalf("shutter must be a positive integer, got %q", shutterArg)
	}
	c, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		grid   *frame.PixelGrid
		raw    []byte
		source string
	)
	if *inputPath != "" {
		source = *inputPath
		src := &frame.FileSource{Path: *inputPath, VFlip: c.Camera.VFlip}
		grid, err = src.Capture(ctx)
	} else {
		source = c.Camera.Binary
		grid, raw, err = capture(ctx, c, shutter)
	}
	if err != nil {
		log.Fatal(err)
	}

	out, err := pipeline.Process(grid, pipeline.NewRun(name, shutter, source), c, nil)
	if err != nil {
		log.Fatal(err)
	}
	out.Raw = raw

	written, err := out.Write(outputDir(c))
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range written {
		log.Println("wrote", p)
	}
	printExposure(out.Result)
}

func main() {
	flag.Usage = root
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		root()
		return
	}

	switch strings.ToLower(args[0]) {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "version":
		pversion()
	case "chart":
		if len(args) != 3 {
			root()
			os.Exit(1)
		}
		chart(args[1], args[2])
	default:
		if len(args) != 2 {
			root()
			os.Exit(1)
		}
		run(args[0], args[1])
	}
}
