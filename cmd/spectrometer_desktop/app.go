package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/user/spectrometer_go/internal/config"
	"github.com/user/spectrometer_go/internal/frame"
	"github.com/user/spectrometer_go/internal/pipeline"
)

// App struct
type App struct {
	ctx        context.Context
	configPath string
	// onComplete, when set, sees every generationComplete event
	onComplete func(ok bool, msg string)
}

// NewApp creates a new App application struct
func NewApp(configPath string) *App {
	return &App{configPath: configPath}
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, "Spectrometer")
}

// runCtx is the wails context, or Background before Startup has run.
func (a *App) runCtx() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *App) sendStatus(message string) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "statusUpdate", message)
	}
	log.Println(message)
}

func (a *App) clearLog() {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "clearLog")
	}
}

func (a *App) complete(ok bool, msg string) {
	a.sendStatus(msg)
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "generationComplete", ok, msg)
	}
	if a.onComplete != nil {
		a.onComplete(ok, msg)
	}
}

// SelectImage opens a file dialog for a saved frame.
func (a *App) SelectImage() (string, error) {
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select spectrum frame",
		Filters: []runtime.FileFilter{
			{DisplayName: "Images (*.jpg;*.png;*.tif)", Pattern: "*.jpg;*.jpeg;*.png;*.tif;*.tiff"},
		},
	})
}

// HandleProcessImage analyses a saved frame and writes every output next to
// outputDir/name. Progress and the outcome arrive as events.
func (a *App) HandleProcessImage(imagePath string, outputDir string, name string, shutter int64) (string, error) {
	if strings.TrimSpace(imagePath) == "" {
		return "", fmt.Errorf("no image selected")
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	}
	if outputDir == "" {
		outputDir = filepath.Dir(imagePath)
	}

	a.clearLog()
	a.sendStatus(fmt.Sprintf("Request: image=[%s], output=[%s], name=%s", imagePath, outputDir, name))

	go func() { // keep the UI responsive
		defer func() {
			if r := recover(); r != nil {
				a.complete(false, fmt.Sprintf("PANIC recovered: %v", r))
			}
		}()

		if a.ctx != nil {
			runtime.EventsEmit(a.ctx, "generationStart")
		}

		cfg, err := config.Load(a.configPath)
		if err != nil {
			a.complete(false, fmt.Sprintf("Error loading configuration: %v", err))
			return
		}

		a.sendStatus(fmt.Sprintf("Loading: %s", imagePath))
		src := &frame.FileSource{Path: imagePath, VFlip: cfg.Camera.VFlip}
		grid, err := src.Capture(a.runCtx())
		if err != nil {
			a.complete(false, fmt.Sprintf("Error loading image: %v", err))
			return
		}
		a.sendStatus(fmt.Sprintf("Frame is %dx%d.", grid.Width(), grid.Height()))

		out, err := pipeline.Process(grid, pipeline.NewRun(name, shutter, imagePath), cfg, a.sendStatus)
		if err != nil {
			a.complete(false, fmt.Sprintf("Error processing frame: %v", err))
			return
		}

		written, err := out.Write(outputDir)
		if err != nil {
			a.complete(false, fmt.Sprintf("Error writing outputs: %v", err))
			return
		}
		for _, p := range written {
			a.sendStatus(fmt.Sprintf("Wrote %s", p))
		}

		e := out.Result.Exposure
		a.sendStatus(fmt.Sprintf("Exposure %.3f (ideal %.2f-%.2f): %s",
			e.Fraction, out.Result.Options.Exposure.Low, out.Result.Options.Exposure.High, e.Advice))
		a.complete(true, fmt.Sprintf("Spectrum %s processed, %d files written.", name, len(written)))
	}()

	return "Processing started in background.", nil
}
