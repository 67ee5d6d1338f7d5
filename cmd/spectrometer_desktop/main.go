package main

import (
	"embed"
	"flag"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/user/spectrometer_go/internal/config"
)

//go:embed all:frontend/public
var assets embed.FS

func main() {
	configPath := flag.String("config", config.FileName, "configuration file")
	flag.Parse()

	app := NewApp(*configPath)

	err := wails.Run(&options.App{
		Title:  "Spectrometer",
		Width:  760,
		Height: 620,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 46, G: 46, B: 46, A: 255}, // #2e2e2e
		OnStartup:        app.Startup,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		log.Fatal("Error running Wails app: ", err.Error())
	}
}
