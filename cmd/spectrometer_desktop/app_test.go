package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCtxBeforeStartup(t *testing.T) {
	a := NewApp("missing.yml")
	require.NotNil(t, a.runCtx())
	assert.NoError(t, a.runCtx().Err())
}

func TestHandleProcessImageRejectsEmptyPath(t *testing.T) {
	_, err := NewApp("missing.yml").HandleProcessImage("  ", "", "", 1)
	assert.Error(t, err)
}

// A request arriving before Startup still processes the frame.
func TestHandleProcessImageBeforeStartup(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			var v uint8
			switch {
			case x >= 555 && x <= 565 && y >= 225 && y <= 255:
				v = 255
			case x <= 500 && y >= 220 && y <= 260:
				v = 50
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	in := filepath.Join(dir, "lamp.png")
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	type result struct {
		ok  bool
		msg string
	}
	done := make(chan result, 1)
	a := NewApp(filepath.Join(dir, "missing.yml"))
	a.onComplete = func(ok bool, msg string) { done <- result{ok, msg} }

	out := filepath.Join(dir, "out")
	ack, err := a.HandleProcessImage(in, out, "lamp", 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, ack)

	select {
	case r := <-done:
		require.True(t, r.ok, r.msg)
	case <-time.After(time.Minute):
		t.Fatal("processing did not complete")
	}
	_, err = os.Stat(filepath.Join(out, "lamp.csv"))
	assert.NoError(t, err)
}
