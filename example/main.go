// Example builds a glyph atlas from a TrueType font and draws text and
// rectangles every frame.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/ --font path/to/font.ttf
//
// Press F12 to write the atlas to atlas.bmp, Escape to quit.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/pflag"

	"github.com/go-theft-auto/immg"
	"github.com/go-theft-auto/immg/backend/opengl"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "immg example"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		fontPath   string
		verbose    bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pflag.StringVarP(&fontPath, "font", "f", "", "TrueType/OpenType font (overrides the config)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pflag.Parse()

	immg.SetVerbose(verbose)

	cfg := immg.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = immg.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if fontPath != "" {
		cfg.Font = fontPath
	}
	if cfg.Font == "" {
		return fmt.Errorf("no font given: use --font or set font in the config")
	}

	atlasCfg, err := cfg.AtlasConfig()
	if err != nil {
		return err
	}
	atlas, err := immg.BuildAtlas(immg.NewOpenTypeLoader(), cfg.Font, atlasCfg)
	if err != nil {
		return fmt.Errorf("build atlas: %w", err)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := opengl.OpenWindow(windowTitle, windowWidth, windowHeight)
	if err != nil {
		return err
	}
	glfw.SwapInterval(1) // vsync

	renderer, err := opengl.NewRenderer(windowWidth, windowHeight)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Delete()

	adapter := opengl.NewGLFWWindowAdapter(window, renderer)
	adapter.OnKey(glfw.KeyF12, func() {
		if err := immg.SaveAtlas("atlas.bmp", atlas.Bitmap); err != nil {
			immg.Logger().Error("save atlas", "err", err)
			return
		}
		immg.Logger().Info("atlas written", "path", "atlas.bmp")
	})

	ctx, err := immg.New(renderer, atlas, cfg.ContextOptions()...)
	if err != nil {
		return err
	}

	frame := 0
	for !window.ShouldClose() {
		glfw.PollEvents()

		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		w, _ := adapter.Size()
		ctx.Begin()

		// Panel
		panel := immg.Rect{X: 20, Y: 20, W: float32(w) - 40, H: 140}
		_ = ctx.Rect(panel.Min(), immg.Vec2{X: panel.W, Y: panel.H}, immg.RGB(40, 40, 48))
		_ = ctx.RectOutline(panel.Min(), immg.Vec2{X: panel.W, Y: panel.H}, immg.RGB(220, 160, 40), 2)

		_ = ctx.Text(immg.Vec2{X: 36, Y: 36}, "immediate mode text", 1.5, immg.ColorWhite)
		_ = ctx.Text(immg.Vec2{X: 36, Y: 76}, fmt.Sprintf("Frame: %d", frame), 1, immg.ColorYellow)
		_ = ctx.Text(immg.Vec2{X: 36, Y: 104}, "0123456789 !?#%&", 1, immg.ColorCyan)

		_ = ctx.Line(immg.Vec2{X: 20, Y: 200}, immg.Vec2{X: float32(w) - 20, Y: 200}, immg.ColorGray, 1)

		if err := ctx.End(); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		window.SwapBuffers()
		frame++
	}

	return nil
}
