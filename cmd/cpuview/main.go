// Command cpuview previews a Lua scene script in a window and reloads it
// whenever the file changes.
//
// Usage:
//
//	cpuview [-width 640] [-height 360] [-fps 30] [-audio track.wav] scene.lua
//
// Keys: Space pauses, R restarts from frame 0, Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/cpurender"
)

func main() {
	var (
		width     = flag.Int("width", 640, "canvas width")
		height    = flag.Int("height", 360, "canvas height")
		alpha     = flag.Bool("alpha", false, "render with an alpha channel")
		fps       = flag.Int("fps", 30, "frames per second")
		frames    = flag.Int("frames", 0, "loop after this many frames (0 runs forever)")
		audioPath = flag.String("audio", "", "WAV file played in sync with frame 0 instead of the script's soundtrack")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cpuview [flags] scene.lua")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cpurender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	script, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		fatal(err)
	}
	v, err := newViewer(script, *width, *height, *alpha, *fps, *frames)
	if err != nil {
		fatal(err)
	}
	defer v.Close()

	switch {
	case *audioPath != "":
		if err := v.attachAudio(*audioPath); err != nil {
			fatal(err)
		}
	case v.host.Soundtrack() != nil:
		if err := v.play(v.host.Soundtrack(), "set_soundtrack"); err != nil {
			fatal(err)
		}
	}

	w, err := watch(script, v.reload)
	if err != nil {
		fatal(err)
	}
	defer w.Close()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("cpuview - " + filepath.Base(script))
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(*fps)
	if err := ebiten.RunGame(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "cpuview:", err)
	os.Exit(1)
}
