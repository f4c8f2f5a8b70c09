// Command cpurender renders a Lua scene script to a video file or an image
// sequence.
//
// Usage:
//
//	cpurender [flags] [script.lua]
//
// Settings come from an optional TOML job file (-config) and are
// overridden by any flag given on the command line. An output of "-"
// streams YUV4MPEG2 to stdout, for example into ffmpeg:
//
//	cpurender -frames 120 -o - scene.lua | ffmpeg -i - out.mp4
//
// With -audio, the clip the script passes to set_soundtrack is written as
// a 16-bit WAV file next to the frames.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/audio"
	"github.com/gogpu/cpurender/internal/config"
	"github.com/gogpu/cpurender/luahost"
	"github.com/gogpu/cpurender/video"
)

// ErrNoSoundtrack is returned for -audio when the script never called
// set_soundtrack.
var ErrNoSoundtrack = errors.New("cpurender: script set no soundtrack")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "cpurender:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr *os.File) error {
	fs := flag.NewFlagSet("cpurender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "TOML job file")
		initPath   = fs.String("init", "", "write a default job file to this path and exit")
		width      = fs.Int("width", 0, "frame width")
		height     = fs.Int("height", 0, "frame height")
		alpha      = fs.Bool("alpha", false, "render with an alpha channel")
		fps        = fs.Float64("fps", 0, "frames per second")
		frames     = fs.Int("frames", 0, "number of frames")
		output     = fs.String("o", "", "output: file.y4m, frame_%05d.png, frame_%05d.jpg or - for stdout")
		audioPath  = fs.String("audio", "", "write the script's soundtrack to this WAV file")
		logLevel   = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *initPath != "" {
		return config.Write(*initPath, config.Default())
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "alpha":
			cfg.Alpha = *alpha
		case "fps":
			cfg.FPS = *fps
		case "frames":
			cfg.Frames = *frames
		case "o":
			cfg.Output = *output
		case "audio":
			cfg.Audio = *audioPath
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if fs.NArg() > 0 {
		cfg.Script = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	cpurender.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer cpurender.SetLogger(nil)

	return render(ctx, cfg, stdout, stderr)
}

func render(ctx context.Context, cfg config.Config, stdout io.Writer, stderr *os.File) error {
	host := luahost.New()
	defer host.Close()
	if err := host.DoFile(cfg.Script); err != nil {
		return err
	}

	rc, err := cpurender.NewRenderContext(cfg.Width, cfg.Height, cfg.Alpha)
	if err != nil {
		return err
	}
	defer rc.Close()

	sink, err := openSink(cfg, stdout)
	if err != nil {
		return err
	}

	progress := term.IsTerminal(int(stderr.Fd()))
	start := time.Now()
	err = host.Render(ctx, rc, cfg.Frames, cfg.FPS, func(i int, rc *cpurender.RenderContext) error {
		if err := sink.WriteFrame(rc); err != nil {
			return err
		}
		if progress {
			fmt.Fprintf(stderr, "\rframe %d/%d", i+1, cfg.Frames)
		}
		return nil
	})
	if progress {
		fmt.Fprintln(stderr)
	}
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if cfg.Audio != "" {
		if err := writeSoundtrack(cfg.Audio, host.Soundtrack()); err != nil {
			return err
		}
	}

	cpurender.Logger().Info("cpurender: done",
		slog.Int("frames", cfg.Frames),
		slog.String("output", cfg.Output),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func writeSoundtrack(path string, clip *audio.Clip) error {
	if clip == nil {
		return ErrNoSoundtrack
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := clip.WriteWAV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func openSink(cfg config.Config, stdout io.Writer) (video.Sink, error) {
	if cfg.Output == "-" {
		return video.NewY4MWriter(stdout, cfg.Width, cfg.Height, cfg.FPS)
	}
	return video.Open(cfg.Output, cfg.Width, cfg.Height, cfg.FPS)
}
