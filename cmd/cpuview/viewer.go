package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/luahost"
)

// viewer is the ebiten game. Update runs one script frame per tick and
// Draw uploads the canvas.
type viewer struct {
	script string
	fps    int
	frames int

	host   *luahost.Host
	rc     *cpurender.RenderContext
	frame  int
	paused bool
	failed error

	reload chan struct{}
	audio  *track

	rgba   *image.RGBA
	window *ebiten.Image
}

func newViewer(script string, width, height int, alpha bool, fps, frames int) (*viewer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}
	rc, err := cpurender.NewRenderContext(width, height, alpha)
	if err != nil {
		return nil, err
	}
	v := &viewer{
		script: script,
		fps:    fps,
		frames: frames,
		rc:     rc,
		reload: make(chan struct{}, 1),
	}
	if err := v.load(); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return v, nil
}

// load replaces the Lua state with a fresh run of the script. A script
// that fails to load keeps the previous host so the window stays usable
// while the file is being edited.
func (v *viewer) load() error {
	h := luahost.New()
	if err := h.DoFile(v.script); err != nil {
		h.Close()
		return err
	}
	if err := h.Setup(context.Background(), v.rc); err != nil {
		h.Close()
		return err
	}
	if v.host != nil {
		v.host.Close()
	}
	v.host = h
	v.restart()
	return nil
}

func (v *viewer) restart() {
	v.frame = 0
	v.failed = nil
	if v.audio != nil {
		v.audio.Restart()
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
		if v.audio != nil {
			v.audio.SetPaused(v.paused)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.restart()
	}

	select {
	case <-v.reload:
		if err := v.load(); err != nil {
			cpurender.Logger().Warn("cpuview: reload failed", slog.Any("err", err))
		} else {
			cpurender.Logger().Info("cpuview: reloaded", slog.String("script", v.script))
		}
	default:
	}

	if v.paused || v.failed != nil {
		return nil
	}
	t := float64(v.frame) / float64(v.fps)
	if err := v.host.Frame(context.Background(), v.rc, v.frame, t); err != nil {
		// Stop advancing until the script is fixed or restarted.
		v.failed = err
		cpurender.Logger().Warn("cpuview: frame failed", slog.Int("frame", v.frame), slog.Any("err", err))
		return nil
	}
	v.frame++
	if v.frames > 0 && v.frame >= v.frames {
		v.restart()
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.rc.Closed() {
		return
	}
	w, h := v.rc.Width(), v.rc.Height()
	if v.window == nil || v.window.Bounds().Dx() != w || v.window.Bounds().Dy() != h {
		if v.window != nil {
			v.window.Deallocate()
		}
		v.window = ebiten.NewImage(w, h)
		v.rgba = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	// ebiten wants premultiplied pixels; the canvas is straight alpha.
	draw.Draw(v.rgba, v.rgba.Bounds(), v.rc.Image(), image.Point{}, draw.Src)
	v.window.WritePixels(v.rgba.Pix)
	screen.DrawImage(v.window, nil)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	if v.rc.Closed() {
		return 1, 1
	}
	return v.rc.Width(), v.rc.Height()
}

func (v *viewer) Close() {
	if v.audio != nil {
		_ = v.audio.Close()
	}
	if v.host != nil {
		v.host.Close()
	}
	_ = v.rc.Close()
}
