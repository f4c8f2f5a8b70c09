package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ebitengine/oto/v3"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/audio"
)

// track plays a decoded WAV clip through oto, restarting with frame 0.
type track struct {
	ctx    *oto.Context
	player *oto.Player
}

func (v *viewer) attachAudio(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	clip, err := audio.ReadWAV(f)
	if err != nil {
		return err
	}
	return v.play(clip, path)
}

// play starts clip from its first frame. source names it in the log.
func (v *viewer) play(clip *audio.Clip, source string) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   clip.SampleRate,
		ChannelCount: clip.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	<-ready

	v.audio = &track{
		ctx:    ctx,
		player: ctx.NewPlayer(bytes.NewReader(clip.PCMFloat32LE())),
	}
	v.audio.player.Play()
	cpurender.Logger().Debug("cpuview: audio attached",
		slog.String("source", source),
		slog.Int("rate", clip.SampleRate),
		slog.Float64("seconds", clip.Duration()))
	return nil
}

func (t *track) Restart() {
	if _, err := t.player.Seek(0, io.SeekStart); err != nil {
		cpurender.Logger().Warn("cpuview: audio seek", slog.Any("err", err))
	}
	t.player.Play()
}

func (t *track) SetPaused(paused bool) {
	if paused {
		t.player.Pause()
	} else {
		t.player.Play()
	}
}

func (t *track) Close() error {
	t.player.Pause()
	return t.player.Err()
}
