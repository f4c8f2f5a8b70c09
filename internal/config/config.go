// Package config loads render job files.
//
// A job file is TOML:
//
//	width = 1280
//	height = 720
//	alpha = false
//	fps = 60
//	frames = 300
//	script = "scene.lua"
//	output = "out/frame_%05d.png"
//	audio = "out/soundtrack.wav"
//	log_level = "info"
//
// Relative script, output and audio paths resolve against the job file's
// directory. An output of "-" means stdout and is kept as is.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config describes one render job.
type Config struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Alpha    bool    `toml:"alpha"`
	FPS      float64 `toml:"fps"`
	Frames   int     `toml:"frames"`
	Script   string  `toml:"script"`
	Output   string  `toml:"output"`
	Audio    string  `toml:"audio"`
	LogLevel string  `toml:"log_level"`
}

// Default returns the settings used when neither a job file nor flags
// provide a value.
func Default() Config {
	return Config{
		Width:    640,
		Height:   360,
		Alpha:    false,
		FPS:      30,
		Frames:   1,
		Output:   "out.y4m",
		LogLevel: "warn",
	}
}

// Load reads path on top of Default. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Write stores cfg as TOML at path.
func Write(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks that the job can run.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case !(c.FPS > 0):
		return fmt.Errorf("%w: fps %v", ErrInvalid, c.FPS)
	case c.Frames < 1:
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames)
	case c.Script == "":
		return fmt.Errorf("%w: no script", ErrInvalid)
	case c.Output == "":
		return fmt.Errorf("%w: no output", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means warn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// Duration returns the job length in seconds.
func (c Config) Duration() float64 {
	return float64(c.Frames) / c.FPS
}

func (c *Config) resolve(base string) {
	if c.Script != "" && !filepath.IsAbs(c.Script) {
		c.Script = filepath.Join(base, c.Script)
	}
	if c.Output != "" && c.Output != "-" && !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(base, c.Output)
	}
	if c.Audio != "" && !filepath.IsAbs(c.Audio) {
		c.Audio = filepath.Join(base, c.Audio)
	}
}
