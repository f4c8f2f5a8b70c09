// Package luahost drives the raster engine from Lua scripts.
//
// Scripts load the engine with require("cpurender") and define a global
// frame(ctx, i, t) function. The host calls it once per frame with the
// render context, the frame index and the frame time in seconds. An
// optional global setup(ctx) runs once before the first frame.
//
// Audio clips built with silent, new_audio or load_wav can be mixed with
// their overlay, cut, gain, speed and resample methods; the clip passed to
// set_soundtrack is available to the caller through Host.Soundtrack.
//
//	local cr = require("cpurender")
//	local red = cr.rgba(1, 0, 0)
//
//	function frame(ctx, i, t)
//	  ctx:set_color(cr.rgba(0, 0, 0))
//	  ctx:save()
//	  ctx:translate(160, 120)
//	  ctx:rotate(t)
//	  ctx:draw_rect(-40, -40, 80, 80, red)
//	  ctx:restore()
//	end
package luahost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/audio"
	"github.com/gogpu/cpurender/internal/cache"
)

// ErrNoFrameFunc is returned when the script defines no global frame
// function.
var ErrNoFrameFunc = errors.New("luahost: script defines no frame function")

const (
	moduleName  = "cpurender"
	contextType = "cpurender.context"
	textureType = "cpurender.texture"
)

// Host owns a Lua state with the cpurender module preloaded.
// A Host is not safe for concurrent use.
type Host struct {
	L          *lua.LState
	baseDir    string
	textures   *cache.Cache[string, *cpurender.Texture]
	soundtrack *audio.Clip

	// userdata for the context passed to frame, reused across calls
	lastCtx *cpurender.RenderContext
	lastUD  *lua.LUserData
}

type options struct {
	baseDir   string
	cacheSize int
}

// Option configures a Host.
type Option func(*options)

// WithBaseDir resolves relative load_texture paths against dir.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithTextureCacheSize bounds how many decoded textures load_texture
// keeps. Zero means unlimited.
func WithTextureCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// New creates a host.
func New(opts ...Option) *Host {
	o := options{cacheSize: 64}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Host{
		L:       lua.NewState(),
		baseDir: o.baseDir,
	}
	h.textures = cache.New[string, *cpurender.Texture](o.cacheSize, func(path string, _ *cpurender.Texture) {
		cpurender.Logger().Debug("luahost: texture evicted", slog.String("path", path))
	})

	registerContextType(h.L)
	registerTextureType(h.L)
	h.registerAudioType(h.L)
	h.L.PreloadModule(moduleName, h.loader)
	return h
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.textures.Clear()
	h.L.Close()
}

// DoFile runs a script file. Relative texture paths in the script resolve
// against the script's directory unless WithBaseDir was given.
func (h *Host) DoFile(path string) error {
	if h.baseDir == "" {
		h.baseDir = filepath.Dir(path)
	}
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("luahost: %w", err)
	}
	return nil
}

// DoString runs a script from source.
func (h *Host) DoString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return fmt.Errorf("luahost: %w", err)
	}
	return nil
}

// Soundtrack returns the clip the script passed to set_soundtrack, or nil.
func (h *Host) Soundtrack() *audio.Clip {
	return h.soundtrack
}

// HasFrame reports whether the script defined a frame function.
func (h *Host) HasFrame() bool {
	_, ok := h.L.GetGlobal("frame").(*lua.LFunction)
	return ok
}

// Setup calls the script's setup(ctx) if it has one.
func (h *Host) Setup(ctx context.Context, rc *cpurender.RenderContext) error {
	fn, ok := h.L.GetGlobal("setup").(*lua.LFunction)
	if !ok {
		return nil
	}
	return h.call(ctx, fn, h.contextValue(rc))
}

// Frame calls the script's frame(ctx, i, t). Cancelling ctx aborts a
// running script.
func (h *Host) Frame(ctx context.Context, rc *cpurender.RenderContext, i int, t float64) error {
	fn, ok := h.L.GetGlobal("frame").(*lua.LFunction)
	if !ok {
		return ErrNoFrameFunc
	}
	return h.call(ctx, fn, h.contextValue(rc), lua.LNumber(i), lua.LNumber(t))
}

// Render runs frames 0..n-1 at fps, handing each finished frame to emit.
func (h *Host) Render(ctx context.Context, rc *cpurender.RenderContext, n int, fps float64, emit func(i int, rc *cpurender.RenderContext) error) error {
	if !(fps > 0) {
		return fmt.Errorf("luahost: invalid frame rate %v", fps)
	}
	if !h.HasFrame() {
		return ErrNoFrameFunc
	}
	if err := h.Setup(ctx, rc); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.Frame(ctx, rc, i, float64(i)/fps); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := emit(i, rc); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (h *Host) call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		return fmt.Errorf("luahost: %w", err)
	}
	return nil
}

func (h *Host) contextValue(rc *cpurender.RenderContext) *lua.LUserData {
	if h.lastCtx != rc {
		h.lastCtx = rc
		h.lastUD = newContextUD(h.L, rc)
	}
	return h.lastUD
}

// loadTexture decodes path once and serves later loads from the cache.
// A texture the script has closed is decoded again.
func (h *Host) loadTexture(path string) (*cpurender.Texture, error) {
	path = h.resolve(path)
	return h.textures.GetOrLoadIf(path, (*cpurender.Texture).Valid, func() (*cpurender.Texture, error) {
		return cpurender.LoadTexture(path)
	})
}
