package luahost

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/cpurender"
)

func newHost(t *testing.T, src string, opts ...Option) *Host {
	t.Helper()
	h := New(opts...)
	t.Cleanup(h.Close)
	if err := h.DoString(src); err != nil {
		t.Fatalf("DoString() = %v", err)
	}
	return h
}

func newCanvas(t *testing.T, w, h int) *cpurender.RenderContext {
	t.Helper()
	rc, err := cpurender.NewRenderContext(w, h, true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestFrameDrawsThroughScript(t *testing.T) {
	h := newHost(t, `
		local cr = require("cpurender")
		function frame(ctx, i, t)
		  ctx:set_color(cr.rgba(0, 0, 0))
		  ctx:save()
		  ctx:translate(i, 0)
		  ctx:draw_rect(0, 0, 2, 2, {1, 0, 0})
		  ctx:restore()
		end
	`)
	rc := newCanvas(t, 8, 4)

	if err := h.Frame(context.Background(), rc, 3, 0.1); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := rc.GetColor(3, 0); got != cpurender.Red {
		t.Errorf("pixel (3,0) = %+v, want red", got)
	}
	if got := rc.GetColor(0, 0); got != cpurender.Black {
		t.Errorf("pixel (0,0) = %+v, want black", got)
	}
	if rc.StackDepth() != 0 {
		t.Errorf("StackDepth() = %d after script", rc.StackDepth())
	}
}

func TestContextMethods(t *testing.T) {
	h := newHost(t, `
		local cr = require("cpurender")
		function frame(ctx)
		  assert(ctx:width() == 10 and ctx:height() == 6 and ctx:has_alpha())
		  ctx:scale(2)
		  local a, b, c, d, e, f = ctx:transform()
		  assert(a == 2 and d == 2 and e == 0)
		  local x, y = ctx:transform_point(1, 1)
		  assert(x == 2 and y == 2)
		  local l, r, t, btm = ctx:compute_bounds(0, 0, 2, 2)
		  assert(l == 0 and r == 4 and t == 0 and btm == 4)
		  ctx:set_transform(1, 0, 0, 1, 0, 0)

		  assert(ctx:set_pixel(1, 1, cr.rgba(0, 1, 0, 1)))
		  assert(not ctx:set_pixel(-1, 0, cr.rgba(0, 1, 0, 1)))
		  local c = ctx:get_color(1, 1)
		  assert(c.g == 1 and c.a == 1)

		  ctx:set_color_transform(1, 1, 1, 0.5)
		  ctx:apply_pixel(2, 2, cr.hex("#ffffff"))
		  local p = ctx:get_color(2, 2)
		  assert(p.r == 0.5 and p.a == 0.25)
		  ctx:set_color_transform(1, 1, 1, 1)

		  ctx:draw_polygon({5, 0, 9, 0, 9, 4, 5, 4}, {0, 0, 1})
		  ctx:draw_line(0, 5, 9, 5, 1, {1, 1, 0})
		  ctx:draw_circle(7, 2, 1, {1, 0, 1})
		  ctx:draw_gradient(0, 0, 1, 1, {0, 0, 0}, {1, 1, 1})
		  assert(ctx:restore() == false)
		  assert(#ctx:bytes() == 10 * 6 * 4)
		end
	`)
	rc := newCanvas(t, 10, 6)
	if err := h.Frame(context.Background(), rc, 0, 0); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := rc.GetColor(6, 3); got.B != 1 {
		t.Errorf("polygon pixel = %+v, want blue", got)
	}
}

func TestTexturesFromScript(t *testing.T) {
	dir := t.TempDir()
	src := newCanvas(t, 4, 4)
	src.SetColor(cpurender.Green)
	if err := src.SavePNG(filepath.Join(dir, "green.png")); err != nil {
		t.Fatal(err)
	}

	h := newHost(t, `
		local cr = require("cpurender")
		function frame(ctx)
		  local a = cr.load_texture("green.png")
		  local b = cr.load_texture("green.png")
		  assert(a:width() == 4 and not a:has_alpha())
		  ctx:draw_texture(b, 0, 0, 2, 2)

		  local t = cr.new_texture(2, 2, true, {
		    1, 0, 0, 1,  1, 0, 0, 1,
		    1, 0, 0, 1,  1, 0, 0, 1,
		  })
		  assert(t:channel(1, 1, 0) == 1)
		  assert(t:channel(5, 1, 0) == nil)
		  ctx:draw_split_texture(t, 2, 0, 2, 2, 0, 1, 0, 1)

		  local burst = cr.hit_effect(t, 0.25, 0)
		  assert(burst:width() == 2 and burst:has_alpha())

		  local snap = ctx:texture()
		  assert(not snap:shared())
		  local view = ctx:shared_texture()
		  assert(view:shared() and view:valid())
		  local small = snap:resample(1, 1)
		  assert(small:width() == 1)
		end
	`, WithBaseDir(dir))

	rc := newCanvas(t, 4, 2)
	if err := h.Frame(context.Background(), rc, 0, 0); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := rc.GetColor(0, 0); got != cpurender.Green {
		t.Errorf("loaded texture pixel = %+v, want green", got)
	}
	if got := rc.GetColor(3, 1); got != cpurender.Red {
		t.Errorf("split texture pixel = %+v, want red", got)
	}
	if s := h.textures.Stats(); s.Misses != 1 || s.Hits != 1 {
		t.Errorf("texture cache stats = %+v, want one miss and one hit", s)
	}
}

func TestNoFrameFunction(t *testing.T) {
	h := newHost(t, `x = 1`)
	if h.HasFrame() {
		t.Error("HasFrame() = true")
	}
	err := h.Frame(context.Background(), newCanvas(t, 2, 2), 0, 0)
	if !errors.Is(err, ErrNoFrameFunc) {
		t.Errorf("Frame() = %v, want ErrNoFrameFunc", err)
	}
}

func TestScriptErrors(t *testing.T) {
	h := New()
	defer h.Close()
	err := h.DoString(`require("cpurender").new_context(0, 5)`)
	if err == nil || !strings.Contains(err.Error(), "invalid dimensions") {
		t.Errorf("new_context(0, 5) error = %v", err)
	}
	if err := h.DoString(`this is not lua`); err == nil {
		t.Error("syntax error not reported")
	}

	h2 := newHost(t, `function frame(ctx) ctx:draw_rect(0, 0, 1, 1, "red") end`)
	if err := h2.Frame(context.Background(), newCanvas(t, 2, 2), 0, 0); err == nil {
		t.Error("bad color argument not reported")
	}
}

func TestRender(t *testing.T) {
	h := newHost(t, `
		calls = 0
		function setup(ctx) setup_w = ctx:width() end
		function frame(ctx, i, t) calls = calls + 1; last_t = t end
	`)
	rc := newCanvas(t, 3, 3)
	var seen []int
	err := h.Render(context.Background(), rc, 4, 2, func(i int, got *cpurender.RenderContext) error {
		if got != rc {
			t.Error("emit received a different context")
		}
		seen = append(seen, i)
		return nil
	})
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if len(seen) != 4 || seen[3] != 3 {
		t.Errorf("emitted frames = %v", seen)
	}
	if v := h.L.GetGlobal("last_t").String(); v != "1.5" {
		t.Errorf("last t = %s, want 1.5", v)
	}
	if v := h.L.GetGlobal("setup_w").String(); v != "3" {
		t.Errorf("setup saw width %s, want 3", v)
	}

	boom := errors.New("sink full")
	err = h.Render(context.Background(), rc, 4, 2, func(i int, _ *cpurender.RenderContext) error {
		if i == 1 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Render() with failing emit = %v, want sink error", err)
	}
	if err := h.Render(context.Background(), rc, 1, 0, nil); err == nil {
		t.Error("Render() with fps 0 succeeded")
	}
}

func TestFrameCancelled(t *testing.T) {
	h := newHost(t, `function frame(ctx) while true do end end`)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := h.Frame(ctx, newCanvas(t, 2, 2), 0, 0); err == nil {
		t.Error("runaway script was not interrupted")
	}
}

func TestGradientStopsAndDegrees(t *testing.T) {
	h := newHost(t, `
		local cr = require("cpurender")
		function frame(ctx)
		  ctx:draw_gradient_stops(0, 0, 2, 4, {
		    {0, cr.rgba(1, 0, 0)},
		    {pos = 0.5, color = cr.rgba(0, 1, 0)},
		    {1, {0, 0, 1}},
		  })
		  ctx:rotate_degrees(90)
		  local x, y = ctx:transform_point(1, 0)
		  assert(math.abs(x) < 1e-9 and math.abs(y - 1) < 1e-9)
		end
	`)
	rc := newCanvas(t, 2, 4)
	if err := h.Frame(context.Background(), rc, 0, 0); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := rc.GetColor(0, 0); got != cpurender.Red {
		t.Errorf("top = %+v, want red", got)
	}
	if got := rc.GetColor(0, 2); got.G != 1 || got.R != 0 {
		t.Errorf("middle = %+v, want green", got)
	}

	bad := newHost(t, `function frame(ctx) ctx:draw_gradient_stops(0, 0, 1, 1, {5}) end`)
	if err := bad.Frame(context.Background(), newCanvas(t, 2, 2), 0, 0); err == nil {
		t.Error("malformed stop accepted")
	}
}

func TestLoadTextureAfterClose(t *testing.T) {
	dir := t.TempDir()
	src := newCanvas(t, 2, 2)
	src.SetColor(cpurender.Blue)
	if err := src.SavePNG(filepath.Join(dir, "blue.png")); err != nil {
		t.Fatal(err)
	}

	h := newHost(t, `
		local cr = require("cpurender")
		function frame(ctx)
		  local a = cr.load_texture("blue.png")
		  a:close()
		  assert(not a:valid())
		  local b = cr.load_texture("blue.png")
		  assert(b:valid(), "closed texture served from cache")
		  ctx:draw_texture(b, 0, 0, 2, 2)
		end
	`, WithBaseDir(dir))
	rc := newCanvas(t, 2, 2)
	if err := h.Frame(context.Background(), rc, 0, 0); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := rc.GetColor(1, 1); got != cpurender.Blue {
		t.Errorf("pixel = %+v, want blue", got)
	}
}

func TestAudioFromScript(t *testing.T) {
	dir := t.TempDir()
	h := newHost(t, `
		local cr = require("cpurender")
		local bgm = cr.silent(8, 1, 16)
		local hit = cr.new_audio(8, 1, {0.5, 0.5})
		assert(bgm:duration() == 2 and bgm:channels() == 1)

		bgm:overlay(hit, 0)
		bgm:overlay(hit, 1, "second")
		local loud = hit:clone()
		loud:gain(2)
		bgm:overlay(loud, 12)
		assert(bgm:peak() == 1)

		bgm:save_wav("mix.wav")
		local back = cr.load_wav("mix.wav")
		assert(back:frames() == 16 and back:sample_rate() == 8)

		local stereo = back:clone()
		stereo:resample(16, 2)
		assert(stereo:channels() == 2 and stereo:sample_rate() == 16)
		back:resample_like(stereo)
		assert(back:channels() == 2)

		local short = bgm:clone()
		short:cut(0, 1, "second")
		assert(short:frames() == 8)
		short:speed(2)
		assert(short:sample_rate() == 16)

		cr.set_soundtrack(bgm)
		function frame(ctx) end
	`, WithBaseDir(dir))

	clip := h.Soundtrack()
	if clip == nil {
		t.Fatal("Soundtrack() = nil")
	}
	want := []float64{0.5, 0.5, 0, 0, 0, 0, 0, 0, 0.5, 0.5, 0, 0, 1, 1, 0, 0}
	for i, v := range want {
		if clip.Samples[i] != v {
			t.Fatalf("soundtrack samples = %v, want %v", clip.Samples, want)
		}
	}
}

func TestAudioErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"rate mismatch", `local cr = require("cpurender"); cr.silent(8, 1, 4):overlay(cr.silent(16, 1, 4), 0)`},
		{"bad unit", `local cr = require("cpurender"); cr.silent(8, 1, 4):cut(0, 1, "beats")`},
		{"bad speed", `local cr = require("cpurender"); cr.silent(8, 1, 4):speed(0)`},
		{"missing file", `require("cpurender").load_wav("nope.wav")`},
		{"bad sample count", `require("cpurender").new_audio(8, 2, {1, 2, 3})`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(WithBaseDir(t.TempDir()))
			defer h.Close()
			if err := h.DoString(tt.src); err == nil {
				t.Error("script succeeded")
			}
		})
	}
}
