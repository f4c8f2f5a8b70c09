package luahost

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/cpurender"
	"github.com/gogpu/cpurender/effect"
)

// loader builds the table returned by require("cpurender").
func (h *Host) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"new_context":    luaNewContext,
		"new_texture":    luaNewTexture,
		"load_texture":   h.luaLoadTexture,
		"rgba":           luaRGBA,
		"hex":            luaHex,
		"hit_effect":     luaHitEffect,
		"log":            luaLog,
		"silent":         luaSilent,
		"new_audio":      luaNewAudio,
		"load_wav":       h.luaLoadWAV,
		"set_soundtrack": h.luaSetSoundtrack,
	})
	L.SetField(mod, "version", lua.LString(cpurender.Version))
	L.Push(mod)
	return 1
}

// new_context(w, h [, alpha=true])
func luaNewContext(L *lua.LState) int {
	rc, err := cpurender.NewRenderContext(L.CheckInt(1), L.CheckInt(2), L.OptBool(3, true))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newContextUD(L, rc))
	return 1
}

// new_texture(w, h, alpha, {v1, v2, ...})
func luaNewTexture(L *lua.LState) int {
	w, hgt, alpha := L.CheckInt(1), L.CheckInt(2), L.CheckBool(3)
	tbl := L.CheckTable(4)
	data := make([]float64, tbl.Len())
	for i := range data {
		data[i] = float64(lua.LVAsNumber(tbl.RawGetInt(i + 1)))
	}
	tex, err := cpurender.NewTexture(w, hgt, alpha, data)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}

// load_texture(path)
func (h *Host) luaLoadTexture(L *lua.LState) int {
	tex, err := h.loadTexture(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}

// rgba(r, g, b [, a=1])
func luaRGBA(L *lua.LState) int {
	L.Push(colorTable(L, cpurender.RGBA{
		R: float64(L.CheckNumber(1)),
		G: float64(L.CheckNumber(2)),
		B: float64(L.CheckNumber(3)),
		A: float64(L.OptNumber(4, 1)),
	}))
	return 1
}

// hex("#rrggbb")
func luaHex(L *lua.LState) int {
	L.Push(colorTable(L, cpurender.Hex(L.CheckString(1))))
	return 1
}

// hit_effect(mask, seed, t [, tint])
func luaHitEffect(L *lua.LState) int {
	mask := checkTexture(L, 1)
	tint := effect.DefaultTint
	if L.GetTop() >= 4 {
		tint = checkColor(L, 4)
	}
	tex, err := effect.HitEffect(mask, float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), tint)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}

// log(msg)
func luaLog(L *lua.LState) int {
	cpurender.Logger().Info("luahost: script", slog.String("msg", L.CheckString(1)))
	return 0
}

// checkColor reads a color table, either {r=, g=, b=, a=} or {r, g, b, a}.
// Missing alpha defaults to 1.
func checkColor(L *lua.LState, n int) cpurender.RGBA {
	return colorFromTable(L.CheckTable(n))
}

func colorFromTable(tbl *lua.LTable) cpurender.RGBA {
	get := func(name string, idx int, def float64) float64 {
		v := tbl.RawGetString(name)
		if v == lua.LNil {
			v = tbl.RawGetInt(idx)
		}
		if v == lua.LNil {
			return def
		}
		return float64(lua.LVAsNumber(v))
	}
	return cpurender.RGBA{
		R: get("r", 1, 0),
		G: get("g", 2, 0),
		B: get("b", 3, 0),
		A: get("a", 4, 1),
	}
}

func colorTable(L *lua.LState, c cpurender.RGBA) *lua.LTable {
	tbl := L.CreateTable(0, 4)
	tbl.RawSetString("r", lua.LNumber(c.R))
	tbl.RawSetString("g", lua.LNumber(c.G))
	tbl.RawSetString("b", lua.LNumber(c.B))
	tbl.RawSetString("a", lua.LNumber(c.A))
	return tbl
}

func checkNum(L *lua.LState, n int) float64 {
	return float64(L.CheckNumber(n))
}
