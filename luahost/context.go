package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/cpurender"
)

var contextMethods = map[string]lua.LGFunction{
	// lifecycle
	"width":     ctxWidth,
	"height":    ctxHeight,
	"has_alpha": ctxHasAlpha,
	"resize":    ctxResize,
	"close":     ctxClose,
	"closed":    ctxClosed,

	// transform
	"set_transform":     ctxSetTransform,
	"apply_transform":   ctxApplyTransform,
	"translate":         ctxTranslate,
	"scale":             ctxScale,
	"rotate":            ctxRotate,
	"rotate_degrees":    ctxRotateDegrees,
	"transform":         ctxTransform,
	"inverse_transform": ctxInverseTransform,
	"transform_point":   ctxTransformPoint,

	// state
	"save":        ctxSave,
	"restore":     ctxRestore,
	"stack_depth": ctxStackDepth,

	// color
	"set_color_transform":   ctxSetColorTransform,
	"apply_color_transform": ctxApplyColorTransform,
	"set_pixel":             ctxSetPixel,
	"apply_pixel":           ctxApplyPixel,
	"set_color":             ctxSetColor,
	"fill_color":            ctxFillColor,
	"get_color":             ctxGetColor,

	// drawing
	"draw_rect":           ctxDrawRect,
	"draw_gradient":       ctxDrawGradient,
	"draw_gradient_stops": ctxDrawGradientStops,
	"draw_circle":         ctxDrawCircle,
	"draw_line":           ctxDrawLine,
	"draw_polygon":        ctxDrawPolygon,
	"draw_texture":        ctxDrawTexture,
	"draw_split_texture":  ctxDrawSplitTexture,
	"compute_bounds":      ctxComputeBounds,

	// export
	"texture":        ctxTexture,
	"shared_texture": ctxSharedTexture,
	"save_png":       ctxSavePNG,
	"bytes":          ctxBytes,
}

func registerContextType(L *lua.LState) {
	mt := L.NewTypeMetatable(contextType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), contextMethods))
}

func newContextUD(L *lua.LState, rc *cpurender.RenderContext) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = rc
	L.SetMetatable(ud, L.GetTypeMetatable(contextType))
	return ud
}

func checkContext(L *lua.LState, n int) *cpurender.RenderContext {
	ud := L.CheckUserData(n)
	if rc, ok := ud.Value.(*cpurender.RenderContext); ok {
		return rc
	}
	L.ArgError(n, "render context expected")
	return nil
}

func ctxWidth(L *lua.LState) int {
	L.Push(lua.LNumber(checkContext(L, 1).Width()))
	return 1
}

func ctxHeight(L *lua.LState) int {
	L.Push(lua.LNumber(checkContext(L, 1).Height()))
	return 1
}

func ctxHasAlpha(L *lua.LState) int {
	L.Push(lua.LBool(checkContext(L, 1).HasAlpha()))
	return 1
}

func ctxResize(L *lua.LState) int {
	if err := checkContext(L, 1).Resize(L.CheckInt(2), L.CheckInt(3)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func ctxClose(L *lua.LState) int {
	_ = checkContext(L, 1).Close()
	return 0
}

func ctxClosed(L *lua.LState) int {
	L.Push(lua.LBool(checkContext(L, 1).Closed()))
	return 1
}

func ctxSetTransform(L *lua.LState) int {
	checkContext(L, 1).SetTransform(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4),
		checkNum(L, 5), checkNum(L, 6), checkNum(L, 7))
	return 0
}

func ctxApplyTransform(L *lua.LState) int {
	checkContext(L, 1).ApplyTransform(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4),
		checkNum(L, 5), checkNum(L, 6), checkNum(L, 7))
	return 0
}

func ctxTranslate(L *lua.LState) int {
	checkContext(L, 1).Translate(checkNum(L, 2), checkNum(L, 3))
	return 0
}

func ctxScale(L *lua.LState) int {
	rc := checkContext(L, 1)
	sx := checkNum(L, 2)
	rc.Scale(sx, float64(L.OptNumber(3, lua.LNumber(sx))))
	return 0
}

func ctxRotate(L *lua.LState) int {
	checkContext(L, 1).Rotate(checkNum(L, 2))
	return 0
}

func ctxRotateDegrees(L *lua.LState) int {
	checkContext(L, 1).RotateDegrees(checkNum(L, 2))
	return 0
}

func pushMatrix(L *lua.LState, m cpurender.Matrix) int {
	for _, v := range m.Array() {
		L.Push(lua.LNumber(v))
	}
	return 6
}

func ctxTransform(L *lua.LState) int {
	return pushMatrix(L, checkContext(L, 1).Transform())
}

func ctxInverseTransform(L *lua.LState) int {
	return pushMatrix(L, checkContext(L, 1).InverseTransform())
}

func ctxTransformPoint(L *lua.LState) int {
	x, y := checkContext(L, 1).TransformPoint(checkNum(L, 2), checkNum(L, 3))
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func ctxSave(L *lua.LState) int {
	checkContext(L, 1).Save()
	return 0
}

func ctxRestore(L *lua.LState) int {
	L.Push(lua.LBool(checkContext(L, 1).Restore()))
	return 1
}

func ctxStackDepth(L *lua.LState) int {
	L.Push(lua.LNumber(checkContext(L, 1).StackDepth()))
	return 1
}

func ctxSetColorTransform(L *lua.LState) int {
	checkContext(L, 1).SetColorTransform(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5))
	return 0
}

func ctxApplyColorTransform(L *lua.LState) int {
	checkContext(L, 1).ApplyColorTransform(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5))
	return 0
}

func ctxSetPixel(L *lua.LState) int {
	ok := checkContext(L, 1).SetPixel(L.CheckInt(2), L.CheckInt(3), checkColor(L, 4))
	L.Push(lua.LBool(ok))
	return 1
}

func ctxApplyPixel(L *lua.LState) int {
	ok := checkContext(L, 1).ApplyPixel(L.CheckInt(2), L.CheckInt(3), checkColor(L, 4))
	L.Push(lua.LBool(ok))
	return 1
}

func ctxSetColor(L *lua.LState) int {
	checkContext(L, 1).SetColor(checkColor(L, 2))
	return 0
}

func ctxFillColor(L *lua.LState) int {
	checkContext(L, 1).FillColor(checkColor(L, 2))
	return 0
}

func ctxGetColor(L *lua.LState) int {
	L.Push(colorTable(L, checkContext(L, 1).GetColor(checkNum(L, 2), checkNum(L, 3))))
	return 1
}

func ctxDrawRect(L *lua.LState) int {
	checkContext(L, 1).DrawRect(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5), checkColor(L, 6))
	return 0
}

func ctxDrawGradient(L *lua.LState) int {
	checkContext(L, 1).DrawVerticalGradient(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5),
		checkColor(L, 6), checkColor(L, 7))
	return 0
}

// draw_gradient_stops(x, y, w, h, {{pos, color}, ...}); entries may also
// be written {pos = p, color = c}.
func ctxDrawGradientStops(L *lua.LState) int {
	rc := checkContext(L, 1)
	tbl := L.CheckTable(6)
	stops := make([]cpurender.GradientStop, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(6, "gradient stop must be a table")
			return 0
		}
		pos := entry.RawGetString("pos")
		if pos == lua.LNil {
			pos = entry.RawGetInt(1)
		}
		col := entry.RawGetString("color")
		if col == lua.LNil {
			col = entry.RawGetInt(2)
		}
		colTbl, ok := col.(*lua.LTable)
		if !ok {
			L.ArgError(6, "gradient stop needs a color table")
			return 0
		}
		stops = append(stops, cpurender.GradientStop{
			Pos:   float64(lua.LVAsNumber(pos)),
			Color: colorFromTable(colTbl),
		})
	}
	rc.DrawVerticalGradientStops(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5), stops)
	return 0
}

func ctxDrawCircle(L *lua.LState) int {
	checkContext(L, 1).DrawCircle(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkColor(L, 5))
	return 0
}

func ctxDrawLine(L *lua.LState) int {
	checkContext(L, 1).DrawLine(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5),
		checkNum(L, 6), checkColor(L, 7))
	return 0
}

// draw_polygon({x1, y1, x2, y2, ...}, color)
func ctxDrawPolygon(L *lua.LState) int {
	rc := checkContext(L, 1)
	tbl := L.CheckTable(2)
	pts := make([]cpurender.Point, 0, tbl.Len()/2)
	for i := 1; i+1 <= tbl.Len(); i += 2 {
		pts = append(pts, cpurender.Pt(
			float64(lua.LVAsNumber(tbl.RawGetInt(i))),
			float64(lua.LVAsNumber(tbl.RawGetInt(i+1))),
		))
	}
	rc.DrawPolygon(pts, checkColor(L, 3))
	return 0
}

func ctxDrawTexture(L *lua.LState) int {
	checkContext(L, 1).DrawTexture(checkTexture(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5), checkNum(L, 6))
	return 0
}

func ctxDrawSplitTexture(L *lua.LState) int {
	checkContext(L, 1).DrawSplitTexture(checkTexture(L, 2),
		checkNum(L, 3), checkNum(L, 4), checkNum(L, 5), checkNum(L, 6),
		checkNum(L, 7), checkNum(L, 8), checkNum(L, 9), checkNum(L, 10))
	return 0
}

func ctxComputeBounds(L *lua.LState) int {
	b := checkContext(L, 1).ComputeBounds(checkNum(L, 2), checkNum(L, 3), checkNum(L, 4), checkNum(L, 5))
	L.Push(lua.LNumber(b.Left))
	L.Push(lua.LNumber(b.Right))
	L.Push(lua.LNumber(b.Top))
	L.Push(lua.LNumber(b.Bottom))
	return 4
}

func ctxTexture(L *lua.LState) int {
	tex, err := checkContext(L, 1).Texture()
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}

func ctxSharedTexture(L *lua.LState) int {
	tex, err := checkContext(L, 1).SharedTexture()
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}

func ctxSavePNG(L *lua.LState) int {
	if err := checkContext(L, 1).SavePNG(L.CheckString(2)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// bytes() returns the 8-bit buffer as a Lua string.
func ctxBytes(L *lua.LState) int {
	L.Push(lua.LString(checkContext(L, 1).BufferUint8()))
	return 1
}
