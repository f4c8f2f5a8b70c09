package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/cpurender"
)

var textureMethods = map[string]lua.LGFunction{
	"width":     texWidth,
	"height":    texHeight,
	"has_alpha": texHasAlpha,
	"shared":    texShared,
	"valid":     texValid,
	"close":     texClose,
	"at":        texAt,
	"channel":   texChannel,
	"resample":  texResample,
}

func registerTextureType(L *lua.LState) {
	mt := L.NewTypeMetatable(textureType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), textureMethods))
}

func newTextureUD(L *lua.LState, tex *cpurender.Texture) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = tex
	L.SetMetatable(ud, L.GetTypeMetatable(textureType))
	return ud
}

func checkTexture(L *lua.LState, n int) *cpurender.Texture {
	ud := L.CheckUserData(n)
	if tex, ok := ud.Value.(*cpurender.Texture); ok {
		return tex
	}
	L.ArgError(n, "texture expected")
	return nil
}

func texWidth(L *lua.LState) int {
	L.Push(lua.LNumber(checkTexture(L, 1).Width()))
	return 1
}

func texHeight(L *lua.LState) int {
	L.Push(lua.LNumber(checkTexture(L, 1).Height()))
	return 1
}

func texHasAlpha(L *lua.LState) int {
	L.Push(lua.LBool(checkTexture(L, 1).HasAlpha()))
	return 1
}

func texShared(L *lua.LState) int {
	L.Push(lua.LBool(checkTexture(L, 1).Shared()))
	return 1
}

func texValid(L *lua.LState) int {
	L.Push(lua.LBool(checkTexture(L, 1).Valid()))
	return 1
}

func texClose(L *lua.LState) int {
	_ = checkTexture(L, 1).Close()
	return 0
}

func texAt(L *lua.LState) int {
	L.Push(colorTable(L, checkTexture(L, 1).At(checkNum(L, 2), checkNum(L, 3))))
	return 1
}

// channel(x, y, ch) returns the value or nil when out of range.
func texChannel(L *lua.LState) int {
	v, ok := checkTexture(L, 1).Channel(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func texResample(L *lua.LState) int {
	tex, err := checkTexture(L, 1).Resample(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(newTextureUD(L, tex))
	return 1
}
