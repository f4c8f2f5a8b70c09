package luahost

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/cpurender/audio"
)

const audioType = "cpurender.audio"

var audioMethods = map[string]lua.LGFunction{
	"sample_rate":   audioSampleRate,
	"channels":      audioChannels,
	"frames":        audioFrames,
	"duration":      audioDuration,
	"peak":          audioPeak,
	"clone":         audioClone,
	"resample":      audioResample,
	"resample_like": audioResampleLike,
	"overlay":       audioOverlay,
	"cut":           audioCut,
	"gain":          audioGain,
	"speed":         audioSpeed,
}

func (h *Host) registerAudioType(L *lua.LState) {
	mt := L.NewTypeMetatable(audioType)
	methods := L.SetFuncs(L.NewTable(), audioMethods)
	L.SetField(methods, "save_wav", L.NewFunction(h.audioSaveWAV))
	L.SetField(mt, "__index", methods)
}

func newAudioUD(L *lua.LState, c *audio.Clip) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = c
	L.SetMetatable(ud, L.GetTypeMetatable(audioType))
	return ud
}

func checkAudio(L *lua.LState, n int) *audio.Clip {
	ud := L.CheckUserData(n)
	if c, ok := ud.Value.(*audio.Clip); ok {
		return c
	}
	L.ArgError(n, "audio clip expected")
	return nil
}

// raise turns err into a Lua error; it returns 0 for use as a tail call.
func raise(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// checkUnit reads an optional "frame" or "second" argument.
func checkUnit(L *lua.LState, n int) bool {
	switch unit := L.OptString(n, "frame"); unit {
	case "frame":
		return false
	case "second":
		return true
	default:
		L.ArgError(n, fmt.Sprintf("time unit must be \"frame\" or \"second\", got %q", unit))
		return false
	}
}

// silent(rate, channels, frames)
func luaSilent(L *lua.LState) int {
	c, err := audio.Silent(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		return raise(L, err)
	}
	L.Push(newAudioUD(L, c))
	return 1
}

// new_audio(rate, channels, {s1, s2, ...}) with interleaved samples.
func luaNewAudio(L *lua.LState) int {
	rate, ch := L.CheckInt(1), L.CheckInt(2)
	tbl := L.CheckTable(3)
	samples := make([]float64, tbl.Len())
	for i := range samples {
		samples[i] = float64(lua.LVAsNumber(tbl.RawGetInt(i + 1)))
	}
	if ch <= 0 {
		return raise(L, audio.ErrInvalidFormat)
	}
	c, err := audio.NewClip(rate, ch, len(samples)/ch, samples)
	if err != nil {
		return raise(L, err)
	}
	L.Push(newAudioUD(L, c))
	return 1
}

// load_wav(path)
func (h *Host) luaLoadWAV(L *lua.LState) int {
	f, err := os.Open(h.resolve(L.CheckString(1)))
	if err != nil {
		return raise(L, err)
	}
	defer f.Close()
	c, err := audio.ReadWAV(f)
	if err != nil {
		return raise(L, err)
	}
	L.Push(newAudioUD(L, c))
	return 1
}

// set_soundtrack(clip) marks clip as the audio track of the render.
func (h *Host) luaSetSoundtrack(L *lua.LState) int {
	h.soundtrack = checkAudio(L, 1)
	return 0
}

// save_wav(path)
func (h *Host) audioSaveWAV(L *lua.LState) int {
	c := checkAudio(L, 1)
	f, err := os.Create(h.resolve(L.CheckString(2)))
	if err != nil {
		return raise(L, err)
	}
	if err := c.WriteWAV(f); err != nil {
		_ = f.Close()
		return raise(L, err)
	}
	return raise(L, f.Close())
}

func audioSampleRate(L *lua.LState) int {
	L.Push(lua.LNumber(checkAudio(L, 1).SampleRate))
	return 1
}

func audioChannels(L *lua.LState) int {
	L.Push(lua.LNumber(checkAudio(L, 1).Channels))
	return 1
}

func audioFrames(L *lua.LState) int {
	L.Push(lua.LNumber(checkAudio(L, 1).Frames))
	return 1
}

func audioDuration(L *lua.LState) int {
	L.Push(lua.LNumber(checkAudio(L, 1).Duration()))
	return 1
}

func audioPeak(L *lua.LState) int {
	L.Push(lua.LNumber(checkAudio(L, 1).Peak()))
	return 1
}

func audioClone(L *lua.LState) int {
	L.Push(newAudioUD(L, checkAudio(L, 1).Clone()))
	return 1
}

func audioResample(L *lua.LState) int {
	return raise(L, checkAudio(L, 1).Resample(L.CheckInt(2), L.CheckInt(3)))
}

func audioResampleLike(L *lua.LState) int {
	return raise(L, checkAudio(L, 1).ResampleLike(checkAudio(L, 2)))
}

// overlay(src, start [, unit="frame"] [, auto_resample=false])
func audioOverlay(L *lua.LState) int {
	c, src := checkAudio(L, 1), checkAudio(L, 2)
	seconds := checkUnit(L, 4)
	auto := L.OptBool(5, false)
	if seconds {
		return raise(L, c.OverlaySeconds(src, checkNum(L, 3), auto))
	}
	return raise(L, c.Overlay(src, L.CheckInt(3), auto))
}

// cut(start, end [, unit="frame"])
func audioCut(L *lua.LState) int {
	c := checkAudio(L, 1)
	if checkUnit(L, 4) {
		return raise(L, c.CutSeconds(checkNum(L, 2), checkNum(L, 3)))
	}
	return raise(L, c.Cut(L.CheckInt(2), L.CheckInt(3)))
}

func audioGain(L *lua.LState) int {
	checkAudio(L, 1).Gain(checkNum(L, 2))
	return 0
}

func audioSpeed(L *lua.LState) int {
	return raise(L, checkAudio(L, 1).Speed(checkNum(L, 2)))
}

// resolve makes a script path relative to the base directory.
func (h *Host) resolve(path string) string {
	if !filepath.IsAbs(path) && h.baseDir != "" {
		path = filepath.Join(h.baseDir, path)
	}
	return filepath.Clean(path)
}
