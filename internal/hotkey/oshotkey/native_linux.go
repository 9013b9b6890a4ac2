//go:build linux

package oshotkey

import (
	"glassmark/internal/hotkey"

	syshotkey "golang.design/x/hotkey"
)

// X11 下 Mod1 通常是 Alt，Mod4 通常是 Super
func nativeModifiers(m hotkey.Modifiers) ([]syshotkey.Modifier, error) {
	var mods []syshotkey.Modifier
	if m.Has(hotkey.ModCtrl) {
		mods = append(mods, syshotkey.ModCtrl)
	}
	if m.Has(hotkey.ModShift) {
		mods = append(mods, syshotkey.ModShift)
	}
	if m.Has(hotkey.ModAlt) {
		mods = append(mods, syshotkey.Mod1)
	}
	if m.Has(hotkey.ModWin) {
		mods = append(mods, syshotkey.Mod4)
	}
	return mods, nil
}
