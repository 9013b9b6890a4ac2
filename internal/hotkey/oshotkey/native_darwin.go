//go:build darwin

package oshotkey

import (
	"glassmark/internal/hotkey"

	syshotkey "golang.design/x/hotkey"
)

func nativeModifiers(m hotkey.Modifiers) ([]syshotkey.Modifier, error) {
	var mods []syshotkey.Modifier
	if m.Has(hotkey.ModCtrl) {
		mods = append(mods, syshotkey.ModCtrl)
	}
	if m.Has(hotkey.ModShift) {
		mods = append(mods, syshotkey.ModShift)
	}
	if m.Has(hotkey.ModAlt) {
		mods = append(mods, syshotkey.ModOption)
	}
	if m.Has(hotkey.ModWin) {
		mods = append(mods, syshotkey.ModCmd)
	}
	return mods, nil
}
