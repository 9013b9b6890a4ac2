//go:build windows

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
		mods = append(mods, syshotkey.ModAlt)
	}
	if m.Has(hotkey.ModWin) {
		mods = append(mods, syshotkey.ModWin)
	}
	return mods, nil
}

// Windows 上 syshotkey.Key 就是虚拟键码
func nativeKey(k hotkey.KeyCode) (syshotkey.Key, error) {
	if k == hotkey.KeyNone {
		return 0, hotkey.ErrUnassigned
	}
	return syshotkey.Key(k), nil
}
