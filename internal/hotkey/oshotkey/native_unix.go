//go:build darwin || linux

package oshotkey

import (
	"fmt"

	"glassmark/internal/hotkey"

	syshotkey "golang.design/x/hotkey"
)

var nativeKeys = map[hotkey.KeyCode]syshotkey.Key{
	hotkey.KeyTab:    syshotkey.KeyTab,
	hotkey.KeyEnter:  syshotkey.KeyReturn,
	hotkey.KeyEscape: syshotkey.KeyEscape,
	hotkey.KeySpace:  syshotkey.KeySpace,
	hotkey.KeyLeft:   syshotkey.KeyLeft,
	hotkey.KeyUp:     syshotkey.KeyUp,
	hotkey.KeyRight:  syshotkey.KeyRight,
	hotkey.KeyDown:   syshotkey.KeyDown,
	hotkey.KeyDelete: syshotkey.KeyDelete,

	hotkey.Key0 + 0: syshotkey.Key0,
	hotkey.Key0 + 1: syshotkey.Key1,
	hotkey.Key0 + 2: syshotkey.Key2,
	hotkey.Key0 + 3: syshotkey.Key3,
	hotkey.Key0 + 4: syshotkey.Key4,
	hotkey.Key0 + 5: syshotkey.Key5,
	hotkey.Key0 + 6: syshotkey.Key6,
	hotkey.Key0 + 7: syshotkey.Key7,
	hotkey.Key0 + 8: syshotkey.Key8,
	hotkey.Key0 + 9: syshotkey.Key9,

	hotkey.KeyA + 0:  syshotkey.KeyA,
	hotkey.KeyA + 1:  syshotkey.KeyB,
	hotkey.KeyA + 2:  syshotkey.KeyC,
	hotkey.KeyA + 3:  syshotkey.KeyD,
	hotkey.KeyA + 4:  syshotkey.KeyE,
	hotkey.KeyA + 5:  syshotkey.KeyF,
	hotkey.KeyA + 6:  syshotkey.KeyG,
	hotkey.KeyA + 7:  syshotkey.KeyH,
	hotkey.KeyA + 8:  syshotkey.KeyI,
	hotkey.KeyA + 9:  syshotkey.KeyJ,
	hotkey.KeyA + 10: syshotkey.KeyK,
	hotkey.KeyA + 11: syshotkey.KeyL,
	hotkey.KeyA + 12: syshotkey.KeyM,
	hotkey.KeyA + 13: syshotkey.KeyN,
	hotkey.KeyA + 14: syshotkey.KeyO,
	hotkey.KeyA + 15: syshotkey.KeyP,
	hotkey.KeyA + 16: syshotkey.KeyQ,
	hotkey.KeyA + 17: syshotkey.KeyR,
	hotkey.KeyA + 18: syshotkey.KeyS,
	hotkey.KeyA + 19: syshotkey.KeyT,
	hotkey.KeyA + 20: syshotkey.KeyU,
	hotkey.KeyA + 21: syshotkey.KeyV,
	hotkey.KeyA + 22: syshotkey.KeyW,
	hotkey.KeyA + 23: syshotkey.KeyX,
	hotkey.KeyA + 24: syshotkey.KeyY,
	hotkey.KeyA + 25: syshotkey.KeyZ,

	hotkey.KeyF1 + 0:  syshotkey.KeyF1,
	hotkey.KeyF1 + 1:  syshotkey.KeyF2,
	hotkey.KeyF1 + 2:  syshotkey.KeyF3,
	hotkey.KeyF1 + 3:  syshotkey.KeyF4,
	hotkey.KeyF1 + 4:  syshotkey.KeyF5,
	hotkey.KeyF1 + 5:  syshotkey.KeyF6,
	hotkey.KeyF1 + 6:  syshotkey.KeyF7,
	hotkey.KeyF1 + 7:  syshotkey.KeyF8,
	hotkey.KeyF1 + 8:  syshotkey.KeyF9,
	hotkey.KeyF1 + 9:  syshotkey.KeyF10,
	hotkey.KeyF1 + 10: syshotkey.KeyF11,
	hotkey.KeyF1 + 11: syshotkey.KeyF12,
}

func nativeKey(k hotkey.KeyCode) (syshotkey.Key, error) {
	if k == hotkey.KeyNone {
		return 0, hotkey.ErrUnassigned
	}
	key, ok := nativeKeys[k]
	if !ok {
		return 0, fmt.Errorf("key %s: %w", k, hotkey.ErrUnsupported)
	}
	return key, nil
}
