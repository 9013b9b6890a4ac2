//go:build !windows && !darwin && !linux

package oshotkey

import (
	"fmt"

	"glassmark/internal/hotkey"

	syshotkey "golang.design/x/hotkey"
)

func nativeModifiers(hotkey.Modifiers) ([]syshotkey.Modifier, error) {
	return nil, fmt.Errorf("global hotkeys: %w", hotkey.ErrUnsupported)
}

func nativeKey(hotkey.KeyCode) (syshotkey.Key, error) {
	return 0, fmt.Errorf("global hotkeys: %w", hotkey.ErrUnsupported)
}
