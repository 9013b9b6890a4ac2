//go:build !windows

package main

import (
	"glassmark/internal/geom"
)

// desktopBounds 没有渲染层时使用常见的 1080p 单屏
func desktopBounds() (virtual, primary geom.Rect) {
	primary = geom.R(0, 0, 1920, 1080)
	return primary, primary
}

func enableDPIAwareness() string { return "" }
