//go:build windows

package main

import (
	"golang.org/x/sys/windows"

	"glassmark/internal/geom"
)

var user32 = windows.NewLazySystemDLL("user32.dll")

// GetSystemMetrics 索引
const (
	smCXScreen        = 0
	smCYScreen        = 1
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79
)

// desktopBounds 虚拟桌面和主屏的屏幕坐标
func desktopBounds() (virtual, primary geom.Rect) {
	proc := user32.NewProc("GetSystemMetrics")
	metric := func(i uintptr) float64 {
		r, _, _ := proc.Call(i)
		return float64(int32(r))
	}
	primary = geom.R(0, 0, metric(smCXScreen), metric(smCYScreen))
	virtual = geom.R(metric(smXVirtualScreen), metric(smYVirtualScreen), metric(smCXVirtualScreen), metric(smCYVirtualScreen))
	if virtual.Empty() {
		virtual = primary
	}
	return virtual, primary
}
