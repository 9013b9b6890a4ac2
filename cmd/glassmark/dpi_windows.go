//go:build windows

package main

import (
	"golang.org/x/sys/windows"
)

var shcore = windows.NewLazySystemDLL("shcore.dll")

// dpiMode 一种 DPI 感知设置方式
type dpiMode struct {
	name string
	dll  *windows.LazyDLL
	proc string
	args []uintptr
	// hresult 为 true 时 0 表示成功，否则非 0 表示成功
	hresult bool
}

// dpiModes 从逐显示器 V2 到系统级依次尝试，老系统缺少的入口自动跳过
var dpiModes = []dpiMode{
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = -4
	{name: "per-monitor-v2", dll: user32, proc: "SetProcessDpiAwarenessContext", args: []uintptr{^uintptr(3)}},
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE = -3
	{name: "per-monitor", dll: user32, proc: "SetProcessDpiAwarenessContext", args: []uintptr{^uintptr(2)}},
	{name: "shcore-per-monitor", dll: shcore, proc: "SetProcessDpiAwareness", args: []uintptr{2}, hresult: true},
	{name: "shcore-system", dll: shcore, proc: "SetProcessDpiAwareness", args: []uintptr{1}, hresult: true},
	{name: "system", dll: user32, proc: "SetProcessDPIAware"},
}

// enableDPIAwareness 必须在查询屏幕尺寸和创建窗口之前调用，返回生效的方式
func enableDPIAwareness() string {
	for _, m := range dpiModes {
		proc := m.dll.NewProc(m.proc)
		if proc.Find() != nil {
			continue
		}
		r, _, _ := proc.Call(m.args...)
		if (r == 0) == m.hresult {
			return m.name
		}
	}
	return "unaware"
}
