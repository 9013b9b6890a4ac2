//go:build windows

package winstyle

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"glassmark/internal/tool"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW      = user32.NewProc("FindWindowW")
	procGetWindowLongW   = user32.NewProc("GetWindowLongW")
	procSetWindowLongW   = user32.NewProc("SetWindowLongW")
	procShowWindow       = user32.NewProc("ShowWindow")
	procInvalidateRect   = user32.NewProc("InvalidateRect")
	procLoadCursorW      = user32.NewProc("LoadCursorW")
	procSetClassLongPtrW = user32.NewProc("SetClassLongPtrW")
)

const (
	// GWL_EXSTYLE = -20
	gwlExStyle       = ^uintptr(19)
	// GCLP_HCURSOR = -12
	gclpHCursor      = ^uintptr(11)
	swHide           = 0
	swShowNoActivate = 4
)

// Window 渲染层创建的顶层窗口
type Window struct {
	hwnd windows.HWND
}

// Find 按标题查找窗口
func Find(title string) (*Window, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, err
	}
	if err := procFindWindowW.Find(); err != nil {
		return nil, err
	}
	h, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	if h == 0 {
		return nil, fmt.Errorf("%q: %w", title, ErrNotFound)
	}
	return &Window{hwnd: windows.HWND(h)}, nil
}

// SetClickThrough 切换 WS_EX_TRANSPARENT
func (w *Window) SetClickThrough(enabled bool) {
	cur, _, _ := procGetWindowLongW.Call(uintptr(w.hwnd), gwlExStyle)
	next := exStyle(uint32(cur), enabled)
	if next == uint32(cur) {
		return
	}
	if r, _, err := procSetWindowLongW.Call(uintptr(w.hwnd), gwlExStyle, uintptr(next)); r == 0 && err != windows.ERROR_SUCCESS {
		slog.Warn("[winstyle] set ex style failed", "error", err)
	}
}

// SetCursor 替换窗口类的默认光标
func (w *Window) SetCursor(g tool.Glyph) {
	cursor, _, _ := procLoadCursorW.Call(0, cursorID(g))
	if cursor == 0 {
		return
	}
	procSetClassLongPtrW.Call(uintptr(w.hwnd), gclpHCursor, cursor)
}

// SetVisible 显示时不抢焦点
func (w *Window) SetVisible(visible bool) {
	cmd := uintptr(swHide)
	if visible {
		cmd = swShowNoActivate
	}
	procShowWindow.Call(uintptr(w.hwnd), cmd)
}

// Invalidate 请求重绘整个窗口
func (w *Window) Invalidate() {
	procInvalidateRect.Call(uintptr(w.hwnd), 0, 0)
}
