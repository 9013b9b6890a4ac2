//go:build !windows

package winstyle

import "glassmark/internal/tool"

// Window 非 Windows 平台没有可控制的窗口
type Window struct{}

// Find 总是返回 ErrUnsupported
func Find(string) (*Window, error) {
	return nil, ErrUnsupported
}

func (*Window) SetClickThrough(bool) {}
func (*Window) SetCursor(tool.Glyph) {}
func (*Window) SetVisible(bool)      {}
func (*Window) Invalidate()          {}
