// Package winstyle 把覆盖层的工具状态应用到系统窗口：穿透样式、光标、显示隐藏
package winstyle

import (
	"errors"

	"glassmark/internal/tool"
)

// ErrUnsupported 当前平台没有可控制的窗口
var ErrUnsupported = errors.New("window styling not supported on this platform")

// ErrNotFound 没有找到指定标题的窗口
var ErrNotFound = errors.New("window not found")

const (
	wsExTransparent = 0x00000020
	wsExLayered     = 0x00080000
)

// 系统光标资源 ID
const (
	idcArrow = 32512
	idcIBeam = 32513
	idcCross = 32515
	idcPen   = 32631
)

// exStyle 计算新的扩展样式。穿透需要 LAYERED 和 TRANSPARENT 同时存在，关闭时只去掉 TRANSPARENT
func exStyle(current uint32, clickThrough bool) uint32 {
	if clickThrough {
		return current | wsExLayered | wsExTransparent
	}
	return current &^ wsExTransparent
}

func cursorID(g tool.Glyph) uintptr {
	switch g {
	case tool.GlyphPen:
		return idcPen
	case tool.GlyphCross:
		return idcCross
	case tool.GlyphIBeam:
		return idcIBeam
	}
	return idcArrow
}
