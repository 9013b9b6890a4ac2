package route

import (
	"math"

	"glassmark/internal/geom"
)

// Palette 工具栏弹出面板
type Palette int

const (
	PaletteNone Palette = iota
	PaletteShape
	PaletteInk
	PaletteColor
	PaletteFont
	paletteCount
)

// 布局常量
const (
	ToolbarMargin   = 20.0 // 工具栏距主屏左上角
	PaletteGap      = 12.0 // 面板距工具栏右侧
	SettingsGap     = 16.0
	SettingsPadding = 20.0
	WhiteboardGap   = 12.0
	ThumbWidth      = 12.0
	minThumbHeight  = 24.0
	thumbInset      = 16.0
)

// 各面板相对工具栏顶部的纵向偏移
var paletteOffsets = [paletteCount]float64{
	PaletteShape: 0,
	PaletteInk:   120,
	PaletteColor: 220,
	PaletteFont:  320,
}

// Sizes 控件的自然尺寸，由渲染层测量后提供
type Sizes struct {
	Toolbar          geom.Size
	ToolbarCollapsed geom.Size
	Palettes         [paletteCount]geom.Size
	Settings         geom.Size
}

// DefaultSizes 默认控件尺寸
func DefaultSizes() Sizes {
	return Sizes{
		Toolbar:          geom.Size{W: 56, H: 460},
		ToolbarCollapsed: geom.Size{W: 56, H: 48},
		Palettes: [paletteCount]geom.Size{
			PaletteShape: {W: 196, H: 52},
			PaletteInk:   {W: 104, H: 52},
			PaletteColor: {W: 52, H: 220},
			PaletteFont:  {W: 52, H: 220},
		},
		Settings: geom.Size{W: 420, H: 560},
	}
}

// Layout 覆盖层界面布局状态。所有修改都返回新值
type Layout struct {
	Screen geom.Size
	Sizes  Sizes

	ToolbarPos geom.Point
	Collapsed  bool
	Palette    Palette

	SettingsVisible bool
	SettingsPos     geom.Point

	WhiteboardVisible bool
	WhiteboardWidth   float64
	Whiteboard        geom.Rect
	whiteboardPlaced  bool

	Hidden bool
}

// NewLayout 创建布局，工具栏放在主屏左上角。
// primary 为主屏的屏幕坐标，origin 为虚拟桌面左上角
func NewLayout(screen geom.Size, primary geom.Rect, origin geom.Point, sizes Sizes) Layout {
	return Layout{
		Screen:     screen,
		Sizes:      sizes,
		ToolbarPos: PlaceToolbarOnPrimary(primary, origin),
	}
}

// PlaceToolbarOnPrimary 工具栏在覆盖层坐标中的初始位置
func PlaceToolbarOnPrimary(primary geom.Rect, origin geom.Point) geom.Point {
	return geom.Pt(primary.X-origin.X+ToolbarMargin, primary.Y-origin.Y+ToolbarMargin)
}

// ToolbarRect 工具栏矩形，收起时使用收起尺寸
func (l Layout) ToolbarRect() geom.Rect {
	size := l.Sizes.Toolbar
	if l.Collapsed {
		size = l.Sizes.ToolbarCollapsed
	}
	return geom.RectAt(l.ToolbarPos, size)
}

// PlacePalette 面板位于工具栏右侧 12 处，纵向按固定偏移排列
func PlacePalette(toolbar geom.Rect, p Palette, size geom.Size) geom.Rect {
	if p <= PaletteNone || p >= paletteCount {
		return geom.Rect{}
	}
	return geom.RectAt(geom.Pt(toolbar.Right()+PaletteGap, toolbar.Y+paletteOffsets[p]), size)
}

// PaletteRect 面板当前矩形
func (l Layout) PaletteRect(p Palette) geom.Rect {
	if p <= PaletteNone || p >= paletteCount {
		return geom.Rect{}
	}
	return PlacePalette(l.ToolbarRect(), p, l.Sizes.Palettes[p])
}

// PlaceSettings 设置面板放在工具栏右侧，放不下时翻到左侧，最后夹在屏幕内边距之内
func PlaceSettings(toolbar geom.Rect, panel geom.Size, screen geom.Size) geom.Point {
	left := toolbar.Right() + SettingsGap
	top := toolbar.Y

	maxLeft := math.Max(0, screen.W-panel.W-SettingsPadding)
	maxTop := math.Max(0, screen.H-panel.H-SettingsPadding)
	if left > maxLeft {
		left = toolbar.X - panel.W - SettingsGap
	}
	return geom.Pt(
		geom.Clamp(left, SettingsPadding, maxLeft),
		geom.Clamp(top, SettingsPadding, maxTop),
	)
}

// SettingsRect 设置面板矩形
func (l Layout) SettingsRect() geom.Rect {
	return geom.RectAt(l.SettingsPos, l.Sizes.Settings)
}

// PlaceWhiteboard 白板紧贴工具栏右侧，高度与工具栏相同，宽度不小于工具栏宽度
func PlaceWhiteboard(toolbar geom.Rect, width float64) geom.Rect {
	return geom.R(
		toolbar.Right()+WhiteboardGap,
		toolbar.Y,
		math.Max(toolbar.W, width),
		toolbar.H,
	)
}

// WhiteboardThumb 白板右边缘中部的宽度调整手柄
func WhiteboardThumb(board geom.Rect) geom.Rect {
	h := math.Max(minThumbHeight, board.H-thumbInset)
	return geom.R(board.Right()-ThumbWidth/2, board.Y+(board.H-h)/2, ThumbWidth, h)
}

// WithPalette 显示或隐藏面板。面板互斥，显示一个会关闭其他
func (l Layout) WithPalette(p Palette, visible bool) Layout {
	if visible {
		l.Palette = p
	} else if l.Palette == p {
		l.Palette = PaletteNone
	}
	return l
}

// TogglePalette 切换面板
func (l Layout) TogglePalette(p Palette) Layout {
	return l.WithPalette(p, l.Palette != p)
}

// WithSettings 显示或隐藏设置面板。显示时隐藏白板并重新定位
func (l Layout) WithSettings(visible bool) Layout {
	l.SettingsVisible = visible
	if visible {
		l.WhiteboardVisible = false
		l.SettingsPos = PlaceSettings(l.ToolbarRect(), l.Sizes.Settings, l.Screen)
	}
	return l
}

// MoveSettings 拖动设置面板
func (l Layout) MoveSettings(delta geom.Point) Layout {
	l.SettingsPos = l.SettingsPos.Add(delta)
	return l
}

// WithWhiteboard 显示或隐藏白板。返回白板移动的位移，内容需随之平移
func (l Layout) WithWhiteboard(visible bool) (Layout, geom.Point) {
	l.WhiteboardVisible = visible
	if !visible {
		return l, geom.Point{}
	}
	return l.placeWhiteboard()
}

// MoveToolbar 移动工具栏，白板跟随
func (l Layout) MoveToolbar(pos geom.Point) (Layout, geom.Point) {
	l.ToolbarPos = pos
	if !l.WhiteboardVisible {
		return l, geom.Point{}
	}
	return l.placeWhiteboard()
}

// ResizeWhiteboard 拖动手柄改变白板宽度
func (l Layout) ResizeWhiteboard(dx float64) Layout {
	l.WhiteboardWidth = math.Max(l.ToolbarRect().W, l.WhiteboardWidth+dx)
	if l.WhiteboardVisible {
		l, _ = l.placeWhiteboard()
	}
	return l
}

// ToggleCollapsed 收起或展开工具栏。收起时关闭所有面板和设置
func (l Layout) ToggleCollapsed() (Layout, geom.Point) {
	l.Collapsed = !l.Collapsed
	if l.Collapsed {
		l.Palette = PaletteNone
		l.SettingsVisible = false
	}
	if !l.WhiteboardVisible {
		return l, geom.Point{}
	}
	return l.placeWhiteboard()
}

func (l Layout) placeWhiteboard() (Layout, geom.Point) {
	tb := l.ToolbarRect()
	l.WhiteboardWidth = math.Max(tb.W, l.WhiteboardWidth)
	board := PlaceWhiteboard(tb, l.WhiteboardWidth)

	var delta geom.Point
	if l.whiteboardPlaced {
		delta = board.Min().Sub(l.Whiteboard.Min())
		if math.Abs(delta.X) < 0.01 && math.Abs(delta.Y) < 0.01 {
			delta = geom.Point{}
		}
	}
	l.Whiteboard = board
	l.whiteboardPlaced = true
	return l, delta
}

// WhiteboardRect 可见时返回白板矩形
func (l Layout) WhiteboardRect() (geom.Rect, bool) {
	if !l.WhiteboardVisible || l.Whiteboard.Empty() {
		return geom.Rect{}, false
	}
	return l.Whiteboard, true
}
