package route

import (
	"glassmark/internal/geom"
	"glassmark/internal/tool"
)

// Window 参与命中测试的顶层窗口
type Window int

const (
	WindowOverlay Window = iota // 绘图主窗口
	WindowToolbar               // 透明工具栏窗口
)

// EventKind 输入事件类别
type EventKind int

const (
	HitTest EventKind = iota // 系统命中测试查询
	PointerDown
	PointerMove
	PointerUp
	Wheel
	KeyDown
	KeyUp
)

// Keyboard 是否为键盘事件
func (k EventKind) Keyboard() bool {
	return k == KeyDown || k == KeyUp
}

// Decision 路由结果
type Decision int

const (
	PassThrough Decision = iota // 交给下层窗口
	Consume                     // 覆盖层处理
)

func (d Decision) String() string {
	if d == Consume {
		return "consume"
	}
	return "pass"
}

// Layer 事件分发到的图层
type Layer int

const (
	LayerNone Layer = iota
	LayerUI
	LayerInk
	LayerShapes
	LayerText
)

// Reason 做出决定的依据，用于日志和测试
type Reason int

const (
	ReasonHidden Reason = iota
	ReasonClaimed
	ReasonToolbarWindow
	ReasonClickThrough
	ReasonCaptured
	ReasonOutsideWhiteboard
	ReasonLayer
	ReasonKeyboard
)

// Result 完整的路由结果
type Result struct {
	Decision Decision
	Layer    Layer
	Region   Region
	Reason   Reason
}

// ToolSource 提供当前工具模式
type ToolSource interface {
	Mode() tool.Mode
	Flags() tool.Flags
}

// Router 输入路由：按窗口、屏幕坐标和工具模式决定事件归属
type Router struct {
	regions  *Registry
	tools    ToolSource
	origin   geom.Point
	hidden   bool
	board    geom.Rect
	boardOn  bool
	captured bool
}

// NewRouter 创建路由器。origin 为覆盖层左上角的屏幕坐标
func NewRouter(regions *Registry, tools ToolSource, origin geom.Point) *Router {
	return &Router{
		regions: regions,
		tools:   tools,
		origin:  origin,
	}
}

// Regions 共享的区域登记表
func (r *Router) Regions() *Registry {
	return r.regions
}

// Sync 把布局同步到区域登记表和路由状态
func (r *Router) Sync(l Layout) {
	r.hidden = l.Hidden
	r.board, r.boardOn = l.WhiteboardRect()

	toolbar := l.ToolbarRect()
	r.regions.Set(RegionToolbar, toolbar, !l.Hidden)
	for p := PaletteShape; p < paletteCount; p++ {
		r.regions.Set(paletteRegion(p), l.PaletteRect(p), !l.Hidden && l.Palette == p)
	}
	r.regions.Set(RegionSettings, l.SettingsRect(), !l.Hidden && l.SettingsVisible)
	r.regions.Set(RegionWhiteboardThumb, WhiteboardThumb(r.board), !l.Hidden && r.boardOn)
}

func paletteRegion(p Palette) Region {
	switch p {
	case PaletteShape:
		return RegionShapePalette
	case PaletteInk:
		return RegionInkPalette
	case PaletteColor:
		return RegionColorPalette
	case PaletteFont:
		return RegionFontPalette
	}
	return RegionNone
}

// Capture 手势开始独占指针，后续移动和抬起都归它
func (r *Router) Capture() { r.captured = true }

// Release 释放指针独占
func (r *Router) Release() { r.captured = false }

// Captured 是否处于指针独占中
func (r *Router) Captured() bool { return r.captured }

// ToLayer 屏幕坐标转为覆盖层坐标
func (r *Router) ToLayer(screen geom.Point) geom.Point {
	return screen.Sub(r.origin)
}

// Route 返回事件是由覆盖层处理还是穿透到下层
func (r *Router) Route(w Window, screen geom.Point, kind EventKind) Decision {
	return r.Resolve(w, screen, kind).Decision
}

// Resolve 依次经过：隐藏、界面区域、工具栏窗口、键盘、穿透、独占、白板限制，最后按模式分层
func (r *Router) Resolve(w Window, screen geom.Point, kind EventKind) Result {
	if r.hidden {
		return Result{Decision: PassThrough, Reason: ReasonHidden}
	}

	p := r.ToLayer(screen)
	if !kind.Keyboard() {
		if region, ok := r.regions.Claimed(p); ok {
			return Result{Decision: Consume, Layer: LayerUI, Region: region, Reason: ReasonClaimed}
		}
	}

	// 工具栏窗口只承载界面控件，其余位置一律穿透
	if w == WindowToolbar {
		return Result{Decision: PassThrough, Reason: ReasonToolbarWindow}
	}

	flags := r.tools.Flags()
	if kind.Keyboard() {
		if flags.Interactive {
			return Result{Decision: Consume, Layer: layerFor(r.tools.Mode()), Reason: ReasonKeyboard}
		}
		return Result{Decision: PassThrough, Reason: ReasonKeyboard}
	}

	if flags.ClickThrough {
		return Result{Decision: PassThrough, Reason: ReasonClickThrough}
	}

	layer := layerFor(r.tools.Mode())
	if r.captured && kind != PointerDown {
		return Result{Decision: Consume, Layer: layer, Reason: ReasonCaptured}
	}

	if r.boardOn && !r.board.Contains(p) {
		return Result{Decision: PassThrough, Reason: ReasonOutsideWhiteboard}
	}

	return Result{Decision: Consume, Layer: layer, Reason: ReasonLayer}
}

func layerFor(m tool.Mode) Layer {
	switch m {
	case tool.Pen, tool.Highlighter, tool.Eraser:
		return LayerInk
	case tool.Shapes:
		return LayerShapes
	case tool.Text:
		return LayerText
	}
	return LayerNone
}
