package overlay

import (
	"log/slog"
	"math"

	"glassmark/internal/annotate"
	"glassmark/internal/geom"
	"glassmark/internal/hotkey"
	"glassmark/internal/route"
	"glassmark/internal/tool"
)

const (
	// moveThreshold 按在形状上后拖动超过该距离才开始移动
	moveThreshold = 4.0
	// handleSize 选中元素的调整手柄边长
	handleSize = 10.0
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureInk
	gestureErase
	gesturePlaceShape
	gestureMoveShape
	gestureResizeShape
	gestureMoveText
	gestureResizeText
	gestureBoardResize
)

// gesture 进行中的指针手势。按下时开始，抬起或失去独占时结束
type gesture struct {
	kind   gestureKind
	id     string
	origin geom.Point
	last   geom.Point
	moved  bool
}

// textState 文本工具的移动模式和 Alt+X 组合键状态
type textState struct {
	moveMode       bool
	chordHeld      bool
	altDown        bool
	xDown          bool
	suppressCreate bool
}

// releaseChord 丢弃组合键状态，离开文本工具时调用
func (t *textState) releaseChord() {
	t.chordHeld = false
	t.xDown = false
}

func (t *textState) chordActive() bool {
	return t.chordHeld || (t.altDown && t.xDown)
}

func (o *Overlay) handlePointer(ev PointerEvent) route.Decision {
	if ev.Kind == route.HitTest {
		return o.HitTest(ev.Window, ev.Screen)
	}
	o.text.altDown = ev.Alt

	res := o.router.Resolve(ev.Window, ev.Screen, ev.Kind)
	if res.Decision == route.PassThrough {
		return res.Decision
	}
	p := o.router.ToLayer(ev.Screen)

	// 进行中的手势拥有后续的移动和抬起，即使指针经过了界面控件
	if o.g.kind != gestureNone && ev.Kind != route.PointerDown {
		o.continueGesture(ev, p)
		return route.Consume
	}
	if res.Layer == route.LayerUI {
		o.pointerOnUI(res.Region, ev, p)
		return route.Consume
	}

	switch ev.Kind {
	case route.PointerDown:
		if o.g.kind != gestureNone {
			o.finishGesture()
		}
		clicks := ev.ClickCount
		if clicks == 0 {
			clicks = o.click.next(p, ev.At)
		}
		o.pointerDown(p, clicks, ev.Alt)
	case route.PointerMove:
		o.pointerMove()
	case route.PointerUp:
		o.pointerUp()
	}
	return route.Consume
}

// pointerOnUI 界面控件由渲染层处理，这里只处理白板宽度手柄
func (o *Overlay) pointerOnUI(region route.Region, ev PointerEvent, p geom.Point) {
	if ev.Kind != route.PointerDown {
		return
	}
	if o.g.kind != gestureNone {
		o.finishGesture()
	}
	if region == route.RegionWhiteboardThumb {
		o.beginGesture(gestureBoardResize, "", p)
	}
}

func (o *Overlay) pointerDown(p geom.Point, clicks int, alt bool) {
	mode := o.tools.Mode()

	if mode == tool.Text {
		held := o.text.chordActive()
		if !held {
			_, overText := o.model.TextBoxAt(p)
			held = alt && overText
		}
		o.setMoveText(held)
	}

	// 点击正在编辑的文本框之外：先结束编辑，并吞掉这次点击产生的新建
	if editing, ok := o.model.EditingID(); ok {
		if hit, over := o.model.TextBoxAt(p); !over || hit != editing {
			o.model.EndEdit()
			o.text.suppressCreate = !over
		}
	}

	switch mode {
	case tool.Pen, tool.Highlighter:
		o.model.Deselect()
		id, err := o.model.BeginStroke(p, o.style.Color, o.style.Thickness, mode == tool.Highlighter)
		if err != nil {
			slog.Debug("[overlay] stroke rejected", "error", err)
			return
		}
		o.beginGesture(gestureInk, id, p)
	case tool.Eraser:
		o.erase(p)
		o.g = gesture{kind: gestureErase, origin: p, last: p}
	case tool.Shapes:
		o.shapeDown(p)
	case tool.Text:
		o.textDown(p, clicks)
	}
}

func (o *Overlay) pointerMove() {
	if o.tools.Mode() == tool.Text {
		o.setMoveText(o.text.chordActive())
	}
}

func (o *Overlay) pointerUp() {
	if o.tools.Mode() == tool.Text && o.text.moveMode && !o.text.chordActive() {
		o.setMoveText(false)
	}
}

func (o *Overlay) continueGesture(ev PointerEvent, p geom.Point) {
	switch ev.Kind {
	case route.PointerMove:
		o.dragTo(p, ev.Pressed)
	case route.PointerUp:
		o.finishGesture()
		o.pointerUp()
	}
}

func (o *Overlay) beginGesture(kind gestureKind, id string, p geom.Point) {
	o.g = gesture{kind: kind, id: id, origin: p, last: p}
	o.router.Capture()
}

func (o *Overlay) dragTo(p geom.Point, pressed bool) {
	g := &o.g
	delta := p.Sub(g.last)
	switch g.kind {
	case gestureInk:
		if err := o.model.AppendStroke(g.id, p); err != nil {
			slog.Debug("[overlay] stroke point dropped", "error", err)
		}
	case gestureErase:
		if pressed {
			o.erase(p)
		}
	case gesturePlaceShape, gestureResizeShape:
		_ = o.model.SetShapeEnd(g.id, p)
	case gestureMoveShape:
		if !g.moved {
			d := p.Sub(g.origin)
			if math.Abs(d.X) < moveThreshold && math.Abs(d.Y) < moveThreshold {
				return
			}
			g.moved = true
			delta = d
		}
		_ = o.model.MoveShape(g.id, delta)
	case gestureMoveText:
		_ = o.model.MoveTextBox(g.id, delta)
	case gestureResizeText:
		if t, ok := o.model.TextBox(g.id); ok {
			_ = o.model.ResizeTextBox(g.id, geom.Size{W: t.Size.W + delta.X, H: t.Size.H + delta.Y})
		}
	case gestureBoardResize:
		o.ResizeWhiteboard(delta.X)
	}
	g.last = p
	o.surface.Invalidate()
}

// finishGesture 正常结束手势并释放独占
func (o *Overlay) finishGesture() {
	g := o.g
	o.g = gesture{}
	o.router.Release()

	switch g.kind {
	case gestureInk:
		if err := o.model.EndStroke(g.id); err != nil {
			slog.Debug("[overlay] stroke discarded", "error", err)
		}
	case gesturePlaceShape:
		slog.Debug("[overlay] shape placed", "id", g.id)
	}
}

// cancelGesture 系统意外取消独占时复位手势状态。已产生的内容保留
func (o *Overlay) cancelGesture() {
	if o.g.kind == gestureNone {
		o.router.Release()
		return
	}
	slog.Debug("[overlay] gesture cancelled", "kind", int(o.g.kind))
	o.finishGesture()
}

func (o *Overlay) erase(p geom.Point) {
	if ref, ok := o.model.EraseAt(p); ok {
		slog.Debug("[overlay] erased", "type", ref.Type.String(), "id", ref.ID)
		o.surface.Invalidate()
	}
}

func (o *Overlay) shapeDown(p geom.Point) {
	// 先看选中形状的终点手柄
	if sel := o.model.Selected(); sel.Type == annotate.ElementShape {
		if s, ok := o.model.Shape(sel.ID); ok && geom.CenteredAt(s.End, geom.Size{W: handleSize, H: handleSize}).Contains(p) {
			o.beginGesture(gestureResizeShape, s.ID, p)
			return
		}
	}

	if id, ok := o.model.ShapeAt(p); ok {
		o.selectElement(annotate.Ref{Type: annotate.ElementShape, ID: id})
		o.beginGesture(gestureMoveShape, id, p)
		return
	}

	o.model.Deselect()
	id, err := o.model.AddShape(o.tools.ShapeKind(), p, o.style.Color, o.style.Thickness)
	if err != nil {
		slog.Debug("[overlay] shape rejected", "error", err)
		return
	}
	_ = o.model.Select(annotate.Ref{Type: annotate.ElementShape, ID: id})
	o.beginGesture(gesturePlaceShape, id, p)
}

func (o *Overlay) textDown(p geom.Point, clicks int) {
	hit, overText := o.model.TextBoxAt(p)

	if o.text.moveMode {
		if overText {
			o.selectElement(annotate.Ref{Type: annotate.ElementText, ID: hit})
			o.beginGesture(gestureMoveText, hit, p)
			return
		}
		o.model.Deselect()
		return
	}

	if overText {
		o.selectElement(annotate.Ref{Type: annotate.ElementText, ID: hit})
		if clicks == 2 {
			_ = o.model.BeginEdit(hit)
			return
		}
		if t, ok := o.model.TextBox(hit); ok && !t.Editing() && textResizeHandle(t).Contains(p) {
			o.beginGesture(gestureResizeText, hit, p)
		}
		return
	}

	if o.text.suppressCreate {
		o.text.suppressCreate = false
		return
	}

	id, err := o.model.AddTextBox(p, o.style.FontSize, o.style.Color, o.style.TextBackground)
	if err != nil {
		slog.Debug("[overlay] text box rejected", "error", err)
		return
	}
	_ = o.model.BeginEdit(id)
}

// textResizeHandle 文本框右下角的调整手柄
func textResizeHandle(t annotate.TextBox) geom.Rect {
	b := t.Bounds()
	return geom.R(b.Right()-handleSize, b.Bottom()-handleSize, handleSize, handleSize)
}

// setMoveText 切换文本移动模式。进入时结束编辑
func (o *Overlay) setMoveText(enabled bool) {
	if o.text.moveMode == enabled {
		return
	}
	o.text.moveMode = enabled
	if enabled {
		o.model.EndEdit()
	} else if o.g.kind == gestureMoveText {
		o.finishGesture()
	}
}

// MoveTextMode 文本框当前是可拖动（true）还是可编辑
func (o *Overlay) MoveTextMode() bool {
	return o.text.moveMode
}

func (o *Overlay) handleKey(ev KeyEvent) route.Decision {
	switch {
	case ev.Key == hotkey.KeyAlt:
		o.text.altDown = ev.Kind == route.KeyDown
	case ev.Key == hotkey.KeyX:
		o.text.xDown = ev.Kind == route.KeyDown
		o.text.altDown = ev.Alt
	default:
		o.text.altDown = ev.Alt
	}

	// 松开 X 或 Alt 总是结束组合键，不论当前工具和路由
	if ev.Kind == route.KeyUp && (ev.Key == hotkey.KeyX || ev.Key == hotkey.KeyAlt) {
		o.text.chordHeld = false
		o.setMoveText(false)
	}

	if o.router.Route(route.WindowOverlay, geom.Point{}, ev.Kind) == route.PassThrough {
		return route.PassThrough
	}

	if ev.Kind != route.KeyDown {
		return route.Consume
	}
	if ev.Key == hotkey.KeyEscape {
		if o.model.EndEdit() {
			o.surface.Invalidate()
		}
		return route.Consume
	}
	if o.tools.Mode() == tool.Text && ev.Alt && ev.Key == hotkey.KeyX {
		o.text.chordHeld = true
		o.setMoveText(true)
	}
	return route.Consume
}

func (o *Overlay) handleTextInput(text string) {
	id, ok := o.model.EditingID()
	if !ok {
		return
	}
	_ = o.model.SetText(id, text)
	o.surface.Invalidate()
}
