package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"glassmark/internal/annotate"
	"glassmark/internal/config"
	"glassmark/internal/geom"
	"glassmark/internal/hotkey"
	"glassmark/internal/route"
	"glassmark/internal/tool"
)

// Do 执行一个热键动作
func (o *Overlay) Do(a hotkey.Action) {
	switch a {
	case hotkey.ToggleCursor:
		o.ToggleCursorMode()
	case hotkey.ToggleVisibility:
		o.ToggleVisibility()
	case hotkey.CloseApp:
		o.Close()
	case hotkey.ClearAll:
		o.ClearAll()
	case hotkey.Undo:
		o.Undo()
	case hotkey.SelectPen:
		o.SetTool(tool.Pen)
	case hotkey.SelectHighlighter:
		o.SetTool(tool.Highlighter)
	case hotkey.SelectEraser:
		o.SetTool(tool.Eraser)
	case hotkey.ShapeLine:
		o.ActivateShape(annotate.ShapeLine)
	case hotkey.ShapeArrow:
		o.ActivateShape(annotate.ShapeArrow)
	case hotkey.ShapeRectangle:
		o.ActivateShape(annotate.ShapeRectangle)
	case hotkey.ShapeEllipse:
		o.ActivateShape(annotate.ShapeEllipse)
	case hotkey.ToggleColorPalette:
		o.TogglePalette(route.PaletteColor)
	default:
		slog.Warn("[overlay] unknown action", "action", string(a))
	}
}

// SetTool 切换工具：先取消选择并提交编辑，离开文本模式时关闭移动模式，再更新标志和光标
func (o *Overlay) SetTool(m tool.Mode) {
	if o.g.kind != gestureNone {
		o.finishGesture()
	}
	o.model.Deselect()
	if m != tool.Text {
		o.text.releaseChord()
		o.setMoveText(false)
	}
	tr := o.tools.Set(m)
	o.surface.SetClickThrough(tr.Flags.ClickThrough)
	o.surface.SetCursor(tr.Flags.Cursor)
	o.surface.Invalidate()
	slog.Debug("[overlay] tool", "from", tr.From.String(), "to", tr.To.String())
}

// ToggleCursorMode 在穿透模式和之前的工具之间切换
func (o *Overlay) ToggleCursorMode() {
	o.SetTool(o.tools.ToggleTarget())
}

// ActivateShape 选择形状类型并进入形状模式
func (o *Overlay) ActivateShape(k annotate.ShapeKind) {
	o.tools.SetShapeKind(k)
	o.SetTool(tool.Shapes)
}

// SetShapeKind 只修改形状类型
func (o *Overlay) SetShapeKind(k annotate.ShapeKind) {
	o.tools.SetShapeKind(k)
}

// ToggleVisibility 隐藏或显示两个窗口。隐藏时所有点都穿透
func (o *Overlay) ToggleVisibility() {
	o.setHidden(!o.layout.Hidden)
}

// Minimize 最小化：切到穿透模式，关闭白板并隐藏
func (o *Overlay) Minimize() {
	o.SetTool(tool.Cursor)
	o.SetWhiteboardVisible(false)
	o.setHidden(true)
}

// Restore 从最小化恢复显示
func (o *Overlay) Restore() {
	o.setHidden(false)
}

func (o *Overlay) setHidden(hidden bool) {
	if o.layout.Hidden == hidden {
		return
	}
	if hidden && o.g.kind != gestureNone {
		o.finishGesture()
	}
	o.layout.Hidden = hidden
	o.router.Sync(o.layout)
	o.surface.SetVisible(!hidden)
}

// ClearAll 删除全部内容，清空撤销历史并以空会话作为新基线
func (o *Overlay) ClearAll() {
	if o.g.kind != gestureNone {
		o.finishGesture()
	}
	o.model.Clear()
	o.history.Clear()
	if err := o.history.Push(o.model.Snapshot()); err != nil {
		slog.Warn("[overlay] failed to push empty baseline", "error", err)
	}
	o.pending = saveNone
	o.schedulePersist()
	o.surface.Invalidate()
}

// Undo 回到上一个快照。待保存的修改先压入历史，这样撤销的正是它
func (o *Overlay) Undo() {
	if o.g.kind != gestureNone {
		o.finishGesture()
	}
	if o.model.EndEdit() || o.pending == saveSnapshot {
		o.Flush()
	}
	session, err := o.history.Undo()
	if err != nil {
		if errors.Is(err, annotate.ErrNothingToUndo) {
			slog.Debug("[overlay] nothing to undo")
			return
		}
		slog.Warn("[overlay] undo failed", "error", err)
		return
	}
	o.model.Restore(session)
	o.schedulePersist()
	o.surface.Invalidate()
}

// ---- 选择与样式 ----

// selectElement 选中元素并采用它的样式作为当前样式
func (o *Overlay) selectElement(ref annotate.Ref) {
	if err := o.model.Select(ref); err != nil {
		return
	}
	switch ref.Type {
	case annotate.ElementShape:
		if s, ok := o.model.Shape(ref.ID); ok {
			o.style.Color = s.StrokeColor
			o.style.Thickness = s.Thickness
		}
	case annotate.ElementText:
		if t, ok := o.model.TextBox(ref.ID); ok {
			o.style.Color = t.Color
			o.style.FontSize = t.FontSize
			o.style.TextBackground = t.HasBackground
		}
	}
}

// SetColor 修改当前颜色，选中的形状或文本框随之改变
func (o *Overlay) SetColor(c annotate.Color) {
	o.style.Color = c.WithAlpha(0xFF)
	o.restyleSelected()
}

// SelectToolbarColor 使用工具栏上第 slot 个颜色
func (o *Overlay) SelectToolbarColor(slot int) error {
	if slot < 0 || slot >= len(o.settings.ToolbarColors) {
		return fmt.Errorf("toolbar color slot %d out of range", slot)
	}
	o.SetColor(o.settings.ToolbarColors[slot])
	return nil
}

// SetThickness 修改线宽
func (o *Overlay) SetThickness(t float64) {
	if t <= 0 {
		return
	}
	o.style.Thickness = t
	o.restyleSelected()
}

// SetFontSize 修改字号
func (o *Overlay) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	o.style.FontSize = size
	o.restyleSelected()
}

// SetTextBackground 文本框是否带背景
func (o *Overlay) SetTextBackground(on bool) {
	o.style.TextBackground = on
	o.restyleSelected()
}

func (o *Overlay) restyleSelected() {
	sel := o.model.Selected()
	switch sel.Type {
	case annotate.ElementShape:
		_ = o.model.UpdateShape(sel.ID, func(s *annotate.Shape) {
			s.StrokeColor = o.style.Color
			s.Thickness = o.style.Thickness
		})
	case annotate.ElementText:
		_ = o.model.UpdateTextBox(sel.ID, func(t *annotate.TextBox) {
			t.Color = o.style.Color
			t.FontSize = o.style.FontSize
			t.HasBackground = o.style.TextBackground
		})
	default:
		return
	}
	o.surface.Invalidate()
}

// ---- 布局 ----

// TogglePalette 切换弹出面板
func (o *Overlay) TogglePalette(p route.Palette) {
	o.setLayout(o.layout.TogglePalette(p), geom.Point{})
}

// ShowPalette 显示或隐藏弹出面板
func (o *Overlay) ShowPalette(p route.Palette, visible bool) {
	o.setLayout(o.layout.WithPalette(p, visible), geom.Point{})
}

// ToggleSettings 切换设置面板
func (o *Overlay) ToggleSettings() {
	o.SetSettingsVisible(!o.layout.SettingsVisible)
}

// SetSettingsVisible 显示设置面板时白板隐藏
func (o *Overlay) SetSettingsVisible(visible bool) {
	o.setLayout(o.layout.WithSettings(visible), geom.Point{})
}

// MoveSettings 拖动设置面板
func (o *Overlay) MoveSettings(delta geom.Point) {
	o.setLayout(o.layout.MoveSettings(delta), geom.Point{})
}

// ToggleWhiteboard 切换白板
func (o *Overlay) ToggleWhiteboard() {
	o.SetWhiteboardVisible(!o.layout.WhiteboardVisible)
}

// SetWhiteboardVisible 显示或隐藏白板，白板移动时内容随之平移
func (o *Overlay) SetWhiteboardVisible(visible bool) {
	o.setLayout(o.layout.WithWhiteboard(visible))
}

// ResizeWhiteboard 调整白板宽度
func (o *Overlay) ResizeWhiteboard(dx float64) {
	o.setLayout(o.layout.ResizeWhiteboard(dx), geom.Point{})
}

// MoveToolbar 移动工具栏，白板和其中内容跟随
func (o *Overlay) MoveToolbar(pos geom.Point) {
	o.setLayout(o.layout.MoveToolbar(pos))
}

// ToggleCollapsed 收起或展开工具栏
func (o *Overlay) ToggleCollapsed() {
	o.setLayout(o.layout.ToggleCollapsed())
}

// SetSizes 渲染层测量到控件尺寸后更新
func (o *Overlay) SetSizes(s route.Sizes) {
	l := o.layout
	l.Sizes = s
	if l.WhiteboardVisible {
		o.setLayout(l.WithWhiteboard(true))
		return
	}
	o.setLayout(l, geom.Point{})
}

// SetToolbarExtents 登记工具栏超出主边界的子元素
func (o *Overlay) SetToolbarExtents(rects ...geom.Rect) {
	o.router.Regions().SetExtents(route.RegionToolbar, rects...)
}

func (o *Overlay) setLayout(l route.Layout, delta geom.Point) {
	o.layout = l
	o.router.Sync(l)
	if delta != (geom.Point{}) {
		o.model.Translate(delta)
	}
	o.surface.Invalidate()
}

// ---- 设置与热键 ----

// ApplyHotkeys 清空后重新注册全部热键，冲突以通知提示
func (o *Overlay) ApplyHotkeys() []hotkey.Conflict {
	if o.hotkeys == nil {
		return nil
	}
	conflicts := o.hotkeys.Apply(o.settings.Hotkeys)
	if len(conflicts) > 0 {
		msgs := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			msgs = append(msgs, c.Error())
		}
		o.notifier.Show("热键注册失败", strings.Join(msgs, "\n"))
	}
	slog.Info("[overlay] hotkeys applied", "registered", o.hotkeys.Len(), "conflicts", len(conflicts))
	return conflicts
}

// ApplyHotkeysAndSave 重新注册热键并保存设置
func (o *Overlay) ApplyHotkeysAndSave() []hotkey.Conflict {
	conflicts := o.ApplyHotkeys()
	o.saveSettings()
	return conflicts
}

// SetHotkey 修改一个动作的热键
func (o *Overlay) SetHotkey(a hotkey.Action, b hotkey.Binding) []hotkey.Conflict {
	o.settings.SetHotkey(a, b)
	return o.ApplyHotkeysAndSave()
}

// AddColor 把用户输入的 RGB 加入颜色库。输入无效时不做任何修改
func (o *Overlay) AddColor(r, g, b string) error {
	c, err := config.ParseRGB(r, g, b)
	if err != nil {
		return err
	}
	if o.settings.AddColor(c) {
		o.saveSettings()
	}
	return nil
}

// SetToolbarColor 替换工具栏颜色并保存
func (o *Overlay) SetToolbarColor(slot int, c annotate.Color) error {
	if err := o.settings.SetToolbarColor(slot, c); err != nil {
		return err
	}
	o.saveSettings()
	return nil
}

// ReloadSettings 设置文件被外部修改后重新读取并应用
func (o *Overlay) ReloadSettings() {
	if o.settingsPath == "" {
		return
	}
	s, err := config.Load(o.settingsPath)
	if err != nil {
		o.notifier.Show("设置文件无效", err.Error())
		return
	}
	// 自己保存设置也会触发文件监视，内容没变就不重新注册
	if s.Equal(o.settings) {
		slog.Debug("[overlay] settings unchanged, reload skipped")
		return
	}
	o.settings = s
	o.ApplyHotkeys()
	o.surface.Invalidate()
}

func (o *Overlay) saveSettings() {
	if o.settingsPath == "" {
		return
	}
	if err := o.settings.Save(o.settingsPath); err != nil {
		slog.Warn("[overlay] settings save failed", "error", err)
		o.notifier.Show("保存设置失败", err.Error())
	}
}
