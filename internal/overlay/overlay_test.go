package overlay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"glassmark/internal/annotate"
	"glassmark/internal/config"
	"glassmark/internal/geom"
	"glassmark/internal/hotkey"
	"glassmark/internal/route"
	"glassmark/internal/storage"
	"glassmark/internal/tool"
)

type fakeScheduler struct {
	scheduled int
	stopped   int
}

func (f *fakeScheduler) Schedule() { f.scheduled++ }
func (f *fakeScheduler) Stop()     { f.stopped++ }

type fakeBackend struct {
	refuse map[hotkey.Binding]bool
	active map[int]hotkey.Binding
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{refuse: map[hotkey.Binding]bool{}, active: map[int]hotkey.Binding{}}
}

func (f *fakeBackend) Register(id int, b hotkey.Binding) error {
	if f.refuse[b] {
		return errors.New("registered by another application")
	}
	f.active[id] = b
	return nil
}

func (f *fakeBackend) Unregister(id int) error {
	delete(f.active, id)
	return nil
}

func (f *fakeBackend) idFor(b hotkey.Binding) (int, bool) {
	for id, x := range f.active {
		if x == b {
			return id, true
		}
	}
	return 0, false
}

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) Show(title, _ string) { f.titles = append(f.titles, title) }

type fakeSurface struct {
	clickThrough bool
	cursor       tool.Glyph
	visible      bool
}

func (f *fakeSurface) SetClickThrough(enabled bool) { f.clickThrough = enabled }
func (f *fakeSurface) SetCursor(g tool.Glyph)       { f.cursor = g }
func (f *fakeSurface) SetVisible(v bool)            { f.visible = v }
func (f *fakeSurface) Invalidate()                  {}

type harness struct {
	o        *Overlay
	sched    *fakeScheduler
	store    *storage.Store
	backend  *fakeBackend
	notes    *fakeNotifier
	surface  *fakeSurface
	settings string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		sched:    &fakeScheduler{},
		store:    storage.NewStore(filepath.Join(dir, storage.SessionFileName)),
		backend:  newFakeBackend(),
		notes:    &fakeNotifier{},
		surface:  &fakeSurface{visible: true},
		settings: filepath.Join(dir, config.SettingsFileName),
	}
	h.o = New(Deps{
		Store:        h.store,
		Settings:     config.DefaultSettings(),
		SettingsPath: h.settings,
		Options:      config.DefaultOptions(),
		Hotkeys:      h.backend,
		Notifier:     h.notes,
		Surface:      h.surface,
		Layout:       route.NewLayout(geom.Size{W: 1920, H: 1080}, geom.R(0, 0, 1920, 1080), geom.Point{}, route.DefaultSizes()),
		NewScheduler: func(func()) Scheduler { return h.sched },
	})
	return h
}

func (h *harness) pointer(kind route.EventKind, x, y float64, clicks int, alt bool) route.Decision {
	return h.o.Handle(PointerEvent{
		Window:     route.WindowOverlay,
		Kind:       kind,
		Screen:     geom.Pt(x, y),
		ClickCount: clicks,
		Alt:        alt,
		Pressed:    kind == route.PointerMove,
	})
}

func (h *harness) down(x, y float64) route.Decision { return h.pointer(route.PointerDown, x, y, 1, false) }
func (h *harness) move(x, y float64) route.Decision { return h.pointer(route.PointerMove, x, y, 0, false) }
func (h *harness) up(x, y float64) route.Decision   { return h.pointer(route.PointerUp, x, y, 0, false) }

func (h *harness) drag(from, to geom.Point) {
	h.down(from.X, from.Y)
	h.move(to.X, to.Y)
	h.up(to.X, to.Y)
}

func (h *harness) tick() { h.o.Handle(saveTick{}) }

func TestNewSeedsBaseline(t *testing.T) {
	h := newHarness(t)
	if h.o.Tools().Mode() != tool.Pen {
		t.Fatalf("initial mode = %v", h.o.Tools().Mode())
	}
	if h.o.History().Len() != 1 {
		t.Fatalf("history = %d, want baseline only", h.o.History().Len())
	}
	if h.surface.clickThrough {
		t.Fatal("pen mode should not be click-through")
	}
}

func TestDebouncedSaveAndUndo(t *testing.T) {
	h := newHarness(t)
	h.drag(geom.Pt(300, 300), geom.Pt(350, 320))
	if h.sched.scheduled == 0 {
		t.Fatal("stroke did not schedule a save")
	}
	h.tick()
	if got := len(h.store.Load().Strokes); got != 1 {
		t.Fatalf("saved strokes = %d", got)
	}
	if h.o.History().Len() != 2 {
		t.Fatalf("history = %d", h.o.History().Len())
	}

	h.o.Undo()
	if len(h.o.Model().Strokes()) != 0 {
		t.Fatal("undo did not restore the baseline")
	}
	h.tick()
	if got := len(h.store.Load().Strokes); got != 0 {
		t.Fatalf("saved strokes after undo = %d", got)
	}
	if h.o.History().Len() != 1 {
		t.Fatalf("undo persisted a new snapshot, history = %d", h.o.History().Len())
	}

	// 基线处再撤销不改变任何内容
	h.o.Undo()
	if len(h.o.Model().Strokes()) != 0 || h.o.History().Len() != 1 {
		t.Fatal("undo at baseline changed state")
	}
}

func TestUndoFlushesPendingEdit(t *testing.T) {
	h := newHarness(t)
	h.drag(geom.Pt(300, 300), geom.Pt(350, 320))
	h.tick()
	h.drag(geom.Pt(400, 400), geom.Pt(450, 420))

	h.o.Undo()
	strokes := h.o.Model().Strokes()
	if len(strokes) != 1 || strokes[0].Points[0] != geom.Pt(300, 300) {
		t.Fatalf("undo should remove only the unsaved stroke, got %d strokes", len(strokes))
	}
}

func TestSaveTickWithoutChangesIsNoop(t *testing.T) {
	h := newHarness(t)
	h.tick()
	if h.o.History().Len() != 1 {
		t.Fatalf("idle tick pushed a snapshot, history = %d", h.o.History().Len())
	}
}

func TestClearAllResetsHistory(t *testing.T) {
	h := newHarness(t)
	h.drag(geom.Pt(300, 300), geom.Pt(350, 320))
	h.tick()
	h.drag(geom.Pt(400, 400), geom.Pt(450, 420))
	h.tick()

	h.o.ClearAll()
	if h.o.History().Len() != 1 {
		t.Fatalf("history after clear = %d", h.o.History().Len())
	}
	h.o.Undo()
	if len(h.o.Model().Strokes()) != 0 {
		t.Fatal("undo after clear brought content back")
	}
	h.tick()
	if got := len(h.store.Load().Strokes); got != 0 {
		t.Fatalf("saved strokes after clear = %d", got)
	}
	if h.o.History().Len() != 1 {
		t.Fatalf("clear persisted a duplicate baseline, history = %d", h.o.History().Len())
	}
}

func TestToggleCursorRestoresTool(t *testing.T) {
	h := newHarness(t)
	h.o.SetTool(tool.Eraser)
	h.o.ToggleCursorMode()
	if h.o.Tools().Mode() != tool.Cursor || !h.surface.clickThrough || h.surface.cursor != tool.GlyphArrow {
		t.Fatalf("toggle to cursor: mode %v click-through %v", h.o.Tools().Mode(), h.surface.clickThrough)
	}
	h.o.ToggleCursorMode()
	if h.o.Tools().Mode() != tool.Eraser || h.surface.clickThrough {
		t.Fatalf("toggle back = %v", h.o.Tools().Mode())
	}
}

func TestCursorModePassesThroughExceptToolbar(t *testing.T) {
	h := newHarness(t)
	h.o.SetTool(tool.Cursor)
	if got := h.down(900, 700); got != route.PassThrough {
		t.Fatalf("cursor mode empty point = %v", got)
	}
	if len(h.o.Model().Strokes()) != 0 {
		t.Fatal("cursor mode drew a stroke")
	}
	if got := h.o.HitTest(route.WindowToolbar, geom.Pt(30, 30)); got != route.Consume {
		t.Fatalf("toolbar in cursor mode = %v", got)
	}
}

func TestHotkeysDispatchThroughTable(t *testing.T) {
	h := newHarness(t)
	if conflicts := h.o.ApplyHotkeys(); len(conflicts) != 0 {
		t.Fatalf("conflicts = %v", conflicts)
	}
	if len(h.backend.active) != 5 {
		t.Fatalf("registered = %d, want 5 default bindings", len(h.backend.active))
	}
	id, ok := h.backend.idFor(hotkey.Binding{Key: hotkey.KeyF8})
	if !ok {
		t.Fatal("F8 not registered")
	}
	h.o.Handle(HotkeyPressed{ID: id})
	if h.o.Tools().Mode() != tool.Cursor {
		t.Fatalf("F8 mode = %v", h.o.Tools().Mode())
	}
	// 过期的 id 被忽略
	h.o.Handle(HotkeyPressed{ID: 999})
}

func TestHotkeyConflictNotifies(t *testing.T) {
	h := newHarness(t)
	h.backend.refuse[hotkey.Binding{Key: hotkey.KeyF9}] = true
	conflicts := h.o.ApplyHotkeys()
	if len(conflicts) != 1 || conflicts[0].Action != hotkey.ToggleVisibility {
		t.Fatalf("conflicts = %v", conflicts)
	}
	if !errors.Is(conflicts[0].Err, hotkey.ErrAlreadyInUse) {
		t.Fatalf("conflict error = %v", conflicts[0].Err)
	}
	if len(h.notes.titles) != 1 {
		t.Fatalf("notifications = %v", h.notes.titles)
	}
	if len(h.backend.active) != 4 {
		t.Fatalf("other hotkeys should still register, got %d", len(h.backend.active))
	}
}

func TestSetHotkeySavesSettings(t *testing.T) {
	h := newHarness(t)
	b := hotkey.Binding{Modifiers: hotkey.ModCtrl | hotkey.ModAlt, Key: hotkey.KeyA + 15}
	h.o.SetHotkey(hotkey.SelectPen, b)
	if _, ok := h.backend.idFor(b); !ok {
		t.Fatal("new binding not registered")
	}
	saved, err := config.Load(h.settings)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Hotkeys[hotkey.SelectPen] != b {
		t.Fatalf("saved binding = %v", saved.Hotkeys[hotkey.SelectPen])
	}
}

func TestReloadSkipsUnchangedSettings(t *testing.T) {
	h := newHarness(t)
	h.backend.refuse[hotkey.Binding{Key: hotkey.KeyF9}] = true
	b := hotkey.Binding{Modifiers: hotkey.ModCtrl | hotkey.ModAlt, Key: hotkey.KeyA + 15}
	h.o.SetHotkey(hotkey.SelectPen, b)
	if len(h.notes.titles) != 1 {
		t.Fatalf("notifications = %v", h.notes.titles)
	}
	before, _ := h.backend.idFor(b)

	// 自己写出的文件触发的重载
	h.o.Handle(SettingsChanged{})
	if len(h.notes.titles) != 1 {
		t.Fatalf("own write re-notified: %v", h.notes.titles)
	}
	if after, _ := h.backend.idFor(b); after != before {
		t.Fatalf("own write re-registered hotkeys: id %d -> %d", before, after)
	}

	edited, err := config.Load(h.settings)
	if err != nil {
		t.Fatal(err)
	}
	edited.SetHotkey(hotkey.Undo, hotkey.Unassigned)
	if err := edited.Save(h.settings); err != nil {
		t.Fatal(err)
	}
	h.o.Handle(SettingsChanged{})
	if h.o.Settings().Hotkeys[hotkey.Undo].Assigned() {
		t.Fatal("external edit not applied")
	}
	if len(h.notes.titles) != 2 {
		t.Fatalf("external edit should reapply hotkeys, notifications = %v", h.notes.titles)
	}
}

func TestActionEvents(t *testing.T) {
	h := newHarness(t)
	h.o.Handle(ActionEvent{Action: hotkey.ShapeArrow})
	if h.o.Tools().Mode() != tool.Shapes || h.o.Tools().ShapeKind() != annotate.ShapeArrow {
		t.Fatalf("shapeArrow: mode %v kind %v", h.o.Tools().Mode(), h.o.Tools().ShapeKind())
	}
	h.o.Handle(ActionEvent{Action: hotkey.ToggleColorPalette})
	if h.o.Layout().Palette != route.PaletteColor {
		t.Fatalf("palette = %v", h.o.Layout().Palette)
	}
	h.o.Handle(ActionEvent{Action: hotkey.SelectHighlighter})
	if h.o.Tools().Mode() != tool.Highlighter {
		t.Fatalf("mode = %v", h.o.Tools().Mode())
	}
}

func TestToggleVisibilityHidesEverything(t *testing.T) {
	h := newHarness(t)
	h.o.ToggleVisibility()
	if h.surface.visible {
		t.Fatal("surface still visible")
	}
	if got := h.o.HitTest(route.WindowToolbar, geom.Pt(30, 30)); got != route.PassThrough {
		t.Fatalf("hidden toolbar = %v", got)
	}
	h.o.ToggleVisibility()
	if !h.surface.visible || h.o.HitTest(route.WindowToolbar, geom.Pt(30, 30)) != route.Consume {
		t.Fatal("overlay not restored")
	}
}

func TestMinimize(t *testing.T) {
	h := newHarness(t)
	h.o.SetWhiteboardVisible(true)
	h.o.Minimize()
	l := h.o.Layout()
	if h.o.Tools().Mode() != tool.Cursor || l.WhiteboardVisible || !l.Hidden {
		t.Fatalf("minimize: mode %v layout %+v", h.o.Tools().Mode(), l)
	}
}

func TestWhiteboardMoveTranslatesContent(t *testing.T) {
	h := newHarness(t)
	if _, err := h.o.Model().AddStroke(annotate.Stroke{Points: []geom.Point{geom.Pt(100, 100)}, Color: annotate.Red, Thickness: 2}); err != nil {
		t.Fatal(err)
	}
	h.o.SetWhiteboardVisible(true)
	if got := h.o.Model().Strokes()[0].Points[0]; got != geom.Pt(100, 100) {
		t.Fatalf("first placement moved content to %v", got)
	}
	h.o.MoveToolbar(geom.Pt(120, 70))
	if got := h.o.Model().Strokes()[0].Points[0]; got != geom.Pt(200, 150) {
		t.Fatalf("content after toolbar move = %v", got)
	}
}

func TestSettingsPanelHidesWhiteboard(t *testing.T) {
	h := newHarness(t)
	h.o.SetWhiteboardVisible(true)
	h.o.ToggleSettings()
	if l := h.o.Layout(); !l.SettingsVisible || l.WhiteboardVisible {
		t.Fatalf("layout = %+v", l)
	}
}

func TestMinimizeAndRestore(t *testing.T) {
	h := newHarness(t)
	h.o.Minimize()
	h.o.Restore()
	if !h.surface.visible || h.o.Layout().Hidden {
		t.Fatal("restore did not show the overlay")
	}
	if h.o.Tools().Mode() != tool.Cursor {
		t.Fatalf("mode after restore = %v, want cursor", h.o.Tools().Mode())
	}
	if got := h.o.HitTest(route.WindowToolbar, geom.Pt(30, 30)); got != route.Consume {
		t.Fatalf("toolbar after restore = %v", got)
	}
}

func TestToolbarExtentsClaimPointer(t *testing.T) {
	h := newHarness(t)
	h.o.SetTool(tool.Cursor)
	p := geom.Pt(100, 30)
	if got := h.o.HitTest(route.WindowOverlay, p); got != route.PassThrough {
		t.Fatalf("outside toolbar = %v", got)
	}
	h.o.SetToolbarExtents(geom.R(76, 20, 40, 30))
	if got := h.o.HitTest(route.WindowOverlay, p); got != route.Consume {
		t.Fatalf("toolbar extent = %v", got)
	}
	h.o.SetToolbarExtents()
	if got := h.o.HitTest(route.WindowOverlay, p); got != route.PassThrough {
		t.Fatalf("cleared extent = %v", got)
	}
}

func TestShowPaletteIsExclusive(t *testing.T) {
	h := newHarness(t)
	h.o.ShowPalette(route.PaletteColor, true)
	if h.o.Layout().Palette != route.PaletteColor {
		t.Fatalf("palette = %v", h.o.Layout().Palette)
	}

	// 面板区域归界面，不产生笔迹
	h.drag(geom.Pt(100, 300), geom.Pt(110, 310))
	if len(h.o.Model().Strokes()) != 0 {
		t.Fatal("drag on the color palette drew a stroke")
	}

	h.o.ShowPalette(route.PaletteShape, true)
	h.o.ShowPalette(route.PaletteColor, false)
	if h.o.Layout().Palette != route.PaletteShape {
		t.Fatalf("hiding another palette changed the open one: %v", h.o.Layout().Palette)
	}
	h.o.ShowPalette(route.PaletteShape, false)
	if h.o.Layout().Palette != route.PaletteNone {
		t.Fatalf("palette = %v, want none", h.o.Layout().Palette)
	}
}

func TestMoveSettingsPanel(t *testing.T) {
	h := newHarness(t)
	h.o.SetTool(tool.Cursor)
	h.o.SetSettingsVisible(true)
	start := h.o.Layout().SettingsPos
	h.o.MoveSettings(geom.Pt(30, -10))
	if got := h.o.Layout().SettingsPos; got != start.Add(geom.Pt(30, -10)) {
		t.Fatalf("settings pos = %v, start %v", got, start)
	}
	// 只在移动后的面板内
	p := geom.Pt(start.X+420+10, start.Y+100)
	if got := h.o.HitTest(route.WindowOverlay, p); got != route.Consume {
		t.Fatalf("moved panel = %v", got)
	}
}

func TestSelectToolbarColor(t *testing.T) {
	h := newHarness(t)
	h.o.SetTool(tool.Shapes)
	h.drag(geom.Pt(300, 300), geom.Pt(400, 400))

	want := h.o.Settings().ToolbarColors[2]
	if err := h.o.SelectToolbarColor(2); err != nil {
		t.Fatalf("SelectToolbarColor: %v", err)
	}
	if h.o.Style().Color != want {
		t.Fatalf("style color = %v, want %v", h.o.Style().Color, want)
	}
	if got := h.o.Model().Shapes()[0].StrokeColor; got != want {
		t.Fatalf("selected shape color = %v, want %v", got, want)
	}

	if err := h.o.SelectToolbarColor(config.ToolbarColorCount); err == nil {
		t.Fatal("expected out of range error")
	}
	if h.o.Style().Color != want {
		t.Fatal("failed selection changed the color")
	}
}

func TestAddColor(t *testing.T) {
	h := newHarness(t)
	n := len(h.o.Settings().ColorLibrary)
	if err := h.o.AddColor("300", "0", "0"); !errors.Is(err, config.ErrInvalidColor) {
		t.Fatalf("AddColor invalid = %v", err)
	}
	if len(h.o.Settings().ColorLibrary) != n {
		t.Fatal("invalid input changed the library")
	}
	if err := h.o.AddColor("1", "2", "3"); err != nil {
		t.Fatal(err)
	}
	saved, err := config.Load(h.settings)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.ColorLibrary) != n+1 || saved.ColorLibrary[n] != annotate.RGB(1, 2, 3) {
		t.Fatalf("saved library = %v", saved.ColorLibrary)
	}
}

func TestRunFlushesOnClose(t *testing.T) {
	h := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- h.o.Run(context.Background()) }()

	h.o.Post(Call{Fn: func(o *Overlay) {
		_, _ = o.Model().AddStroke(annotate.Stroke{Points: []geom.Point{geom.Pt(5, 5)}, Color: annotate.Red, Thickness: 2})
	}})
	h.o.Post(ActionEvent{Action: hotkey.CloseApp})

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
	<-h.o.Done()
	if got := len(h.store.Load().Strokes); got != 1 {
		t.Fatalf("strokes flushed on close = %d", got)
	}
	// 循环结束后投递不会阻塞
	h.o.Post(ActionEvent{Action: hotkey.Undo})
}

func TestRunStopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.o.Run(ctx) }()
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
}
