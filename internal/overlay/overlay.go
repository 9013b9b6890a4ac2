// Package overlay 标注覆盖层的控制器：单一事件循环串行处理输入、热键、命令和定时保存
package overlay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"glassmark/internal/annotate"
	"glassmark/internal/config"
	"glassmark/internal/geom"
	"glassmark/internal/hotkey"
	"glassmark/internal/route"
	"glassmark/internal/tool"
)

const eventQueueSize = 256

// Notifier 向用户显示非致命警告
type Notifier interface {
	Show(title, message string)
}

// Surface 渲染层提供的窗口能力
type Surface interface {
	SetClickThrough(enabled bool)
	SetCursor(g tool.Glyph)
	SetVisible(visible bool)
	Invalidate()
}

// Style 新建元素使用的样式
type Style struct {
	Color          annotate.Color
	Thickness      float64
	FontSize       float64
	TextBackground bool
}

// Deps 创建 Overlay 所需的协作者
type Deps struct {
	Store        SessionStore
	Initial      annotate.Session
	Settings     *config.Settings
	SettingsPath string
	Options      config.Options
	Hotkeys      hotkey.Backend
	Notifier     Notifier
	Surface      Surface
	Layout       route.Layout
	Origin       geom.Point
	// NewScheduler 为空时使用 bep/debounce
	NewScheduler func(fire func()) Scheduler
}

// Overlay 覆盖层控制器。除 Post 外的方法都只能在事件循环线程上调用
type Overlay struct {
	model   *annotate.Model
	history *annotate.History
	store   SessionStore
	tools   *tool.State
	router  *route.Router
	layout  route.Layout

	settings     *config.Settings
	settingsPath string
	opts         config.Options
	hotkeys      *hotkey.Table

	notifier Notifier
	surface  Surface
	saver    Scheduler
	pending  pendingSave

	style Style
	g     gesture
	text  textState
	click clickTracker

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	closing   bool
}

// New 创建控制器，撤销历史以初始会话作为基线
func New(d Deps) *Overlay {
	if d.Settings == nil {
		d.Settings = config.DefaultSettings()
	}
	if d.Notifier == nil {
		d.Notifier = logNotifier{}
	}
	if d.Surface == nil {
		d.Surface = nopSurface{}
	}
	if d.Options.UndoDepth == 0 {
		d.Options = config.DefaultOptions()
	}

	tools := tool.NewState()
	o := &Overlay{
		model:        annotate.NewModel(d.Initial),
		history:      annotate.NewHistory(d.Store, d.Options.UndoDepth),
		store:        d.Store,
		tools:        tools,
		router:       route.NewRouter(route.NewRegistry(), tools, d.Origin),
		layout:       d.Layout,
		settings:     d.Settings,
		settingsPath: d.SettingsPath,
		opts:         d.Options,
		notifier:     d.Notifier,
		surface:      d.Surface,
		events:       make(chan Event, eventQueueSize),
		done:         make(chan struct{}),
	}
	if d.Hotkeys != nil {
		o.hotkeys = hotkey.NewTable(d.Hotkeys)
	}

	fire := func() { o.Post(saveTick{}) }
	if d.NewScheduler != nil {
		o.saver = d.NewScheduler(fire)
	} else {
		o.saver = NewDebounceScheduler(d.Options.SaveDelay(), fire)
	}

	o.style = Style{
		Color:     o.settings.ToolbarColors[0],
		Thickness: annotate.DefaultThickness,
		FontSize:  annotate.DefaultFontSize,
	}
	o.click.interval = d.Options.DoubleClick()

	o.model.OnChange(o.scheduleSave)
	if err := o.history.Push(o.model.Snapshot()); err != nil {
		slog.Warn("[overlay] failed to seed undo history", "error", err)
	}
	o.router.Sync(o.layout)
	o.SetTool(tool.Pen)
	return o
}

// Model 标注模型（只在事件循环线程上读取）
func (o *Overlay) Model() *annotate.Model { return o.model }

// Tools 工具状态
func (o *Overlay) Tools() *tool.State { return o.tools }

// Layout 当前界面布局
func (o *Overlay) Layout() route.Layout { return o.layout }

// Style 当前样式
func (o *Overlay) Style() Style { return o.style }

// Settings 当前设置
func (o *Overlay) Settings() *config.Settings { return o.settings }

// History 撤销历史
func (o *Overlay) History() *annotate.History { return o.history }

// Post 从任意 goroutine 投递事件。循环结束后丢弃
func (o *Overlay) Post(ev Event) {
	select {
	case o.events <- ev:
	case <-o.done:
	}
}

// Done 事件循环结束时关闭
func (o *Overlay) Done() <-chan struct{} {
	return o.done
}

// Run 事件循环，阻塞到 ctx 结束或收到退出动作。返回前写入最后一次保存
func (o *Overlay) Run(ctx context.Context) error {
	defer o.shutdown()

	o.ApplyHotkeys()
	slog.Info("[overlay] event loop started", "mode", o.tools.Mode().String())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-o.events:
			o.Handle(ev)
			if o.closing {
				return nil
			}
		}
	}
}

// Handle 同步处理一个事件，返回路由结果（非输入事件总是 Consume）
func (o *Overlay) Handle(ev Event) route.Decision {
	switch e := ev.(type) {
	case PointerEvent:
		return o.handlePointer(e)
	case KeyEvent:
		return o.handleKey(e)
	case TextInput:
		o.handleTextInput(e.Text)
	case HotkeyPressed:
		o.handleHotkey(e.ID)
	case ActionEvent:
		o.Do(e.Action)
	case Call:
		if e.Fn != nil {
			e.Fn(o)
		}
	case SettingsChanged:
		o.ReloadSettings()
	case CaptureLost:
		o.cancelGesture()
	case saveTick:
		o.saveSession()
	default:
		slog.Warn("[overlay] unknown event", "event", ev)
	}
	return route.Consume
}

// HitTest 系统命中测试查询，不改变任何状态
func (o *Overlay) HitTest(w route.Window, screen geom.Point) route.Decision {
	return o.router.Route(w, screen, route.HitTest)
}

// Close 请求退出事件循环
func (o *Overlay) Close() {
	o.closing = true
}

// Flush 立即执行待处理的保存
func (o *Overlay) Flush() {
	if o.pending != saveNone {
		o.saveSession()
	}
}

func (o *Overlay) shutdown() {
	o.closeOnce.Do(func() {
		o.finishGesture()
		o.model.EndEdit()
		o.Flush()
		o.saver.Stop()
		if o.hotkeys != nil {
			o.hotkeys.Clear()
		}
		close(o.done)
		slog.Info("[overlay] event loop stopped")
	})
}

func (o *Overlay) handleHotkey(id int) {
	if o.hotkeys == nil {
		return
	}
	a, ok := o.hotkeys.Lookup(id)
	if !ok {
		slog.Debug("[overlay] stale hotkey id", "id", id)
		return
	}
	slog.Debug("[overlay] hotkey", "action", string(a))
	o.Do(a)
}

type logNotifier struct{}

func (logNotifier) Show(title, message string) {
	slog.Warn("[overlay] "+title, "message", message)
}

type nopSurface struct{}

func (nopSurface) SetClickThrough(bool) {}
func (nopSurface) SetCursor(tool.Glyph) {}
func (nopSurface) SetVisible(bool)      {}
func (nopSurface) Invalidate()          {}

// clickTracker 平台不提供点击次数时按间隔和距离判断双击
type clickTracker struct {
	interval time.Duration
	last     time.Time
	pos      geom.Point
	count    int
}

const doubleClickSlop = 4.0

func (c *clickTracker) next(p geom.Point, at time.Time) int {
	if at.IsZero() {
		at = time.Now()
	}
	if c.count > 0 && at.Sub(c.last) <= c.interval && p.Sub(c.pos).Len() <= doubleClickSlop {
		c.count++
	} else {
		c.count = 1
	}
	c.last = at
	c.pos = p
	return c.count
}
