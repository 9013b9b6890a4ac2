// Package tray 系统托盘菜单
package tray

import (
	"maps"
	"sync"

	"github.com/getlantern/systray"

	"glassmark/internal/hotkey"
)

// menuActions 托盘菜单中直接触发的动作
var menuActions = []hotkey.Action{
	hotkey.ToggleCursor,
	hotkey.ToggleVisibility,
	hotkey.Undo,
	hotkey.ClearAll,
}

// Tray 系统托盘。菜单点击只通过回调投递，不直接修改覆盖层
type Tray struct {
	onAction  func(hotkey.Action)
	onOpenDir func()
	onQuit    func()

	mu       sync.Mutex
	bindings map[hotkey.Action]hotkey.Binding
	items    map[hotkey.Action]*systray.MenuItem
	done     chan struct{}
}

// NewTray 创建系统托盘
func NewTray() *Tray {
	return &Tray{
		bindings: make(map[hotkey.Action]hotkey.Binding),
		items:    make(map[hotkey.Action]*systray.MenuItem),
		done:     make(chan struct{}),
	}
}

// SetOnAction 设置菜单动作回调（在托盘 goroutine 上调用）
func (t *Tray) SetOnAction(fn func(hotkey.Action)) {
	t.onAction = fn
}

// SetOnOpenDir 设置打开数据目录回调
func (t *Tray) SetOnOpenDir(fn func()) {
	t.onOpenDir = fn
}

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) {
	t.onQuit = fn
}

// SetHotkeys 更新菜单中显示的快捷键，菜单已创建时立即刷新
func (t *Tray) SetHotkeys(bindings map[hotkey.Action]hotkey.Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings = maps.Clone(bindings)
	for a, item := range t.items {
		item.SetTitle(t.titleLocked(a))
	}
}

func (t *Tray) title(a hotkey.Action) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.titleLocked(a)
}

func (t *Tray) titleLocked(a hotkey.Action) string {
	b, ok := t.bindings[a]
	if !ok || !b.Assigned() {
		return a.Label()
	}
	return a.Label() + " (" + b.String() + ")"
}

// Run 运行系统托盘（阻塞，需在主线程调用）
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit 关闭托盘，使 Run 返回
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle("Glassmark")
	systray.SetTooltip("Glassmark - 屏幕标注")

	for _, a := range menuActions {
		item := systray.AddMenuItem(t.title(a), a.Label())
		t.mu.Lock()
		t.items[a] = item
		t.mu.Unlock()
		go t.forward(item.ClickedCh, a)
	}
	systray.AddSeparator()

	mOpenDir := systray.AddMenuItem("打开设置目录", "打开设置和会话文件所在位置")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("退出", "保存并退出")

	go func() {
		for {
			select {
			case <-mOpenDir.ClickedCh:
				if t.onOpenDir != nil {
					t.onOpenDir()
				}
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				return
			case <-t.done:
				return
			}
		}
	}()
}

func (t *Tray) forward(clicked <-chan struct{}, a hotkey.Action) {
	for {
		select {
		case <-clicked:
			if t.onAction != nil {
				t.onAction(a)
			}
		case <-t.done:
			return
		}
	}
}

func (t *Tray) onExit() {
	close(t.done)
}
