package overlay

import (
	"time"

	"glassmark/internal/geom"
	"glassmark/internal/hotkey"
	"glassmark/internal/route"
)

// Event 投递到事件循环的消息
type Event interface {
	event()
}

// PointerEvent 指针按下、移动、抬起。Screen 为屏幕坐标
type PointerEvent struct {
	Window route.Window
	Kind   route.EventKind
	Screen geom.Point
	// ClickCount 由平台提供时直接使用，为 0 时按双击间隔自行计算
	ClickCount int
	Alt        bool
	Pressed    bool // 移动时左键是否按住
	At         time.Time
}

// KeyEvent 键盘按下或抬起
type KeyEvent struct {
	Kind route.EventKind
	Key  hotkey.KeyCode
	Alt  bool
}

// TextInput 编辑中文本框的完整内容
type TextInput struct {
	Text string
}

// HotkeyPressed 系统热键触发
type HotkeyPressed struct {
	ID int
}

// ActionEvent 托盘菜单或控制通道发来的动作
type ActionEvent struct {
	Action hotkey.Action
}

// Call 在事件循环线程上执行任意操作
type Call struct {
	Fn func(o *Overlay)
}

// SettingsChanged 设置文件被外部修改
type SettingsChanged struct{}

// CaptureLost 指针独占被系统意外取消
type CaptureLost struct{}

type saveTick struct{}

func (PointerEvent) event()    {}
func (KeyEvent) event()        {}
func (TextInput) event()       {}
func (HotkeyPressed) event()   {}
func (ActionEvent) event()     {}
func (Call) event()            {}
func (SettingsChanged) event() {}
func (CaptureLost) event()     {}
func (saveTick) event()        {}
