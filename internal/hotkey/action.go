package hotkey

import (
	"fmt"
	"strings"
)

// Action 热键触发的动作
type Action string

const (
	ToggleCursor       Action = "toggleCursor"
	ToggleVisibility   Action = "toggleVisibility"
	CloseApp           Action = "closeApp"
	ClearAll           Action = "clearAll"
	Undo               Action = "undo"
	SelectPen          Action = "selectPen"
	SelectHighlighter  Action = "selectHighlighter"
	SelectEraser       Action = "selectEraser"
	ShapeLine          Action = "shapeLine"
	ShapeArrow         Action = "shapeArrow"
	ShapeRectangle     Action = "shapeRectangle"
	ShapeEllipse       Action = "shapeEllipse"
	ToggleColorPalette Action = "toggleColorPalette"
)

// actionOrder 注册与显示顺序
var actionOrder = []Action{
	ToggleCursor,
	ToggleVisibility,
	CloseApp,
	ClearAll,
	Undo,
	SelectPen,
	SelectHighlighter,
	SelectEraser,
	ShapeLine,
	ShapeArrow,
	ShapeRectangle,
	ShapeEllipse,
	ToggleColorPalette,
}

// Actions 全部动作
func Actions() []Action {
	return append([]Action(nil), actionOrder...)
}

// ParseAction 解析动作名（忽略大小写）
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	for _, a := range actionOrder {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Label 菜单显示名称
func (a Action) Label() string {
	switch a {
	case ToggleCursor:
		return "切换鼠标穿透"
	case ToggleVisibility:
		return "显示/隐藏"
	case CloseApp:
		return "退出"
	case ClearAll:
		return "清除全部"
	case Undo:
		return "撤销"
	case SelectPen:
		return "画笔"
	case SelectHighlighter:
		return "荧光笔"
	case SelectEraser:
		return "橡皮擦"
	case ShapeLine:
		return "直线"
	case ShapeArrow:
		return "箭头"
	case ShapeRectangle:
		return "矩形"
	case ShapeEllipse:
		return "椭圆"
	case ToggleColorPalette:
		return "颜色面板"
	}
	return string(a)
}

// DefaultBindings 默认热键表
func DefaultBindings() map[Action]Binding {
	m := make(map[Action]Binding, len(actionOrder))
	for _, a := range actionOrder {
		m[a] = Unassigned
	}
	m[ToggleCursor] = Binding{Key: KeyF8}
	m[ToggleVisibility] = Binding{Key: KeyF9}
	m[CloseApp] = Binding{Key: KeyF10}
	m[ClearAll] = Binding{Modifiers: ModCtrl | ModShift, Key: KeyC}
	m[Undo] = Binding{Modifiers: ModCtrl, Key: KeyZ}
	return m
}
