package tool

import (
	"fmt"
	"strings"

	"glassmark/internal/annotate"
)

// Mode 工具模式
type Mode int

const (
	Cursor      Mode = iota // 鼠标穿透
	Pen                     // 画笔
	Highlighter             // 荧光笔
	Eraser                  // 橡皮擦
	Text                    // 文本
	Shapes                  // 形状
	modeCount
)

var modeNames = [...]string{"Cursor", "Pen", "Highlighter", "Eraser", "Text", "Shapes"}

func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid 是否为已知模式
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// ParseMode 解析模式名（忽略大小写）
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Pen, fmt.Errorf("unknown tool mode %q", s)
}

// Glyph 光标形状
type Glyph int

const (
	GlyphArrow Glyph = iota
	GlyphPen
	GlyphCross
	GlyphIBeam
)

func (g Glyph) String() string {
	switch g {
	case GlyphPen:
		return "pen"
	case GlyphCross:
		return "cross"
	case GlyphIBeam:
		return "ibeam"
	default:
		return "arrow"
	}
}

// Flags 由模式派生的图层命中与穿透标志
type Flags struct {
	Interactive  bool // 覆盖层接收输入
	DrawSurface  bool // 墨迹层可命中
	ShapeLayer   bool // 形状层可命中
	TextLayer    bool // 文本层可命中
	ClickThrough bool
	Cursor       Glyph
}

// FlagsFor 计算模式对应的标志
func FlagsFor(m Mode) Flags {
	interactive := m != Cursor
	f := Flags{
		Interactive:  interactive,
		DrawSurface:  interactive && m != Text && m != Shapes,
		ShapeLayer:   m == Shapes,
		TextLayer:    m == Text,
		ClickThrough: m == Cursor,
	}
	switch m {
	case Pen, Highlighter:
		f.Cursor = GlyphPen
	case Eraser, Shapes:
		f.Cursor = GlyphCross
	case Text:
		f.Cursor = GlyphIBeam
	default:
		f.Cursor = GlyphArrow
	}
	return f
}

// Transition 一次模式切换的结果
type Transition struct {
	From, To Mode
	Flags    Flags
}

// LeftText 是否离开了文本模式
func (t Transition) LeftText() bool {
	return t.From == Text && t.To != Text
}

// State 工具状态机。初始为画笔，没有终止状态
type State struct {
	mode          Mode
	lastNonCursor Mode
	shapeKind     annotate.ShapeKind
	flags         Flags
}

// NewState 创建初始状态
func NewState() *State {
	return &State{
		mode:          Pen,
		lastNonCursor: Pen,
		shapeKind:     annotate.ShapeRectangle,
		flags:         FlagsFor(Pen),
	}
}

// Mode 当前模式
func (s *State) Mode() Mode { return s.mode }

// Flags 当前标志
func (s *State) Flags() Flags { return s.flags }

// LastNonCursor 最近一次非穿透模式
func (s *State) LastNonCursor() Mode { return s.lastNonCursor }

// ShapeKind 形状模式下新建的形状类型
func (s *State) ShapeKind() annotate.ShapeKind { return s.shapeKind }

// SetShapeKind 修改形状类型
func (s *State) SetShapeKind(k annotate.ShapeKind) {
	if k.Valid() {
		s.shapeKind = k
	}
}

// Set 切换模式并重新计算标志。取消选择等副作用由调用方在切换前完成
func (s *State) Set(m Mode) Transition {
	if !m.Valid() {
		m = Pen
	}
	from := s.mode
	if from != Cursor {
		s.lastNonCursor = from
	}
	s.mode = m
	s.flags = FlagsFor(m)
	return Transition{From: from, To: m, Flags: s.flags}
}

// ToggleTarget 切换穿透时的目标模式：非穿透进入穿透，穿透恢复之前的模式
func (s *State) ToggleTarget() Mode {
	if s.mode == Cursor {
		return s.lastNonCursor
	}
	return Cursor
}
