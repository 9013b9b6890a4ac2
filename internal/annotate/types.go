package annotate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"glassmark/internal/geom"
)

// ShapeKind 形状类型
type ShapeKind int

const (
	ShapeLine      ShapeKind = iota // 直线
	ShapeArrow                      // 箭头
	ShapeRectangle                  // 矩形
	ShapeEllipse                    // 椭圆
	shapeKindCount
)

var shapeKindNames = [...]string{"Line", "Arrow", "Rectangle", "Ellipse"}

func (k ShapeKind) String() string {
	if k < 0 || k >= shapeKindCount {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKindNames[k]
}

// Valid 是否为已知类型
func (k ShapeKind) Valid() bool {
	return k >= 0 && k < shapeKindCount
}

// ParseShapeKind 解析形状名称（忽略大小写）
func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeKindNames {
		if strings.EqualFold(s, name) {
			return ShapeKind(i), nil
		}
	}
	return ShapeLine, fmt.Errorf("unknown shape kind %q", s)
}

func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid shape kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ShapeKind) UnmarshalText(b []byte) error {
	parsed, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Color ARGB 颜色，文本形式为 #AARRGGBB
type Color struct {
	R, G, B, A uint8
}

// RGB 构造不透明颜色
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xFF}
}

// WithAlpha 替换透明度
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ParseColor 解析 #RRGGBB 或 #AARRGGBB
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// 预设颜色
var (
	White  = RGB(0xFF, 0xFF, 0xFF)
	Red    = RGB(0xFF, 0x00, 0x00)
	Yellow = RGB(0xFF, 0xFF, 0x00)
	Aqua   = RGB(0x00, 0xFF, 0xFF)
	Lime   = RGB(0x00, 0xFF, 0x00)
	Black  = RGB(0x00, 0x00, 0x00)
)

// HighlighterAlpha 荧光笔透明度（约 47%）
const HighlighterAlpha uint8 = 120

// 文本框尺寸
const (
	DefaultTextWidth  = 200.0
	DefaultTextHeight = 60.0
	MinTextWidth      = 50.0
	MinTextHeight     = 30.0
)

// DefaultFontSizes 预设字号
var DefaultFontSizes = []float64{12, 16, 20, 24, 32}

// DefaultFontSize 默认字号
const DefaultFontSize = 16.0

// DefaultThickness 默认线宽
const DefaultThickness = 3.0

// Stroke 一条墨迹
type Stroke struct {
	ID            string       `json:"id"`
	Points        []geom.Point `json:"points"`
	Color         Color        `json:"color"`
	Thickness     float64      `json:"thickness"`
	IsHighlighter bool         `json:"isHighlighter"`
}

// Bounds 墨迹包围盒，按线宽外扩
func (s *Stroke) Bounds() geom.Rect {
	if len(s.Points) == 0 {
		return geom.Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	pad := s.Thickness/2 + 1
	return geom.R(minX-pad, minY-pad, maxX-minX+2*pad, maxY-minY+2*pad)
}

// Shape 形状，端点为文档坐标
type Shape struct {
	ID          string     `json:"id"`
	Kind        ShapeKind  `json:"kind"`
	Start       geom.Point `json:"start"`
	End         geom.Point `json:"end"`
	StrokeColor Color      `json:"strokeColor"`
	Thickness   float64    `json:"thickness"`
}

// Bounds 渲染包围盒（最小 6x6）
func (s *Shape) Bounds() geom.Rect {
	return geom.ShapeBounds(s.Start, s.End)
}

// TextBox 文本框
type TextBox struct {
	ID            string     `json:"id"`
	Position      geom.Point `json:"position"`
	Size          geom.Size  `json:"size"`
	Text          string     `json:"text"`
	FontSize      float64    `json:"fontSize"`
	Color         Color      `json:"color"`
	HasBackground bool       `json:"hasBackground"`

	editing bool
}

// Editing 是否处于编辑状态（不持久化）
func (t *TextBox) Editing() bool {
	return t.editing
}

// Bounds 文本框矩形
func (t *TextBox) Bounds() geom.Rect {
	return geom.RectAt(t.Position, t.Size)
}

// Session 会话：持久化与撤销的单位
type Session struct {
	Strokes   []Stroke  `json:"strokes"`
	Shapes    []Shape   `json:"shapes"`
	TextBoxes []TextBox `json:"textBoxes"`
}

// Empty 是否没有任何元素
func (s *Session) Empty() bool {
	return len(s.Strokes) == 0 && len(s.Shapes) == 0 && len(s.TextBoxes) == 0
}

// Clone 深拷贝，编辑状态不随之复制
func (s *Session) Clone() Session {
	out := Session{
		Strokes:   make([]Stroke, len(s.Strokes)),
		Shapes:    make([]Shape, len(s.Shapes)),
		TextBoxes: make([]TextBox, len(s.TextBoxes)),
	}
	for i, st := range s.Strokes {
		out.Strokes[i] = st
		out.Strokes[i].Points = append([]geom.Point(nil), st.Points...)
	}
	copy(out.Shapes, s.Shapes)
	for i, tb := range s.TextBoxes {
		tb.editing = false
		out.TextBoxes[i] = tb
	}
	return out
}

func newID() string {
	return uuid.NewString()
}
