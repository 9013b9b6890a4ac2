package annotate

import (
	"errors"
	"math"

	"glassmark/internal/geom"
)

var (
	// ErrEmptyStroke 墨迹没有任何点
	ErrEmptyStroke = errors.New("stroke has no points")
	// ErrNotFound 元素不存在
	ErrNotFound = errors.New("element not found")
	// ErrInvalidPoint 坐标不是有限值
	ErrInvalidPoint = errors.New("point is not finite")
)

// strokeHitSlop 橡皮擦命中墨迹的额外容差
const strokeHitSlop = 2.0

// ElementType 元素类别
type ElementType int

const (
	ElementNone ElementType = iota
	ElementStroke
	ElementShape
	ElementText
)

func (t ElementType) String() string {
	switch t {
	case ElementStroke:
		return "stroke"
	case ElementShape:
		return "shape"
	case ElementText:
		return "text"
	default:
		return "none"
	}
}

// Ref 元素引用
type Ref struct {
	Type ElementType
	ID   string
}

// IsZero 空引用
func (r Ref) IsZero() bool {
	return r.Type == ElementNone
}

// Model 内存中的标注文档，只在事件循环线程上访问。
// 元素按添加顺序排列，越靠后越在上层
type Model struct {
	session   Session
	selected  Ref
	editing   string
	restoring bool
	onChange  func()
}

// NewModel 用初始会话创建模型
func NewModel(initial Session) *Model {
	return &Model{session: initial.Clone()}
}

// OnChange 设置变更回调。恢复快照期间不会触发
func (m *Model) OnChange(fn func()) {
	m.onChange = fn
}

func (m *Model) changed() {
	if m.restoring || m.onChange == nil {
		return
	}
	m.onChange()
}

// Snapshot 返回当前会话的独立副本
func (m *Model) Snapshot() Session {
	return m.session.Clone()
}

// Restore 用快照替换全部内容。这是非用户发起的变更，不触发变更回调
func (m *Model) Restore(s Session) {
	m.restoring = true
	defer func() { m.restoring = false }()

	m.session = s.Clone()
	m.selected = Ref{}
	m.editing = ""
	m.changed()
}

// Restoring 是否正在恢复快照
func (m *Model) Restoring() bool {
	return m.restoring
}

// Clear 删除全部元素
func (m *Model) Clear() {
	m.session = Session{}
	m.selected = Ref{}
	m.editing = ""
	m.changed()
}

// Strokes 当前墨迹（只读）
func (m *Model) Strokes() []Stroke { return m.session.Strokes }

// Shapes 当前形状（只读）
func (m *Model) Shapes() []Shape { return m.session.Shapes }

// TextBoxes 当前文本框（只读）
func (m *Model) TextBoxes() []TextBox { return m.session.TextBoxes }

// ---- 墨迹 ----

// BeginStroke 以第一个点开始一条墨迹，返回其 ID
func (m *Model) BeginStroke(p geom.Point, color Color, thickness float64, highlighter bool) (string, error) {
	if !p.Finite() {
		return "", ErrInvalidPoint
	}
	if highlighter {
		color = color.WithAlpha(HighlighterAlpha)
	}
	s := Stroke{
		ID:            newID(),
		Points:        []geom.Point{p},
		Color:         color,
		Thickness:     thickness,
		IsHighlighter: highlighter,
	}
	m.session.Strokes = append(m.session.Strokes, s)
	return s.ID, nil
}

// AppendStroke 追加一个点
func (m *Model) AppendStroke(id string, p geom.Point) error {
	if !p.Finite() {
		return ErrInvalidPoint
	}
	i := m.strokeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.session.Strokes[i].Points = append(m.session.Strokes[i].Points, p)
	return nil
}

// EndStroke 完成墨迹并通知变更
func (m *Model) EndStroke(id string) error {
	i := m.strokeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if len(m.session.Strokes[i].Points) == 0 {
		m.removeStroke(i)
		return ErrEmptyStroke
	}
	m.changed()
	return nil
}

// AddStroke 直接加入一条完整墨迹
func (m *Model) AddStroke(s Stroke) (string, error) {
	if len(s.Points) == 0 {
		return "", ErrEmptyStroke
	}
	for _, p := range s.Points {
		if !p.Finite() {
			return "", ErrInvalidPoint
		}
	}
	if s.ID == "" {
		s.ID = newID()
	}
	s.Points = append([]geom.Point(nil), s.Points...)
	m.session.Strokes = append(m.session.Strokes, s)
	m.changed()
	return s.ID, nil
}

func (m *Model) strokeIndex(id string) int {
	for i := range m.session.Strokes {
		if m.session.Strokes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) removeStroke(i int) {
	m.session.Strokes = append(m.session.Strokes[:i], m.session.Strokes[i+1:]...)
}

// StrokeAt 命中点的最上层墨迹
func (m *Model) StrokeAt(p geom.Point) (string, bool) {
	for i := len(m.session.Strokes) - 1; i >= 0; i-- {
		s := &m.session.Strokes[i]
		if strokeHit(s, p) {
			return s.ID, true
		}
	}
	return "", false
}

func strokeHit(s *Stroke, p geom.Point) bool {
	tol := s.Thickness/2 + strokeHitSlop
	if len(s.Points) == 1 {
		return p.Sub(s.Points[0]).Len() <= tol
	}
	for i := 1; i < len(s.Points); i++ {
		if segmentDistance(p, s.Points[i-1], s.Points[i]) <= tol {
			return true
		}
	}
	return false
}

func segmentDistance(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	proj := a.Add(ab.Scale(t))
	return p.Sub(proj).Len()
}

// ---- 形状 ----

// AddShape 在 start 处创建零尺寸形状
func (m *Model) AddShape(kind ShapeKind, start geom.Point, color Color, thickness float64) (string, error) {
	if !start.Finite() {
		return "", ErrInvalidPoint
	}
	s := Shape{
		ID:          newID(),
		Kind:        kind,
		Start:       start,
		End:         start,
		StrokeColor: color,
		Thickness:   thickness,
	}
	m.session.Shapes = append(m.session.Shapes, s)
	m.changed()
	return s.ID, nil
}

// Shape 按 ID 查找形状
func (m *Model) Shape(id string) (Shape, bool) {
	i := m.shapeIndex(id)
	if i < 0 {
		return Shape{}, false
	}
	return m.session.Shapes[i], true
}

// SetShapeEnd 修改终点（拖拽调整大小）
func (m *Model) SetShapeEnd(id string, end geom.Point) error {
	if !end.Finite() {
		return ErrInvalidPoint
	}
	return m.UpdateShape(id, func(s *Shape) { s.End = end })
}

// MoveShape 平移两个端点
func (m *Model) MoveShape(id string, delta geom.Point) error {
	if !delta.Finite() {
		return ErrInvalidPoint
	}
	return m.UpdateShape(id, func(s *Shape) {
		s.Start = s.Start.Add(delta)
		s.End = s.End.Add(delta)
	})
}

// UpdateShape 修改形状并通知变更
func (m *Model) UpdateShape(id string, fn func(*Shape)) error {
	i := m.shapeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	fn(&m.session.Shapes[i])
	m.changed()
	return nil
}

// ShapeAt 命中点的最上层形状
func (m *Model) ShapeAt(p geom.Point) (string, bool) {
	for i := len(m.session.Shapes) - 1; i >= 0; i-- {
		s := &m.session.Shapes[i]
		if s.Bounds().Contains(p) {
			return s.ID, true
		}
	}
	return "", false
}

func (m *Model) shapeIndex(id string) int {
	for i := range m.session.Shapes {
		if m.session.Shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// ---- 文本框 ----

// AddTextBox 在 pos 处创建默认尺寸的文本框
func (m *Model) AddTextBox(pos geom.Point, fontSize float64, color Color, background bool) (string, error) {
	if !pos.Finite() {
		return "", ErrInvalidPoint
	}
	t := TextBox{
		ID:            newID(),
		Position:      pos,
		Size:          geom.Size{W: DefaultTextWidth, H: DefaultTextHeight},
		FontSize:      fontSize,
		Color:         color,
		HasBackground: background,
	}
	m.session.TextBoxes = append(m.session.TextBoxes, t)
	m.changed()
	return t.ID, nil
}

// TextBox 按 ID 查找文本框
func (m *Model) TextBox(id string) (TextBox, bool) {
	i := m.textIndex(id)
	if i < 0 {
		return TextBox{}, false
	}
	return m.session.TextBoxes[i], true
}

// SetText 修改文本内容。编辑中的输入不立即通知，结束编辑时统一通知
func (m *Model) SetText(id, text string) error {
	i := m.textIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.session.TextBoxes[i].Text = text
	if !m.session.TextBoxes[i].editing {
		m.changed()
	}
	return nil
}

// MoveTextBox 平移文本框
func (m *Model) MoveTextBox(id string, delta geom.Point) error {
	if !delta.Finite() {
		return ErrInvalidPoint
	}
	return m.UpdateTextBox(id, func(t *TextBox) { t.Position = t.Position.Add(delta) })
}

// ResizeTextBox 修改尺寸，最小 50x30
func (m *Model) ResizeTextBox(id string, size geom.Size) error {
	return m.UpdateTextBox(id, func(t *TextBox) {
		t.Size = geom.Size{
			W: math.Max(MinTextWidth, size.W),
			H: math.Max(MinTextHeight, size.H),
		}
	})
}

// UpdateTextBox 修改文本框并通知变更
func (m *Model) UpdateTextBox(id string, fn func(*TextBox)) error {
	i := m.textIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	fn(&m.session.TextBoxes[i])
	m.changed()
	return nil
}

// TextBoxAt 命中点的最上层文本框
func (m *Model) TextBoxAt(p geom.Point) (string, bool) {
	for i := len(m.session.TextBoxes) - 1; i >= 0; i-- {
		t := &m.session.TextBoxes[i]
		if t.Bounds().Contains(p) {
			return t.ID, true
		}
	}
	return "", false
}

func (m *Model) textIndex(id string) int {
	for i := range m.session.TextBoxes {
		if m.session.TextBoxes[i].ID == id {
			return i
		}
	}
	return -1
}

// ---- 编辑 ----

// BeginEdit 让文本框进入编辑状态，之前的编辑先结束
func (m *Model) BeginEdit(id string) error {
	i := m.textIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if m.editing == id {
		return nil
	}
	m.EndEdit()
	m.session.TextBoxes[i].editing = true
	m.editing = id
	m.selected = Ref{Type: ElementText, ID: id}
	return nil
}

// EndEdit 结束当前编辑并通知变更。没有编辑时返回 false
func (m *Model) EndEdit() bool {
	if m.editing == "" {
		return false
	}
	if i := m.textIndex(m.editing); i >= 0 {
		m.session.TextBoxes[i].editing = false
	}
	m.editing = ""
	m.changed()
	return true
}

// EditingID 正在编辑的文本框 ID
func (m *Model) EditingID() (string, bool) {
	return m.editing, m.editing != ""
}

// ---- 选择 ----

// Select 选中元素
func (m *Model) Select(ref Ref) error {
	if !m.exists(ref) {
		return ErrNotFound
	}
	if m.editing != "" && !(ref.Type == ElementText && ref.ID == m.editing) {
		m.EndEdit()
	}
	m.selected = ref
	return nil
}

// Selected 当前选中元素
func (m *Model) Selected() Ref {
	return m.selected
}

// Deselect 取消选择，并提交进行中的编辑
func (m *Model) Deselect() {
	m.EndEdit()
	m.selected = Ref{}
}

func (m *Model) exists(ref Ref) bool {
	switch ref.Type {
	case ElementStroke:
		return m.strokeIndex(ref.ID) >= 0
	case ElementShape:
		return m.shapeIndex(ref.ID) >= 0
	case ElementText:
		return m.textIndex(ref.ID) >= 0
	}
	return false
}

// ---- 删除 ----

// Remove 删除元素
func (m *Model) Remove(ref Ref) error {
	switch ref.Type {
	case ElementStroke:
		i := m.strokeIndex(ref.ID)
		if i < 0 {
			return ErrNotFound
		}
		m.removeStroke(i)
	case ElementShape:
		i := m.shapeIndex(ref.ID)
		if i < 0 {
			return ErrNotFound
		}
		m.session.Shapes = append(m.session.Shapes[:i], m.session.Shapes[i+1:]...)
	case ElementText:
		i := m.textIndex(ref.ID)
		if i < 0 {
			return ErrNotFound
		}
		if m.editing == ref.ID {
			m.editing = ""
		}
		m.session.TextBoxes = append(m.session.TextBoxes[:i], m.session.TextBoxes[i+1:]...)
	default:
		return ErrNotFound
	}
	if m.selected == ref {
		m.selected = Ref{}
	}
	m.changed()
	return nil
}

// EraseAt 橡皮擦：依次测试文本框、形状、墨迹，各自从最上层开始，只删除第一个命中的元素
func (m *Model) EraseAt(p geom.Point) (Ref, bool) {
	var ref Ref
	if id, ok := m.TextBoxAt(p); ok {
		ref = Ref{Type: ElementText, ID: id}
	} else if id, ok := m.ShapeAt(p); ok {
		ref = Ref{Type: ElementShape, ID: id}
	} else if id, ok := m.StrokeAt(p); ok {
		ref = Ref{Type: ElementStroke, ID: id}
	} else {
		return Ref{}, false
	}
	_ = m.Remove(ref)
	return ref, true
}

// Translate 平移全部元素
func (m *Model) Translate(delta geom.Point) {
	if delta == (geom.Point{}) || !delta.Finite() {
		return
	}
	for i := range m.session.Strokes {
		pts := m.session.Strokes[i].Points
		for j := range pts {
			pts[j] = pts[j].Add(delta)
		}
	}
	for i := range m.session.Shapes {
		s := &m.session.Shapes[i]
		s.Start = s.Start.Add(delta)
		s.End = s.End.Add(delta)
	}
	for i := range m.session.TextBoxes {
		t := &m.session.TextBoxes[i]
		t.Position = t.Position.Add(delta)
	}
	m.changed()
}
