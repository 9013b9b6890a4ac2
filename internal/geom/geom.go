package geom

import "math"

// MinShapeExtent 形状渲染包围盒的最小宽高
const MinShapeExtent = 6.0

// Point 屏幕或图层坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt 构造 Point
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add 平移
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub 求差向量
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale 缩放向量
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Len 向量长度
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Finite 坐标是否为有限值
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size 宽高
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect 轴对齐矩形，X/Y 为左上角
type Rect struct {
	X, Y, W, H float64
}

// R 构造 Rect
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAt 由位置和尺寸构造 Rect
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// RectFromPoints 两点围成的规范化矩形（宽高非负）
func RectFromPoints(a, b Point) Rect {
	left := math.Min(a.X, b.X)
	top := math.Min(a.Y, b.Y)
	return Rect{
		X: left,
		Y: top,
		W: math.Max(a.X, b.X) - left,
		H: math.Max(a.Y, b.Y) - top,
	}
}

// Empty 宽或高不为正
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains 点是否在矩形内（含边界）。空矩形不包含任何点
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Right 右边界
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 下边界
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Min 左上角
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max 右下角
func (r Rect) Max() Point { return Point{X: r.X + r.W, Y: r.Y + r.H} }

// Size 尺寸
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Offset 平移矩形
func (r Rect) Offset(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Inflate 四周各扩展 d
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// CenteredAt 以 p 为中心、尺寸为 s 的矩形
func CenteredAt(p Point, s Size) Rect {
	return Rect{X: p.X - s.W/2, Y: p.Y - s.H/2, W: s.W, H: s.H}
}

// ClampMin 宽高至少为 minW/minH，左上角不变
func (r Rect) ClampMin(minW, minH float64) Rect {
	r.W = math.Max(minW, r.W)
	r.H = math.Max(minH, r.H)
	return r
}

// ShapeBounds 形状的渲染包围盒。只夹紧派生几何，端点本身不变
func ShapeBounds(start, end Point) Rect {
	return RectFromPoints(start, end).ClampMin(MinShapeExtent, MinShapeExtent)
}

// Clamp 把 v 限制在 [lo, hi]。lo > hi 时返回 lo
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
