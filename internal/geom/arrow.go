package geom

// 箭头头部尺寸约束
const (
	arrowHeadLenRatio   = 0.2
	arrowHeadWidthRatio = 0.12
	arrowHeadMinLen     = 8.0
	arrowHeadMaxLen     = 24.0
	arrowHeadMinWidth   = 6.0
	arrowHeadMaxWidth   = 16.0
	// 短于此长度的线段不画箭头
	arrowDegenerateLen = 0.5
)

// Segment 线段
type Segment struct {
	From, To Point
}

// Arrow 箭头矢量几何。Degenerate 为 true 时只有 Shaft 有效，退化为普通直线
type Arrow struct {
	Shaft      Segment
	Tip        Point
	Left       Point
	Right      Point
	HeadLength float64
	HeadWidth  float64
	Degenerate bool
}

// Segments 返回绘制所需的全部线段
func (a Arrow) Segments() []Segment {
	if a.Degenerate {
		return []Segment{a.Shaft}
	}
	return []Segment{
		a.Shaft,
		{From: a.Left, To: a.Tip},
		{From: a.Tip, To: a.Right},
	}
}

// ArrowHead 计算箭头几何。箭尖位于起点（锚点），箭杆从箭头根部延伸到终点。
// 头部长度取线段长度的 0.2 并夹在 [8,24]，宽度取 0.12 并夹在 [6,16]
func ArrowHead(start, end Point) Arrow {
	v := end.Sub(start)
	length := v.Len()
	if length < arrowDegenerateLen {
		return Arrow{
			Shaft:      Segment{From: start, To: end},
			Tip:        start,
			Degenerate: true,
		}
	}

	unit := v.Scale(1 / length)
	headLen := Clamp(length*arrowHeadLenRatio, arrowHeadMinLen, arrowHeadMaxLen)
	headWidth := Clamp(length*arrowHeadWidthRatio, arrowHeadMinWidth, arrowHeadMaxWidth)

	base := start.Add(unit.Scale(headLen))
	normal := Point{X: -unit.Y, Y: unit.X}
	half := normal.Scale(headWidth / 2)

	return Arrow{
		Shaft:      Segment{From: base, To: end},
		Tip:        start,
		Left:       base.Add(half),
		Right:      base.Sub(half),
		HeadLength: headLen,
		HeadWidth:  headWidth,
	}
}
