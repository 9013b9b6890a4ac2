package geom

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := R(10, 10, 100, 50)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Pt(50, 30), true},
		{"top-left edge", Pt(10, 10), true},
		{"bottom-right edge", Pt(110, 60), true},
		{"left of", Pt(9.9, 30), false},
		{"below", Pt(50, 60.1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Fatalf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEmptyRectContainsNothing(t *testing.T) {
	if R(0, 0, 0, 10).Contains(Pt(0, 5)) {
		t.Fatal("zero-width rect should not contain points")
	}
}

func TestShapeBoundsClampsOnlyDerivedGeometry(t *testing.T) {
	start, end := Pt(100, 100), Pt(102, 101)
	got := ShapeBounds(start, end)
	want := R(100, 100, 6, 6)
	if got != want {
		t.Fatalf("ShapeBounds = %+v, want %+v", got, want)
	}

	got = ShapeBounds(Pt(200, 150), Pt(100, 100))
	want = R(100, 100, 100, 50)
	if got != want {
		t.Fatalf("ShapeBounds reversed = %+v, want %+v", got, want)
	}
}

func TestArrowHeadClamps(t *testing.T) {
	tests := []struct {
		name      string
		end       Point
		wantLen   float64
		wantWidth float64
	}{
		{"short segment uses minimum", Pt(10, 0), 8, 6},
		{"medium segment scales", Pt(100, 0), 20, 12},
		{"long segment uses maximum", Pt(1000, 0), 24, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ArrowHead(Pt(0, 0), tt.end)
			if a.Degenerate {
				t.Fatal("unexpected degenerate arrow")
			}
			if math.Abs(a.HeadLength-tt.wantLen) > 1e-9 || math.Abs(a.HeadWidth-tt.wantWidth) > 1e-9 {
				t.Fatalf("head = (%v,%v), want (%v,%v)", a.HeadLength, a.HeadWidth, tt.wantLen, tt.wantWidth)
			}
			if a.Tip != Pt(0, 0) {
				t.Fatalf("tip = %v, want start point", a.Tip)
			}
			if a.Shaft.From != Pt(a.HeadLength, 0) {
				t.Fatalf("shaft starts at %v, want head base", a.Shaft.From)
			}
			if len(a.Segments()) != 3 {
				t.Fatalf("segments = %d, want 3", len(a.Segments()))
			}
		})
	}
}

func TestArrowHeadDegenerate(t *testing.T) {
	a := ArrowHead(Pt(5, 5), Pt(5.2, 5.1))
	if !a.Degenerate {
		t.Fatal("near-zero segment should degrade to a line")
	}
	segs := a.Segments()
	if len(segs) != 1 || segs[0].From != Pt(5, 5) || segs[0].To != Pt(5.2, 5.1) {
		t.Fatalf("segments = %+v", segs)
	}
}
