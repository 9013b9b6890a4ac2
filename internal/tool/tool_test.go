package tool

import (
	"math/rand"
	"testing"
)

func TestInitialState(t *testing.T) {
	s := NewState()
	if s.Mode() != Pen {
		t.Fatalf("initial mode = %v, want Pen", s.Mode())
	}
	f := s.Flags()
	if !f.Interactive || !f.DrawSurface || f.ClickThrough || f.Cursor != GlyphPen {
		t.Fatalf("initial flags = %+v", f)
	}
}

func TestFlagsFor(t *testing.T) {
	tests := []struct {
		mode  Mode
		draw  bool
		shape bool
		text  bool
		click bool
		glyph Glyph
	}{
		{Cursor, false, false, false, true, GlyphArrow},
		{Pen, true, false, false, false, GlyphPen},
		{Highlighter, true, false, false, false, GlyphPen},
		{Eraser, true, false, false, false, GlyphCross},
		{Text, false, false, true, false, GlyphIBeam},
		{Shapes, false, true, false, false, GlyphCross},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			f := FlagsFor(tt.mode)
			if f.DrawSurface != tt.draw || f.ShapeLayer != tt.shape || f.TextLayer != tt.text ||
				f.ClickThrough != tt.click || f.Cursor != tt.glyph {
				t.Fatalf("FlagsFor(%v) = %+v", tt.mode, f)
			}
			if f.Interactive == (tt.mode == Cursor) {
				t.Fatalf("Interactive = %v for %v", f.Interactive, tt.mode)
			}
		})
	}
}

func TestLayersMutuallyExclusive(t *testing.T) {
	s := NewState()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		s.Set(Mode(r.Intn(int(modeCount))))
		f := s.Flags()
		active := 0
		for _, on := range []bool{f.DrawSurface, f.ShapeLayer, f.TextLayer} {
			if on {
				active++
			}
		}
		if s.Mode() == Cursor && active != 0 {
			t.Fatalf("cursor mode has %d hit-testable layers", active)
		}
		if s.Mode() != Cursor && active != 1 {
			t.Fatalf("mode %v has %d hit-testable layers", s.Mode(), active)
		}
		if !s.Mode().Valid() {
			t.Fatalf("invalid mode %v", s.Mode())
		}
	}
}

func TestToggleRestoresLastNonCursor(t *testing.T) {
	s := NewState()
	s.Set(Eraser)
	s.Set(s.ToggleTarget())
	if s.Mode() != Cursor {
		t.Fatalf("mode = %v, want Cursor", s.Mode())
	}
	// 穿透模式下重复进入穿透不覆盖记录
	s.Set(Cursor)
	s.Set(s.ToggleTarget())
	if s.Mode() != Eraser {
		t.Fatalf("mode = %v, want Eraser restored", s.Mode())
	}
}

func TestTransitionLeftText(t *testing.T) {
	s := NewState()
	s.Set(Text)
	if tr := s.Set(Text); tr.LeftText() {
		t.Fatal("Text -> Text should not count as leaving")
	}
	if tr := s.Set(Shapes); !tr.LeftText() {
		t.Fatal("Text -> Shapes should leave text")
	}
}

func TestInvalidModeFallsBackToPen(t *testing.T) {
	s := NewState()
	s.Set(Cursor)
	s.Set(Mode(42))
	if s.Mode() != Pen {
		t.Fatalf("mode = %v, want Pen", s.Mode())
	}
}
