package route

import (
	"testing"

	"glassmark/internal/geom"
)

func TestPalettesMutuallyExclusive(t *testing.T) {
	l := newTestLayout()
	l = l.WithPalette(PaletteShape, true)
	l = l.WithPalette(PaletteInk, true)
	if l.Palette != PaletteInk {
		t.Fatalf("palette = %v, want ink", l.Palette)
	}
	l = l.WithPalette(PaletteShape, false)
	if l.Palette != PaletteInk {
		t.Fatal("hiding a closed palette should not close the open one")
	}
	l = l.TogglePalette(PaletteInk)
	if l.Palette != PaletteNone {
		t.Fatalf("toggle open palette = %v", l.Palette)
	}
}

func TestPalettePlacement(t *testing.T) {
	tb := geom.R(20, 20, 56, 460)
	tests := []struct {
		p    Palette
		want geom.Point
	}{
		{PaletteShape, geom.Pt(88, 20)},
		{PaletteInk, geom.Pt(88, 140)},
		{PaletteColor, geom.Pt(88, 240)},
		{PaletteFont, geom.Pt(88, 340)},
	}
	for _, tt := range tests {
		if got := PlacePalette(tb, tt.p, geom.Size{W: 10, H: 10}).Min(); got != tt.want {
			t.Errorf("palette %v at %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPlaceSettings(t *testing.T) {
	screen := geom.Size{W: 1920, H: 1080}
	panel := geom.Size{W: 420, H: 560}

	got := PlaceSettings(geom.R(20, 20, 56, 460), panel, screen)
	if got != geom.Pt(92, 20) {
		t.Fatalf("right placement = %v", got)
	}

	// 右侧放不下时翻到左侧
	got = PlaceSettings(geom.R(1700, 20, 56, 460), panel, screen)
	if got != geom.Pt(1264, 20) {
		t.Fatalf("flipped placement = %v", got)
	}

	// 靠近底部时纵向夹紧
	got = PlaceSettings(geom.R(20, 900, 56, 100), panel, screen)
	if got.Y != 1080-560-SettingsPadding {
		t.Fatalf("clamped top = %v", got.Y)
	}
}

func TestSettingsHidesWhiteboard(t *testing.T) {
	l := newTestLayout()
	l, _ = l.WithWhiteboard(true)
	l = l.WithSettings(true)
	if l.WhiteboardVisible {
		t.Fatal("showing settings should hide the whiteboard")
	}
	if !l.SettingsVisible {
		t.Fatal("settings should be visible")
	}
}

func TestWhiteboardFollowsToolbar(t *testing.T) {
	l := newTestLayout()
	l, delta := l.WithWhiteboard(true)
	if delta != (geom.Point{}) {
		t.Fatalf("first placement delta = %v", delta)
	}
	board, _ := l.WhiteboardRect()
	tb := l.ToolbarRect()
	if board.X != tb.Right()+WhiteboardGap || board.Y != tb.Y || board.H != tb.H || board.W < tb.W {
		t.Fatalf("board = %+v toolbar = %+v", board, tb)
	}

	l, delta = l.MoveToolbar(l.ToolbarPos.Add(geom.Pt(100, 50)))
	if delta != geom.Pt(100, 50) {
		t.Fatalf("move delta = %v", delta)
	}
}

func TestWhiteboardWidthNeverBelowToolbar(t *testing.T) {
	l := newTestLayout()
	l, _ = l.WithWhiteboard(true)
	l = l.ResizeWhiteboard(300)
	board, _ := l.WhiteboardRect()
	if board.W != l.ToolbarRect().W+300 {
		t.Fatalf("width = %v", board.W)
	}
	l = l.ResizeWhiteboard(-10000)
	board, _ = l.WhiteboardRect()
	if board.W != l.ToolbarRect().W {
		t.Fatalf("width = %v, want toolbar width", board.W)
	}
}

func TestCollapseClosesPanels(t *testing.T) {
	l := newTestLayout()
	l = l.WithPalette(PaletteColor, true)
	l = l.WithSettings(true)
	l, _ = l.ToggleCollapsed()
	if l.Palette != PaletteNone || l.SettingsVisible {
		t.Fatalf("collapse left panels open: %+v", l)
	}
	if l.ToolbarRect().Size() != l.Sizes.ToolbarCollapsed {
		t.Fatalf("collapsed toolbar size = %+v", l.ToolbarRect().Size())
	}
}

func TestWhiteboardThumb(t *testing.T) {
	th := WhiteboardThumb(geom.R(100, 100, 200, 30))
	if th.H != minThumbHeight || th.X != 300-ThumbWidth/2 || th.Y != 103 {
		t.Fatalf("thumb = %+v", th)
	}
}
