package route

import (
	"fmt"

	"glassmark/internal/geom"
)

// Region 覆盖层上的交互控件区域
type Region int

const (
	RegionNone Region = iota
	RegionToolbar
	RegionWhiteboardThumb
	RegionShapePalette
	RegionInkPalette
	RegionColorPalette
	RegionFontPalette
	RegionSettings
	regionCount
)

var regionNames = [...]string{
	"none", "toolbar", "whiteboardThumb", "shapePalette", "inkPalette",
	"colorPalette", "fontPalette", "settings",
}

func (r Region) String() string {
	if r < 0 || r >= regionCount {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

type regionEntry struct {
	bounds  geom.Rect
	extents []geom.Rect
	visible bool
}

// Registry 交互区域登记表，覆盖层窗口和工具栏窗口共用同一份，
// 因此两个窗口对同一点的判断不会不一致。
// 区域按 Region 值从低到高叠放，命中测试从最上层开始
type Registry struct {
	entries [regionCount]regionEntry
}

// NewRegistry 创建空登记表
func NewRegistry() *Registry {
	return &Registry{}
}

// Set 更新区域边界和可见性
func (r *Registry) Set(id Region, bounds geom.Rect, visible bool) {
	if id <= RegionNone || id >= regionCount {
		return
	}
	r.entries[id].bounds = bounds
	r.entries[id].visible = visible
}

// SetExtents 登记超出主边界的子元素矩形（如负边距的按钮、弹出的提示）
func (r *Registry) SetExtents(id Region, rects ...geom.Rect) {
	if id <= RegionNone || id >= regionCount {
		return
	}
	r.entries[id].extents = append(r.entries[id].extents[:0], rects...)
}

// Bounds 区域边界
func (r *Registry) Bounds(id Region) (geom.Rect, bool) {
	if id <= RegionNone || id >= regionCount {
		return geom.Rect{}, false
	}
	e := r.entries[id]
	return e.bounds, e.visible
}

// Visible 区域是否可见
func (r *Registry) Visible(id Region) bool {
	if id <= RegionNone || id >= regionCount {
		return false
	}
	return r.entries[id].visible
}

// Claimed 点是否落在某个可见区域内，返回最上层的区域
func (r *Registry) Claimed(p geom.Point) (Region, bool) {
	for id := regionCount - 1; id > RegionNone; id-- {
		e := &r.entries[id]
		if !e.visible {
			continue
		}
		if e.bounds.Contains(p) {
			return id, true
		}
		for _, ext := range e.extents {
			if ext.Contains(p) {
				return id, true
			}
		}
	}
	return RegionNone, false
}
