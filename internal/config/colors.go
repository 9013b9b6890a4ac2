package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"glassmark/internal/annotate"
)

// ErrInvalidColor 颜色通道输入无效，错误文本直接展示给用户
var ErrInvalidColor = errors.New("Enter RGB values from 0 to 255.")

// ParseRGB 解析用户输入的三个通道值，每个必须是 0..255 的整数
func ParseRGB(r, g, b string) (annotate.Color, error) {
	var ch [3]uint8
	for i, s := range [3]string{r, g, b} {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 || n > 255 {
			return annotate.Color{}, ErrInvalidColor
		}
		ch[i] = uint8(n)
	}
	return annotate.RGB(ch[0], ch[1], ch[2]), nil
}

// AddColor 向颜色库加入颜色，已存在时返回 false
func (c *Settings) AddColor(col annotate.Color) bool {
	col = col.WithAlpha(0xFF)
	for _, x := range c.ColorLibrary {
		if x == col {
			return false
		}
	}
	c.ColorLibrary = append(c.ColorLibrary, col)
	return true
}

// SetToolbarColor 替换工具栏第 slot 个颜色，新颜色同时加入颜色库
func (c *Settings) SetToolbarColor(slot int, col annotate.Color) error {
	if slot < 0 || slot >= len(c.ToolbarColors) {
		return fmt.Errorf("toolbar color slot %d out of range", slot)
	}
	col = col.WithAlpha(0xFF)
	c.ToolbarColors[slot] = col
	c.AddColor(col)
	return nil
}
