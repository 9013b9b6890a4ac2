package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"glassmark/internal/annotate"
	"glassmark/internal/hotkey"
	"glassmark/internal/storage"
)

const (
	appDirName       = "glassmark"
	SettingsFileName = "settings.json"
	maxSettingsBytes = 1 << 20 // 1MB
)

// ToolbarColorCount 工具栏固定显示的颜色数
const ToolbarColorCount = 5

// Settings 用户设置文档
type Settings struct {
	Hotkeys       map[hotkey.Action]hotkey.Binding `json:"hotkeys"`
	ColorLibrary  []annotate.Color                 `json:"colorLibrary"`
	ToolbarColors []annotate.Color                 `json:"toolbarColors"`
}

// DefaultColors 默认颜色库
func DefaultColors() []annotate.Color {
	return []annotate.Color{annotate.White, annotate.Red, annotate.Yellow, annotate.Aqua, annotate.Lime}
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		Hotkeys:       hotkey.DefaultBindings(),
		ColorLibrary:  DefaultColors(),
		ToolbarColors: DefaultColors(),
	}
}

// DefaultDir 获取配置目录
func DefaultDir() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("[config] using temp dir as config dir fallback", "error", err)
			homeDir = os.TempDir()
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, appDirName)
}

// DefaultPath 设置文件路径
func DefaultPath() string {
	return filepath.Join(DefaultDir(), SettingsFileName)
}

// Load 加载设置。文件不存在时写入默认设置；无法解析时返回默认设置和错误，启动不受影响
func Load(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), errors.New("settings path required")
	}

	data, err := storage.ReadLimited(path, maxSettingsBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultSettings()
			// 保存默认设置
			if err := cfg.Save(path); err != nil {
				slog.Warn("[config] failed to write default settings", "path", path, "error", err)
			}
			return cfg, nil
		}
		return DefaultSettings(), err
	}

	cfg, err := Parse(data)
	if err != nil {
		slog.Warn("[config] failed to parse settings, using defaults", "path", path, "error", err)
		return DefaultSettings(), err
	}
	return cfg, nil
}

// Parse 解析设置文档。只含热键表的旧格式会被升级
func Parse(data []byte) (*Settings, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return DefaultSettings(), nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	cfg := &Settings{}
	if isLegacy(top) {
		slog.Info("[config] upgrading legacy hotkey-only settings")
		hk, err := parseHotkeys(top)
		if err != nil {
			return nil, err
		}
		cfg.Hotkeys = hk
	} else {
		var doc struct {
			Hotkeys       map[string]json.RawMessage `json:"hotkeys"`
			ColorLibrary  []annotate.Color           `json:"colorLibrary"`
			ToolbarColors []annotate.Color           `json:"toolbarColors"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		hk, err := parseHotkeys(doc.Hotkeys)
		if err != nil {
			return nil, err
		}
		cfg.Hotkeys = hk
		cfg.ColorLibrary = doc.ColorLibrary
		cfg.ToolbarColors = doc.ToolbarColors
	}

	// 验证并修正设置
	cfg.Validate()
	return cfg, nil
}

// isLegacy 旧文档没有 hotkeys 字段，动作名直接出现在顶层
func isLegacy(top map[string]json.RawMessage) bool {
	for k := range top {
		if strings.EqualFold(k, "hotkeys") {
			return false
		}
	}
	for k := range top {
		if _, err := hotkey.ParseAction(k); err == nil {
			return true
		}
	}
	return false
}

// parseHotkeys 动作名忽略大小写，未知动作忽略
func parseHotkeys(raw map[string]json.RawMessage) (map[hotkey.Action]hotkey.Binding, error) {
	out := make(map[hotkey.Action]hotkey.Binding, len(raw))
	for name, msg := range raw {
		a, err := hotkey.ParseAction(name)
		if err != nil {
			slog.Warn("[config] ignoring unknown hotkey action", "action", name)
			continue
		}
		var b hotkey.Binding
		if err := json.Unmarshal(msg, &b); err != nil {
			return nil, fmt.Errorf("hotkey %s: %w", name, err)
		}
		out[a] = b
	}
	return out, nil
}

// Validate 验证并修正设置值
func (c *Settings) Validate() {
	// 缺失的动作使用默认值，显式的 None 保持未分配
	defaults := hotkey.DefaultBindings()
	if c.Hotkeys == nil {
		c.Hotkeys = make(map[hotkey.Action]hotkey.Binding, len(defaults))
	}
	for a, b := range defaults {
		if _, ok := c.Hotkeys[a]; !ok {
			c.Hotkeys[a] = b
		}
	}

	// 颜色一律不透明
	library := make([]annotate.Color, 0, len(c.ColorLibrary))
	for _, col := range c.ColorLibrary {
		library = appendUnique(library, col.WithAlpha(0xFF))
	}
	if len(library) == 0 {
		library = DefaultColors()
	}

	// 工具栏颜色固定 5 个，不足时用默认色补齐，并且都要在颜色库中
	palette := DefaultColors()
	toolbar := make([]annotate.Color, 0, ToolbarColorCount)
	for _, col := range c.ToolbarColors {
		if len(toolbar) == ToolbarColorCount {
			break
		}
		toolbar = append(toolbar, col.WithAlpha(0xFF))
	}
	for len(toolbar) < ToolbarColorCount {
		toolbar = append(toolbar, palette[len(toolbar)%len(palette)])
	}
	for _, col := range toolbar {
		library = appendUnique(library, col)
	}

	c.ColorLibrary = library
	c.ToolbarColors = toolbar
}

func appendUnique(list []annotate.Color, c annotate.Color) []annotate.Color {
	for _, x := range list {
		if x == c {
			return list
		}
	}
	return append(list, c)
}

// Save 原子写入设置文件
func (c *Settings) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	if err := storage.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetHotkey 设置一个动作的快捷键
func (c *Settings) SetHotkey(a hotkey.Action, b hotkey.Binding) {
	if c.Hotkeys == nil {
		c.Hotkeys = hotkey.DefaultBindings()
	}
	c.Hotkeys[a] = b
}

// Equal 两份设置内容是否相同
func (c *Settings) Equal(other *Settings) bool {
	if c == nil || other == nil {
		return c == other
	}
	return maps.Equal(c.Hotkeys, other.Hotkeys) &&
		slices.Equal(c.ColorLibrary, other.ColorLibrary) &&
		slices.Equal(c.ToolbarColors, other.ToolbarColors)
}
