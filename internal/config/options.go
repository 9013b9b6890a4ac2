package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"glassmark/internal/annotate"
	"glassmark/internal/storage"
)

const (
	OptionsFileName     = "options.yaml"
	maxOptionsFileBytes = 1 << 20 // 1MB

	defaultSaveDelayMS   = 450
	defaultDoubleClickMS = 500
)

// Options 运行参数，保存在 options.yaml
type Options struct {
	// SaveDelayMS 最后一次修改后多久写入会话文件
	SaveDelayMS int `yaml:"save_delay_ms" json:"save_delay_ms"`
	// UndoDepth 撤销历史保留的快照数，取值 2..50
	UndoDepth     int    `yaml:"undo_depth" json:"undo_depth"`
	DoubleClickMS int    `yaml:"double_click_ms" json:"double_click_ms"`
	LogLevel      string `yaml:"log_level" json:"log_level"`
	// SessionFile 为空时使用配置目录下的 last-session.json
	SessionFile    string `yaml:"session_file,omitempty" json:"session_file,omitempty"`
	ControlEnabled bool   `yaml:"control_enabled" json:"control_enabled"`
}

// DefaultOptions 默认运行参数
func DefaultOptions() Options {
	return Options{
		SaveDelayMS:    defaultSaveDelayMS,
		UndoDepth:      annotate.DefaultHistoryDepth,
		DoubleClickMS:  defaultDoubleClickMS,
		LogLevel:       "info",
		ControlEnabled: true,
	}
}

// OptionsPath options.yaml 路径
func OptionsPath(dir string) string {
	return filepath.Join(dir, OptionsFileName)
}

// SaveDelay 去抖保存间隔
func (o Options) SaveDelay() time.Duration {
	return time.Duration(o.SaveDelayMS) * time.Millisecond
}

// DoubleClick 双击判定间隔
func (o Options) DoubleClick() time.Duration {
	return time.Duration(o.DoubleClickMS) * time.Millisecond
}

// SlogLevel 把 log_level 映射为 slog 级别
func (o Options) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(o.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SessionPath 会话文件路径，相对路径按配置目录解析
func (o Options) SessionPath(dir string) string {
	if o.SessionFile == "" {
		return filepath.Join(dir, storage.SessionFileName)
	}
	if filepath.IsAbs(o.SessionFile) {
		return o.SessionFile
	}
	return filepath.Join(dir, o.SessionFile)
}

func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.SaveDelayMS <= 0 {
		o.SaveDelayMS = d.SaveDelayMS
	}
	if o.UndoDepth < 2 {
		o.UndoDepth = d.UndoDepth
	}
	if o.UndoDepth > annotate.DefaultHistoryDepth {
		o.UndoDepth = annotate.DefaultHistoryDepth
	}
	if o.DoubleClickMS <= 0 {
		o.DoubleClickMS = d.DoubleClickMS
	}
	if strings.TrimSpace(o.LogLevel) == "" {
		o.LogLevel = d.LogLevel
	}
	o.SessionFile = strings.TrimSpace(o.SessionFile)
}

// LoadOptions 读取 options.yaml。文件不存在返回默认值
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, errors.New("options path required")
	}

	raw, err := storage.ReadLimited(path, maxOptionsFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return opts, err
	}
	if len(raw) == 0 {
		return opts, nil
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		slog.Warn("[config] failed to parse options, using defaults", "path", path, "error", err)
		return DefaultOptions(), err
	}
	opts.applyDefaults()
	return opts, nil
}

// EnsureOptions 文件不存在时写入默认值，返回读取结果
func EnsureOptions(path string) (Options, error) {
	opts, err := LoadOptions(path)
	if err != nil {
		return opts, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := SaveOptions(path, opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// SaveOptions 补齐默认值后原子写入，返回实际写入的值
func SaveOptions(path string, opts Options) (Options, error) {
	opts.applyDefaults()
	raw, err := yaml.Marshal(opts)
	if err != nil {
		return opts, fmt.Errorf("save options: marshal: %w", err)
	}
	if err := storage.WriteAtomic(path, raw); err != nil {
		return opts, fmt.Errorf("save options: %w", err)
	}
	slog.Debug("[config] options saved", "path", path)
	return opts, nil
}
