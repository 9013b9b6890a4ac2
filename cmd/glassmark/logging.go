package main

import (
	"log/slog"
	"os"
	"path/filepath"
)

const logFileName = "glassmark.log"

// setupLogging 日志写到 exe 同级目录，不可写时退到设置目录，都失败时写 stderr。
// 每次启动覆盖上一次的日志
func setupLogging(level slog.Level, fallbackDir string) func() {
	opts := &slog.HandlerOptions{Level: level}

	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, fallbackDir)

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			continue
		}
		f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			continue
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(f, opts)))
		return func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	return func() {}
}
