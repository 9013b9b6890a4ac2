package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// replaceDelays Windows 上目标文件可能被杀毒软件或索引服务短暂占用，按这些间隔重试替换
var replaceDelays = []time.Duration{
	10 * time.Millisecond,
	20 * time.Millisecond,
	40 * time.Millisecond,
	80 * time.Millisecond,
	160 * time.Millisecond,
}

// WriteAtomic 把 data 写入同目录的临时文件，落盘后再替换 path。中途失败时原文件保持不变
func WriteAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := replaceFile(tmp, path); err != nil {
		discard(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeTemp 写出并同步临时文件，返回它的路径。失败时临时文件已删除
func writeTemp(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.partial")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	name := f.Name()
	werr := fill(f, data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		discard(name)
		return "", fmt.Errorf("write temp: %w", werr)
	}
	return name, nil
}

func fill(f *os.File, data []byte) error {
	if err := f.Chmod(0o600); err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func discard(name string) {
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("[storage] leftover temp file", "path", name, "error", err)
	}
}

// replaceFile 重命名覆盖目标。只有 Windows 会重试
func replaceFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	for _, d := range replaceDelays {
		time.Sleep(d)
		if err = os.Rename(src, dst); err == nil {
			return nil
		}
	}
	return err
}

// ReadLimited 读取文件，超过 maxBytes 视为错误
func ReadLimited(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", filepath.Base(path), maxBytes)
	}
	return raw, nil
}

// Quarantine 把无法解析的文件改名保留，避免被下一次保存覆盖
func Quarantine(path string) (string, error) {
	target := fmt.Sprintf("%s.corrupt-%s", path, time.Now().Format("20060102_150405"))
	if err := replaceFile(path, target); err != nil {
		return "", err
	}
	return target, nil
}
