//go:build !windows

package control

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"
)

func defaultAddress(username string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "glassmark-"+username+".sock")
}

// listen 在 unix socket 上监听。旧进程残留的 socket 文件若已无人监听则删除
func listen(addr string) (net.Listener, error) {
	if _, err := os.Stat(addr); err == nil {
		if conn, err := net.DialTimeout("unix", addr, time.Second); err == nil {
			conn.Close()
			return nil, errors.New("another instance is listening")
		}
		if err := os.Remove(addr); err != nil {
			return nil, err
		}
	}
	l, err := net.Listen("unix", addr)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(addr, 0600); err != nil {
		slog.Warn("[control] chmod socket failed", "error", err)
	}
	return l, nil
}

func dial(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", addr, timeout)
}

func cleanup(addr string) {
	if err := os.Remove(addr); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("[control] remove socket failed", "error", err)
	}
}
