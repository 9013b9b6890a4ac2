package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay 编辑器保存时往往连续触发多次写事件，合并为一次
const reloadDelay = 200 * time.Millisecond

// Watch 监视设置文件的外部修改，合并后调用 onChange。
// 监视的是所在目录，编辑器以改名方式保存时也能收到。ctx 结束时停止
func Watch(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch settings: %w", err)
	}

	name := filepath.Base(path)
	debounced := debounce.New(reloadDelay)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				slog.Debug("[config] settings changed on disk", "op", ev.Op.String())
				debounced(onChange)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("[config] watcher error", "error", err)
			}
		}
	}()
	return nil
}
