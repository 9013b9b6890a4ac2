// Package oshotkey 把热键表的 Backend 接到 golang.design/x/hotkey 上。
// 只有主程序导入它，其余包只依赖纯逻辑的 hotkey 包
package oshotkey

import (
	"fmt"
	"log/slog"
	"sync"

	"glassmark/internal/hotkey"

	syshotkey "golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

// Backend 系统热键。
// 每个热键一个监听 goroutine，触发时只调用 emit 投递 id，不直接执行动作
type Backend struct {
	mu     sync.Mutex
	emit   func(id int)
	active map[int]*registration
}

type registration struct {
	hk   *syshotkey.Hotkey
	done chan struct{}
}

// New 创建系统热键后端。emit 会在监听 goroutine 上调用
func New(emit func(id int)) *Backend {
	return &Backend{
		emit:   emit,
		active: make(map[int]*registration),
	}
}

// Register 向系统注册热键。平台不支持的键返回 hotkey.ErrUnsupported
func (b *Backend) Register(id int, bind hotkey.Binding) error {
	mods, err := nativeModifiers(bind.Modifiers)
	if err != nil {
		return err
	}
	key, err := nativeKey(bind.Key)
	if err != nil {
		return err
	}

	hk := syshotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %s: %w", bind, err)
	}

	reg := &registration{hk: hk, done: make(chan struct{})}
	b.mu.Lock()
	b.active[id] = reg
	b.mu.Unlock()

	go b.listen(id, reg)
	return nil
}

func (b *Backend) listen(id int, reg *registration) {
	keydown := reg.hk.Keydown()
	for {
		select {
		case _, ok := <-keydown:
			if !ok {
				return
			}
			b.emit(id)
		case <-reg.done:
			return
		}
	}
}

// Unregister 注销热键并停止监听
func (b *Backend) Unregister(id int) error {
	b.mu.Lock()
	reg, ok := b.active[id]
	delete(b.active, id)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	close(reg.done)
	if err := reg.hk.Unregister(); err != nil {
		slog.Warn("[hotkey] os unregister failed", "id", id, "error", err)
		return err
	}
	return nil
}

// Run 在主线程中运行（某些平台需要）
func Run(fn func()) {
	mainthread.Init(fn)
}
