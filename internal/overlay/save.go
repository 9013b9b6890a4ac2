package overlay

import (
	"log/slog"
	"time"

	"github.com/bep/debounce"

	"glassmark/internal/annotate"
)

// Scheduler 去抖定时器。每次 Schedule 都重新计时，只有静默到期才触发一次
type Scheduler interface {
	Schedule()
	Stop()
}

// SessionStore 会话持久化，同时作为撤销历史的编解码器
type SessionStore interface {
	annotate.Codec
	Save(annotate.Session) error
}

type debounceScheduler struct {
	debounced func(func())
	fire      func()
}

// NewDebounceScheduler 基于 bep/debounce 的定时器，到期时调用 fire（在定时器 goroutine 上）
func NewDebounceScheduler(delay time.Duration, fire func()) Scheduler {
	return &debounceScheduler{
		debounced: debounce.New(delay),
		fire:      fire,
	}
}

func (d *debounceScheduler) Schedule() {
	d.debounced(d.fire)
}

// Stop 用空函数替换待触发的回调
func (d *debounceScheduler) Stop() {
	d.debounced(func() {})
}

// pendingSave 待保存的内容
type pendingSave int

const (
	saveNone pendingSave = iota
	// savePersist 只写文件，撤销和清空之后基线已在历史中
	savePersist
	// saveSnapshot 写文件并压入撤销历史
	saveSnapshot
)

// scheduleSave 用户修改后重新计时
func (o *Overlay) scheduleSave() {
	if o.model.Restoring() {
		return
	}
	o.pending = saveSnapshot
	o.saver.Schedule()
}

// schedulePersist 只需写文件，不产生新的撤销点
func (o *Overlay) schedulePersist() {
	if o.pending < savePersist {
		o.pending = savePersist
	}
	o.saver.Schedule()
}

// saveSession 定时器到期：写入会话文件，需要时压入撤销历史
func (o *Overlay) saveSession() {
	o.saver.Stop()
	pending := o.pending
	o.pending = saveNone
	if pending == saveNone || o.model.Restoring() {
		return
	}

	session := o.model.Snapshot()
	if err := o.store.Save(session); err != nil {
		slog.Warn("[overlay] session save failed", "error", err)
	}
	if pending == saveSnapshot {
		if err := o.history.Push(session); err != nil {
			slog.Warn("[overlay] undo snapshot failed", "error", err)
		}
	}
	slog.Debug("[overlay] session saved", "snapshot", pending == saveSnapshot, "undo", o.history.Len())
}
