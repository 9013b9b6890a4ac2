package annotate

import (
	"errors"
	"fmt"
)

// DefaultHistoryDepth 撤销栈默认容量
const DefaultHistoryDepth = 50

// ErrNothingToUndo 只剩基线快照，无可撤销
var ErrNothingToUndo = errors.New("nothing to undo")

// Codec 会话与文本快照之间的编解码
type Codec interface {
	Encode(Session) (string, error)
	Decode(string) (Session, error)
}

// History 撤销管理器：保存序列化后的会话快照，栈顶即当前状态
type History struct {
	codec      Codec
	entries    []string
	maxHistory int
}

// NewHistory 创建撤销管理器
func NewHistory(codec Codec, maxHistory int) *History {
	if maxHistory <= 0 {
		maxHistory = DefaultHistoryDepth
	}
	return &History{
		codec:      codec,
		entries:    make([]string, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// Push 序列化并入栈。超出容量时丢弃最旧的快照，最新的永远保留
func (h *History) Push(s Session) error {
	entry, err := h.codec.Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.maxHistory; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
	return nil
}

// Undo 弹出当前状态，返回新栈顶的独立副本
func (h *History) Undo() (Session, error) {
	if len(h.entries) <= 1 {
		return Session{}, ErrNothingToUndo
	}
	h.entries = h.entries[:len(h.entries)-1]
	s, err := h.codec.Decode(h.entries[len(h.entries)-1])
	if err != nil {
		return Session{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// CanUndo 是否可以撤销
func (h *History) CanUndo() bool {
	return len(h.entries) > 1
}

// Len 快照数量
func (h *History) Len() int {
	return len(h.entries)
}

// Clear 清空所有快照
func (h *History) Clear() {
	h.entries = h.entries[:0]
}
