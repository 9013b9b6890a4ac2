package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	// ErrAlreadyInUse 组合键已被本程序或其他程序占用
	ErrAlreadyInUse = errors.New("hotkey already in use")
	// ErrUnassigned 未分配的绑定不能注册
	ErrUnassigned = errors.New("hotkey unassigned")
	// ErrUnsupported 当前平台无法注册这个键或修饰键
	ErrUnsupported = errors.New("hotkey not supported on this platform")
)

// Backend 系统热键注册能力。触发时按 id 回调。
// 平台不支持的键应返回包装了 ErrUnsupported 的错误，其余失败按占用处理
type Backend interface {
	Register(id int, b Binding) error
	Unregister(id int) error
}

type entry struct {
	action  Action
	binding Binding
}

// Table 进程级热键表：id 自增，按 id 映射回动作。只在事件循环线程上使用
type Table struct {
	backend Backend
	nextID  int
	entries map[int]entry
}

// NewTable 创建热键表
func NewTable(backend Backend) *Table {
	return &Table{
		backend: backend,
		entries: make(map[int]entry),
	}
}

// Register 注册一个动作的热键，返回 id
func (t *Table) Register(a Action, b Binding) (int, error) {
	b = b.normalize()
	if !b.Assigned() {
		return 0, ErrUnassigned
	}
	for _, e := range t.entries {
		if e.binding == b {
			return 0, fmt.Errorf("%s (%s) is bound to %s: %w", b, a, e.action, ErrAlreadyInUse)
		}
	}

	t.nextID++
	id := t.nextID
	if err := t.backend.Register(id, b); err != nil {
		if errors.Is(err, ErrUnsupported) || errors.Is(err, ErrUnassigned) {
			return 0, fmt.Errorf("%s (%s): %w", b, a, err)
		}
		return 0, fmt.Errorf("%s (%s): %w: %w", b, a, ErrAlreadyInUse, err)
	}
	t.entries[id] = entry{action: a, binding: b}
	return id, nil
}

// Unregister 注销一个 id
func (t *Table) Unregister(id int) error {
	if _, ok := t.entries[id]; !ok {
		return fmt.Errorf("hotkey id %d not registered", id)
	}
	delete(t.entries, id)
	return t.backend.Unregister(id)
}

// Clear 注销全部热键
func (t *Table) Clear() {
	for id := range t.entries {
		if err := t.backend.Unregister(id); err != nil {
			slog.Warn("[hotkey] unregister failed", "id", id, "error", err)
		}
	}
	clear(t.entries)
}

// Lookup 把触发的 id 映射回动作
func (t *Table) Lookup(id int) (Action, bool) {
	e, ok := t.entries[id]
	return e.action, ok
}

// Len 已注册数量
func (t *Table) Len() int {
	return len(t.entries)
}

// Conflict 注册失败的动作
type Conflict struct {
	Action  Action
	Binding Binding
	Err     error
}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s: %v", c.Action.Label(), c.Err)
}

// Apply 清空后按固定顺序重新注册整张表。未分配的跳过，冲突的收集返回，不中断其余注册
func (t *Table) Apply(bindings map[Action]Binding) []Conflict {
	t.Clear()

	var conflicts []Conflict
	for _, a := range orderedActions(bindings) {
		b := bindings[a]
		if !b.Assigned() {
			continue
		}
		if _, err := t.Register(a, b); err != nil {
			slog.Warn("[hotkey] registration skipped", "action", string(a), "binding", b.String(), "error", err)
			conflicts = append(conflicts, Conflict{Action: a, Binding: b, Err: err})
			continue
		}
		slog.Debug("[hotkey] registered", "action", string(a), "binding", b.String())
	}
	return conflicts
}

// orderedActions 已知动作按固定顺序，其余按名称排序
func orderedActions(bindings map[Action]Binding) []Action {
	known := make(map[Action]bool, len(actionOrder))
	out := make([]Action, 0, len(bindings))
	for _, a := range actionOrder {
		known[a] = true
		if _, ok := bindings[a]; ok {
			out = append(out, a)
		}
	}
	var extra []Action
	for a := range bindings {
		if !known[a] {
			extra = append(extra, a)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
