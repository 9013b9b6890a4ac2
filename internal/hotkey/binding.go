package hotkey

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Modifiers 修饰键位掩码，取值与 Win32 RegisterHotKey 一致
type Modifiers uint8

const (
	ModAlt   Modifiers = 0x1
	ModCtrl  Modifiers = 0x2
	ModShift Modifiers = 0x4
	ModWin   Modifiers = 0x8

	modMask = ModAlt | ModCtrl | ModShift | ModWin
)

// Has 是否包含修饰键 m
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// KeyCode 主键，取值为 Win32 虚拟键码。KeyNone 表示未分配
type KeyCode uint16

const KeyNone KeyCode = 0

// 常用键码
const (
	KeyTab    KeyCode = 0x09
	KeyEnter  KeyCode = 0x0D
	KeyAlt    KeyCode = 0x12 // 只用于按键事件，不能作为热键主键
	KeyEscape KeyCode = 0x1B
	KeySpace  KeyCode = 0x20
	KeyLeft   KeyCode = 0x25
	KeyUp     KeyCode = 0x26
	KeyRight  KeyCode = 0x27
	KeyDown   KeyCode = 0x28
	KeyDelete KeyCode = 0x2E
	Key0      KeyCode = 0x30
	KeyA      KeyCode = 0x41
	KeyC      KeyCode = 0x43
	KeyX      KeyCode = 0x58
	KeyZ      KeyCode = 0x5A
	KeyF1     KeyCode = 0x70
	KeyF8     KeyCode = 0x77
	KeyF9     KeyCode = 0x78
	KeyF10    KeyCode = 0x79
	KeyF12    KeyCode = 0x7B
)

var (
	keyNames = map[KeyCode]string{}
	keyCodes = map[string]KeyCode{}
)

func init() {
	add := func(k KeyCode, name string, aliases ...string) {
		keyNames[k] = name
		keyCodes[strings.ToUpper(name)] = k
		for _, a := range aliases {
			keyCodes[strings.ToUpper(a)] = k
		}
	}
	for c := 'A'; c <= 'Z'; c++ {
		add(KeyA+KeyCode(c-'A'), string(c))
	}
	for c := '0'; c <= '9'; c++ {
		add(Key0+KeyCode(c-'0'), string(c))
	}
	for i := 0; i < 12; i++ {
		add(KeyF1+KeyCode(i), fmt.Sprintf("F%d", i+1))
	}
	add(KeyTab, "Tab")
	add(KeyEnter, "Enter", "Return")
	add(KeyEscape, "Escape", "Esc")
	add(KeySpace, "Space")
	add(KeyLeft, "Left")
	add(KeyUp, "Up")
	add(KeyRight, "Right")
	add(KeyDown, "Down")
	add(KeyDelete, "Delete", "Del")
	add(KeyNone, "None", "Unassigned")
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}

// ParseKey 解析键名（忽略大小写），也接受十进制或 0x 前缀的键码
func ParseKey(s string) (KeyCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyNone, nil
	}
	if k, ok := keyCodes[strings.ToUpper(s)]; ok {
		return k, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil || n > 0xFE {
		return KeyNone, fmt.Errorf("unknown key %q", s)
	}
	return KeyCode(n), nil
}

func (k KeyCode) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *KeyCode) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalJSON 兼容旧文档中的数字键码
func (k *KeyCode) UnmarshalJSON(b []byte) error {
	var n uint16
	if err := json.Unmarshal(b, &n); err == nil {
		*k = KeyCode(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("key must be a name or number: %w", err)
	}
	return k.UnmarshalText([]byte(s))
}

// Binding 一个热键组合
type Binding struct {
	Modifiers Modifiers `json:"modifiers"`
	Key       KeyCode   `json:"key"`
}

// Unassigned 未分配的绑定
var Unassigned = Binding{}

// Assigned 是否分配了主键。未分配的绑定不会向系统注册
func (b Binding) Assigned() bool {
	return b.Key != KeyNone
}

// String 显示文本，顺序为 Ctrl+Shift+Alt+Win+Key
func (b Binding) String() string {
	if !b.Assigned() {
		return "Unassigned"
	}
	var parts []string
	if b.Modifiers.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if b.Modifiers.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if b.Modifiers.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if b.Modifiers.Has(ModWin) {
		parts = append(parts, "Win")
	}
	parts = append(parts, b.Key.String())
	return strings.Join(parts, "+")
}

// ParseBinding 解析 "ctrl+shift+c" 形式的组合，最后一段为主键。
// "none" 或 "unassigned" 得到未分配的绑定
func ParseBinding(s string) (Binding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unassigned, fmt.Errorf("empty hotkey")
	}
	parts := strings.Split(s, "+")
	var b Binding
	for i, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if i == len(parts)-1 {
			k, err := ParseKey(part)
			if err != nil {
				return Unassigned, err
			}
			b.Key = k
			break
		}
		switch part {
		case "ctrl", "control":
			b.Modifiers |= ModCtrl
		case "alt", "option":
			b.Modifiers |= ModAlt
		case "shift":
			b.Modifiers |= ModShift
		case "win", "cmd", "command", "super":
			b.Modifiers |= ModWin
		default:
			return Unassigned, fmt.Errorf("unknown modifier %q", part)
		}
	}
	if !b.Assigned() {
		return Unassigned, nil
	}
	return b, nil
}

// normalize 去掉未知的修饰位
func (b Binding) normalize() Binding {
	b.Modifiers &= modMask
	if !b.Assigned() {
		return Unassigned
	}
	return b
}
