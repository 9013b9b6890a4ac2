package hotkey

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

// fakeBackend 模拟系统注册：refuse 中的组合视为被其他程序占用，unsupported 中的键平台不支持
type fakeBackend struct {
	registered  map[int]Binding
	refuse      map[Binding]bool
	unsupported map[KeyCode]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		registered:  make(map[int]Binding),
		refuse:      make(map[Binding]bool),
		unsupported: make(map[KeyCode]bool),
	}
}

func (f *fakeBackend) Register(id int, b Binding) error {
	if f.unsupported[b.Key] {
		return fmt.Errorf("key %s: %w", b.Key, ErrUnsupported)
	}
	if f.refuse[b] {
		return errors.New("RegisterHotKey failed")
	}
	f.registered[id] = b
	return nil
}

func (f *fakeBackend) Unregister(id int) error {
	delete(f.registered, id)
	return nil
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    Binding
		wantErr bool
	}{
		{in: "ctrl+shift+c", want: Binding{Modifiers: ModCtrl | ModShift, Key: KeyC}},
		{in: "F8", want: Binding{Key: KeyF8}},
		{in: "Alt + X", want: Binding{Modifiers: ModAlt, Key: KeyX}},
		{in: "win+1", want: Binding{Modifiers: ModWin, Key: Key0 + 1}},
		{in: "none", want: Unassigned},
		{in: "hyper+a", wantErr: true},
		{in: "ctrl+banana", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinding(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBinding(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBinding(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseBinding(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBindingString(t *testing.T) {
	tests := []struct {
		b    Binding
		want string
	}{
		{Binding{Modifiers: ModWin | ModAlt | ModShift | ModCtrl, Key: KeyA}, "Ctrl+Shift+Alt+Win+A"},
		{Binding{Key: KeyF10}, "F10"},
		{Unassigned, "Unassigned"},
		{Binding{Modifiers: ModCtrl}, "Unassigned"},
	}
	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("String(%+v) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestKeyCodeJSON(t *testing.T) {
	var b Binding
	if err := json.Unmarshal([]byte(`{"modifiers": 6, "key": "c"}`), &b); err != nil {
		t.Fatalf("Unmarshal name: %v", err)
	}
	if b != (Binding{Modifiers: ModCtrl | ModShift, Key: KeyC}) {
		t.Fatalf("binding = %+v", b)
	}

	if err := json.Unmarshal([]byte(`{"modifiers": 0, "key": 119}`), &b); err != nil {
		t.Fatalf("Unmarshal number: %v", err)
	}
	if b.Key != KeyF8 {
		t.Fatalf("numeric key = %v, want F8", b.Key)
	}

	out, err := json.Marshal(Binding{Modifiers: ModCtrl, Key: KeyZ})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"modifiers":2,"key":"Z"}` {
		t.Fatalf("Marshal = %s", out)
	}
}

func TestParseActionIgnoresCase(t *testing.T) {
	a, err := ParseAction("ToggleCursor")
	if err != nil || a != ToggleCursor {
		t.Fatalf("ParseAction = %q, %v", a, err)
	}
	if _, err := ParseAction("fly"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	backend := newFakeBackend()
	table := NewTable(backend)
	b := Binding{Modifiers: ModCtrl, Key: KeyZ}

	first, err := table.Register(Undo, b)
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := table.Register(ClearAll, b); !errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("second Register err = %v, want ErrAlreadyInUse", err)
	}
	if a, ok := table.Lookup(first); !ok || a != Undo {
		t.Fatalf("first binding lost: %q, %v", a, ok)
	}
	if len(backend.registered) != 1 {
		t.Fatalf("backend registrations = %d, want 1", len(backend.registered))
	}
}

func TestRegisterBackendRefusal(t *testing.T) {
	backend := newFakeBackend()
	backend.refuse[Binding{Key: KeyF9}] = true
	table := NewTable(backend)

	_, err := table.Register(ToggleVisibility, Binding{Key: KeyF9})
	if !errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("err = %v, want ErrAlreadyInUse", err)
	}
	if table.Len() != 0 {
		t.Fatalf("refused binding kept in table")
	}
}

func TestRegisterUnsupportedKey(t *testing.T) {
	backend := newFakeBackend()
	backend.unsupported[KeyF1+11] = true
	table := NewTable(backend)

	_, err := table.Register(ToggleVisibility, Binding{Key: KeyF1 + 11})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("unsupported key reported as in use: %v", err)
	}

	conflicts := table.Apply(map[Action]Binding{ToggleVisibility: {Key: KeyF1 + 11}})
	if len(conflicts) != 1 || !errors.Is(conflicts[0].Err, ErrUnsupported) {
		t.Fatalf("conflicts = %+v, want one ErrUnsupported", conflicts)
	}
}

func TestRegisterUnassigned(t *testing.T) {
	table := NewTable(newFakeBackend())
	if _, err := table.Register(SelectPen, Unassigned); !errors.Is(err, ErrUnassigned) {
		t.Fatalf("err = %v, want ErrUnassigned", err)
	}
}

func TestIDsIncrement(t *testing.T) {
	table := NewTable(newFakeBackend())
	a, _ := table.Register(ToggleCursor, Binding{Key: KeyF8})
	b, _ := table.Register(ToggleVisibility, Binding{Key: KeyF9})
	if b <= a {
		t.Fatalf("ids not increasing: %d then %d", a, b)
	}
	if err := table.Unregister(a); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if _, ok := table.Lookup(a); ok {
		t.Fatal("unregistered id still resolves")
	}
	c, _ := table.Register(CloseApp, Binding{Key: KeyF10})
	if c <= b {
		t.Fatalf("id reused: %d", c)
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	backend := newFakeBackend()
	backend.refuse[Binding{Key: KeyF9}] = true
	table := NewTable(backend)

	conflicts := table.Apply(DefaultBindings())
	if len(conflicts) != 1 || conflicts[0].Action != ToggleVisibility {
		t.Fatalf("conflicts = %+v, want toggleVisibility only", conflicts)
	}
	// F8, F10, Ctrl+Shift+C, Ctrl+Z
	if table.Len() != 4 {
		t.Fatalf("registered = %d, want 4", table.Len())
	}

	// 重新应用先清空旧注册
	table.Apply(map[Action]Binding{Undo: {Modifiers: ModCtrl, Key: KeyZ}})
	if table.Len() != 1 || len(backend.registered) != 1 {
		t.Fatalf("after reapply table=%d backend=%d, want 1", table.Len(), len(backend.registered))
	}
}
