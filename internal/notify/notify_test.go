package notify

import (
	"testing"
	"time"
)

func TestShowPushesAsync(t *testing.T) {
	got := make(chan [3]string, 1)
	n := &Notifier{
		appID: AppID,
		push: func(appID, title, message string) error {
			got <- [3]string{appID, title, message}
			return nil
		},
	}
	n.Show("热键注册失败", "F9: hotkey already in use")

	select {
	case v := <-got:
		if v != [3]string{AppID, "热键注册失败", "F9: hotkey already in use"} {
			t.Fatalf("push = %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("notification not pushed")
	}
}
