package control

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glassmark/internal/hotkey"
)

const (
	dialTimeout = 3 * time.Second
	rwTimeout   = 5 * time.Second
)

// ErrNotRunning 没有正在运行的实例
var ErrNotRunning = errors.New("glassmark is not running")

// Send 请求正在运行的实例执行动作
func Send(addr string, a hotkey.Action) error {
	if addr == "" {
		addr = DefaultAddress()
	}
	conn, err := dial(addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(rwTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	frame, err := encodeFrame(Request{Action: string(a)})
	if err != nil {
		return err
	}
	if _, err := conn.Write(frame); err != nil {
		return err
	}

	raw, err := readFrame(bufio.NewReaderSize(conn, maxResponseBytes+1), maxResponseBytes)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}
