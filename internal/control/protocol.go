// Package control 本机控制通道：其他进程（如 glassmark -send）按名称触发热键动作。
// 每个连接一行 JSON 请求、一行 JSON 响应
package control

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"regexp"
	"strings"
)

const (
	maxRequestBytes  = 4 * 1024
	maxResponseBytes = 4 * 1024
	addressEnv       = "GLASSMARK_CONTROL"
)

// Request 一次动作请求
type Request struct {
	Action string `json:"action"`
}

// Response 执行结果
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

var usernamePattern = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// DefaultAddress 当前用户的控制地址，可用环境变量 GLASSMARK_CONTROL 覆盖
func DefaultAddress() string {
	if v := strings.TrimSpace(os.Getenv(addressEnv)); v != "" {
		return v
	}
	return defaultAddress(currentUsername())
}

func currentUsername() string {
	name := strings.TrimSpace(os.Getenv("USERNAME"))
	if name == "" {
		name = strings.TrimSpace(os.Getenv("USER"))
	}
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	// DOMAIN\user 只取用户名
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	name = usernamePattern.ReplaceAllString(name, "_")
	if name == "" {
		name = "default"
	}
	return name
}

func encodeFrame(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// readFrame 读取一行，超出上限时报错。EOF 前的未换行内容也算一帧
func readFrame(r *bufio.Reader, maxBytes int) ([]byte, error) {
	raw, err := r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxBytes)
	}
	if errors.Is(err, io.EOF) {
		if len(raw) == 0 {
			return nil, io.EOF
		}
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	req.Action = strings.TrimSpace(req.Action)
	if req.Action == "" {
		return Request{}, errors.New("action is required")
	}
	return req, nil
}
