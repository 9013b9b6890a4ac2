// Package notify 桌面通知：热键冲突和设置文件错误等非致命警告
package notify

import "log/slog"

// AppID 通知中心显示的应用名
const AppID = "Glassmark"

// Notifier 桌面通知。Show 不阻塞调用方
type Notifier struct {
	appID string
	push  func(appID, title, message string) error
}

// New 创建通知器，平台不支持时只写日志
func New() *Notifier {
	return &Notifier{
		appID: AppID,
		push:  push,
	}
}

// Show 记录警告并异步弹出通知
func (n *Notifier) Show(title, message string) {
	slog.Warn("[notify] "+title, "message", message)
	go func() {
		if err := n.push(n.appID, title, message); err != nil {
			slog.Debug("[notify] push failed", "error", err)
		}
	}()
}
