//go:build !windows

package notify

// 其他平台没有通知中心，警告只出现在日志中
func push(appID, title, message string) error {
	return nil
}
