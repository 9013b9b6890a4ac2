//go:build windows

package notify

import (
	"github.com/go-toast/toast"
)

func push(appID, title, message string) error {
	notification := toast.Notification{
		AppID:   appID,
		Title:   title,
		Message: message,
	}
	return notification.Push()
}
