//go:build windows

package control

import (
	"errors"
	"fmt"
	"net"
	"os/user"
	"regexp"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\glassmark-`

func defaultAddress(username string) string {
	return pipePrefix + username
}

var sidPattern = regexp.MustCompile(`^S-1(-\d+)+$`)

// listen 命名管道只允许 SYSTEM 和当前用户连接
func listen(addr string) (net.Listener, error) {
	sd, err := securityDescriptor()
	if err != nil {
		return nil, err
	}
	return winio.ListenPipe(addr, &winio.PipeConfig{
		SecurityDescriptor: sd,
		InputBufferSize:    int32(maxRequestBytes),
		OutputBufferSize:   int32(maxResponseBytes),
	})
}

func securityDescriptor() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	sid := strings.TrimSpace(u.Uid)
	if !sidPattern.MatchString(sid) {
		return "", errors.New("current user SID has unexpected format")
	}
	return fmt.Sprintf("D:P(A;;GA;;;SY)(A;;GA;;;%s)", sid), nil
}

func dial(addr string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(addr, &timeout)
}

func cleanup(string) {}
