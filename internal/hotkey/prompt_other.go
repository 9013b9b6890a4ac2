//go:build !windows

package hotkey

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptBinding 在终端读取新的组合键。取消或输入无效时 ok 为 false
func PromptBinding(a Action, current Binding) (b Binding, ok bool) {
	fmt.Printf("请输入 %s 的快捷键组合 (当前: %s，示例: ctrl+shift+c，none 取消分配): ", a.Label(), current)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return Unassigned, false
	}
	input := strings.TrimSpace(line)
	if input == "" {
		return Unassigned, false
	}
	b, err = ParseBinding(input)
	if err != nil {
		fmt.Println("快捷键格式无效:", err)
		return Unassigned, false
	}
	return b, true
}
