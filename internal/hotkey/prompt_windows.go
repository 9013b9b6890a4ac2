//go:build windows

package hotkey

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// PromptBinding 弹出输入框让用户输入新的组合键。
// 使用 PowerShell InputBox，避免 Windows GUI 线程问题。取消或输入无效时 ok 为 false
func PromptBinding(a Action, current Binding) (b Binding, ok bool) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName Microsoft.VisualBasic
$msg = "请输入 %s 的快捷键组合" + [char]10 + [char]10 + "格式: 修饰键+主键" + [char]10 + "示例: f8, ctrl+z, ctrl+shift+c" + [char]10 + "输入 none 取消分配"
$result = [Microsoft.VisualBasic.Interaction]::InputBox($msg, "设置快捷键", "%s")
Write-Output $result
`, a.Label(), strings.ToLower(current.String()))

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.Output()
	if err != nil {
		slog.Warn("[hotkey] powershell prompt failed", "error", err)
		return Unassigned, false
	}

	input := strings.TrimSpace(string(output))
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
