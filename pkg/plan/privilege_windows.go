//go:build windows

package plan

import "syscall"

// isElevated reports whether the process has administrator rights.
func isElevated() bool {
	shell32 := syscall.NewLazyDLL("shell32.dll")
	isUserAnAdmin := shell32.NewProc("IsUserAnAdmin")

	ret, _, _ := isUserAnAdmin.Call()
	return ret != 0
}
