//go:build windows

package output

import "golang.org/x/sys/windows"

// enableANSI switches on virtual terminal processing for the console behind
// fd. It requires Windows 10 or later.
func enableANSI(fd uintptr) bool {
	handle := windows.Handle(fd)

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
