//go:build !windows

package output

// enableANSI reports ANSI support for a terminal file descriptor.
// Unix terminals interpret escape sequences without setup.
func enableANSI(fd uintptr) bool {
	return true
}
