//go:build unix

package builtins

import "golang.org/x/sys/unix"

// signalPid sends SIGTERM to pid, the default kill(1) behavior.
func signalPid(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}
