//go:build !windows

package filesystem

import "golang.org/x/sys/unix"

// writable reports whether the current user may create entries in dir
func writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
