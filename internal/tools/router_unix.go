//go:build !windows

package tools

import "golang.org/x/sys/unix"

// availableMB returns the disk space available to the current user at path,
// in megabytes.
func availableMB(path string) (float64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return float64(st.Bavail) * float64(st.Bsize) / (1024 * 1024), nil
}

// writable reports whether the current user has write access to path.
func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
