//go:build windows

package tools

import (
	"os"

	"golang.org/x/sys/windows"
)

// availableMB returns the disk space available to the current user at path,
// in megabytes.
func availableMB(path string) (float64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var avail, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(p, &avail, &total, &free); err != nil {
		return 0, err
	}
	return float64(avail) / (1024 * 1024), nil
}

// writable reports whether path can be written to. Directories are probed
// by creating and removing a temporary file.
func writable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		f, err := os.CreateTemp(path, ".writable-*")
		if err != nil {
			return false
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
		return true
	}
	return info.Mode().Perm()&0o200 != 0
}
