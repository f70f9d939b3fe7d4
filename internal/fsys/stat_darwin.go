//go:build darwin

package fsys

import (
	"os"
	"syscall"
	"time"
)

// AccessTime returns the access time recorded in info, falling back to the
// modification time when the platform stat is unavailable.
func AccessTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
	}
	return info.ModTime()
}

// FileID returns the device and inode numbers of info.
func FileID(info os.FileInfo) (dev, ino uint64, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(stat.Dev), stat.Ino, true //nolint:gosec // G115: dev_t is int32 on darwin, always non-negative
}
