// Package fsys defines the filesystem primitives the copy engine consumes
// and a local implementation backed by the operating system.
package fsys

import (
	"io"
	"os"
	"time"
)

// FS is the set of primitive filesystem operations used by the engine.
// All paths are absolute. Implementations must be safe for concurrent use.
type FS interface {
	// Stat returns metadata for path, following symbolic links.
	Stat(path string) (os.FileInfo, error)

	// Lstat returns metadata for path without following a final symlink.
	Lstat(path string) (os.FileInfo, error)

	// ReadDir returns the names of the entries in the directory at path,
	// in listing order.
	ReadDir(path string) ([]string, error)

	// Readlink returns the literal target string of the symlink at path.
	Readlink(path string) (string, error)

	// Symlink creates newPath as a symbolic link to target.
	Symlink(target, newPath string) error

	// MkdirAll creates a directory and any missing parents. It returns nil
	// if path is already a directory.
	MkdirAll(path string, perm os.FileMode) error

	// RemoveAll removes path and anything it contains.
	RemoveAll(path string) error

	// Open opens path for reading.
	Open(path string) (io.ReadCloser, error)

	// Create opens path for writing, truncating it or creating it with perm.
	Create(path string, perm os.FileMode) (io.WriteCloser, error)

	// Chtimes sets the access and modification times of path.
	Chtimes(path string, atime, mtime time.Time) error
}

// Compile-time interface check.
var _ FS = Local{}

// Local is the operating system filesystem.
type Local struct{}

func (Local) Stat(path string) (os.FileInfo, error)  { return os.Stat(path) }
func (Local) Lstat(path string) (os.FileInfo, error) { return os.Lstat(path) }
func (Local) Readlink(path string) (string, error)   { return os.Readlink(path) }
func (Local) Symlink(target, newPath string) error   { return os.Symlink(target, newPath) }
func (Local) RemoveAll(path string) error            { return os.RemoveAll(path) }

func (Local) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (Local) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

//nolint:ireturn // implements FS interface
func (Local) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

//nolint:ireturn // implements FS interface
func (Local) Create(path string, perm os.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

func (Local) Chtimes(path string, atime, mtime time.Time) error {
	return setTimes(path, atime, mtime)
}

// IsSymlink reports whether info describes a symbolic link.
func IsSymlink(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}
