package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/bamsammich/treecopy/internal/fsys"
)

// dirID identifies a directory on the chain from the root to the entry being
// visited. Only populated when symlinks are followed.
type dirID struct {
	parent *dirID
	dev    uint64
	ino    uint64
}

func (d *dirID) contains(dev, ino uint64) bool {
	for ; d != nil; d = d.parent {
		if d.dev == dev && d.ino == ino {
			return true
		}
	}
	return false
}

type scanItem struct {
	info      os.FileInfo
	ancestors *dirID
	path      string
}

// Enumerate lists root and every entry beneath it in depth-first pre-order,
// with siblings in the order ReadDir returns them. A non-directory root yields
// only itself. With expand set, symlinks are followed and a link back to a
// directory on the current path fails with ELOOP.
func Enumerate(ctx context.Context, filesystem fsys.FS, root string, expand bool) ([]string, error) {
	stat := filesystem.Lstat
	if expand {
		stat = filesystem.Stat
	}

	info, err := stat(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	stack := []scanItem{{path: root, info: info}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		paths = append(paths, item.path)

		if !item.info.IsDir() {
			continue
		}

		ancestors := item.ancestors
		if expand {
			if dev, ino, ok := fsys.FileID(item.info); ok {
				if ancestors.contains(dev, ino) {
					return nil, &fs.PathError{Op: "enumerate", Path: item.path, Err: syscall.ELOOP}
				}
				ancestors = &dirID{parent: ancestors, dev: dev, ino: ino}
			}
		}

		names, err := filesystem.ReadDir(item.path)
		if err != nil {
			return nil, err
		}

		children := make([]scanItem, 0, len(names))
		for _, name := range names {
			child := filepath.Join(item.path, name)
			childInfo, err := stat(child)
			if err != nil {
				return nil, err
			}
			children = append(children, scanItem{path: child, info: childInfo, ancestors: ancestors})
		}
		// Push in reverse so the first child is visited next.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return paths, nil
}
