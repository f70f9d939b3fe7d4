package engine

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/fsys"
	"github.com/bamsammich/treecopy/internal/stats"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// worker copies individual entries for one invocation.
type worker struct {
	fs        fsys.FS
	bus       *event.Bus
	stats     *stats.Collector
	transform TransformFunc
	srcRoot   string
	overwrite bool
	expand    bool
}

func (w *worker) stat(path string) (os.FileInfo, error) {
	if w.expand {
		return w.fs.Stat(path)
	}
	return w.fs.Lstat(path)
}

// copyEntry copies one entry. The returned error is always an *EntryError.
func (w *worker) copyEntry(ctx context.Context, op Operation) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, &EntryError{Src: op.Src, Dest: op.Dest, Err: err}
	}

	info, err := w.stat(op.Src)
	if err != nil {
		w.stats.AddEntriesFailed(1)
		return Record{}, &EntryError{Src: op.Src, Dest: op.Dest, Err: err}
	}
	rec := Record{Src: op.Src, Dest: op.Dest, Stats: info}

	if err := w.ensureWritable(op.Dest, info); err != nil {
		w.stats.AddEntriesFailed(1)
		return rec, &EntryError{Src: op.Src, Dest: op.Dest, Stats: info, Err: err}
	}

	kind := event.KindOf(info)
	w.bus.Emit(event.Event{Type: kind.Start(), Record: rec})

	if err := w.copyKind(ctx, kind, op, info); err != nil {
		w.stats.AddEntriesFailed(1)
		return rec, &EntryError{Src: op.Src, Dest: op.Dest, Stats: info, Err: err, started: true}
	}

	w.bus.Emit(event.Event{Type: kind.Done(), Record: rec})
	return rec, nil
}

func (w *worker) copyKind(ctx context.Context, kind event.Kind, op Operation, info os.FileInfo) error {
	if op.Src != w.srcRoot {
		if err := w.fs.MkdirAll(filepath.Dir(op.Dest), 0o755); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch kind {
	case event.Directory:
		return w.createDirectory(op, info)
	case event.Symlink:
		return w.createSymlink(op)
	default:
		return w.copyFile(ctx, op, info)
	}
}

// ensureWritable checks the destination before anything is written. A
// directory may be merged into an existing directory; any other existing
// entry is an EEXIST failure unless overwrite is set, in which case it is
// removed.
func (w *worker) ensureWritable(dest string, src os.FileInfo) error {
	existing, err := w.fs.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if src.IsDir() && existing.IsDir() {
		return nil
	}
	if !w.overwrite {
		return &fs.PathError{Op: "copy", Path: dest, Err: syscall.EEXIST}
	}
	return w.fs.RemoveAll(dest)
}

// createDirectory creates dest keeping the source permissions plus owner
// access so children can still be written. An existing directory is merged.
func (w *worker) createDirectory(op Operation, info os.FileInfo) error {
	if err := w.fs.MkdirAll(op.Dest, info.Mode().Perm()|0o700); err != nil {
		return err
	}
	w.stats.AddDirsCreated(1)
	return nil
}

// createSymlink recreates the link with its target text unchanged.
func (w *worker) createSymlink(op Operation) error {
	target, err := w.fs.Readlink(op.Src)
	if err != nil {
		return err
	}
	if err := w.fs.Symlink(target, op.Dest); err != nil {
		return err
	}
	w.stats.AddSymlinksCreated(1)
	return nil
}

func (w *worker) copyFile(ctx context.Context, op Operation, info os.FileInfo) error {
	src, err := w.fs.Open(op.Src)
	if err != nil {
		return err
	}
	defer src.Close()

	var r io.Reader = src
	if w.transform != nil {
		if stream := w.transform(op.Src, op.Dest, info); stream != nil {
			r = stream(src)
			if c, ok := r.(io.Closer); ok {
				defer c.Close()
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := w.fs.Create(op.Dest, info.Mode().Perm())
	if err != nil {
		return err
	}

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	n, err := io.CopyBuffer(dst, r, *bufp)
	if err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	if err := w.fs.Chtimes(op.Dest, fsys.AccessTime(info), info.ModTime()); err != nil {
		return err
	}

	w.stats.AddFilesCopied(1)
	w.stats.AddBytesCopied(n)
	return nil
}
