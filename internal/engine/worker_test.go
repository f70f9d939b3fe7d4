package engine

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/fsys"
	"github.com/bamsammich/treecopy/internal/stats"
)

func newTestWorker(t *testing.T, overwrite bool) (*worker, *event.Bus) {
	t.Helper()
	bus := &event.Bus{}
	return &worker{
		fs:        fsys.Local{},
		bus:       bus,
		stats:     stats.NewCollector(),
		overwrite: overwrite,
	}, bus
}

func TestEnsureWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(sub, 0o755))

	fileInfo, err := os.Lstat(file)
	require.NoError(t, err)
	dirInfo, err := os.Lstat(sub)
	require.NoError(t, err)

	tests := []struct {
		src       os.FileInfo
		name      string
		dest      string
		overwrite bool
		wantErr   error
	}{
		{name: "missing destination", src: fileInfo, dest: filepath.Join(dir, "new")},
		{name: "directory merges", src: dirInfo, dest: sub},
		{name: "file onto file", src: fileInfo, dest: file, wantErr: syscall.EEXIST},
		{name: "directory onto file", src: dirInfo, dest: file, wantErr: syscall.EEXIST},
		{name: "file onto directory", src: fileInfo, dest: sub, wantErr: syscall.EEXIST},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, _ := newTestWorker(t, tt.overwrite)
			err := w.ensureWritable(tt.dest, tt.src)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var pe *fs.PathError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, tt.dest, pe.Path)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnsureWritable_OverwriteRemoves(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "deep"), 0o755))
	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	info, err := os.Lstat(src)
	require.NoError(t, err)

	w, _ := newTestWorker(t, true)
	require.NoError(t, w.ensureWritable(dest, info))

	_, err = os.Lstat(dest)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// createFailFS fails every Create after the destination checks pass.
type createFailFS struct {
	fsys.Local
	err error
}

func (f createFailFS) Create(string, os.FileMode) (io.WriteCloser, error) {
	return nil, f.err
}

func TestCopyEntry_FailureAfterStart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	dest := filepath.Join(dir, "out", "dest.txt")

	w, bus := newTestWorker(t, false)
	w.fs = createFailFS{err: syscall.EACCES}
	w.srcRoot = dir
	var types []event.Type
	bus.OnAny(func(ev event.Event) { types = append(types, ev.Type) })

	_, err := w.copyEntry(context.Background(), Operation{Src: src, Dest: dest})
	require.ErrorIs(t, err, syscall.EACCES)

	var ee *EntryError
	require.True(t, errors.As(err, &ee))
	assert.True(t, ee.started)
	assert.Equal(t, src, ee.Src)
	assert.Equal(t, dest, ee.Dest)
	assert.Equal(t, []event.Type{event.CopyFileStart}, types)
	assert.Equal(t, int64(1), w.stats.Snapshot().EntriesFailed)
}

func TestCopyEntry_NotDirDestinationFailsBeforeStart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	// A regular file in the parent position makes Lstat(dest) fail with ENOTDIR.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	dest := filepath.Join(blocker, "dest.txt")

	w, bus := newTestWorker(t, false)
	w.srcRoot = dir
	var types []event.Type
	bus.OnAny(func(ev event.Event) { types = append(types, ev.Type) })

	_, err := w.copyEntry(context.Background(), Operation{Src: src, Dest: dest})
	require.ErrorIs(t, err, syscall.ENOTDIR)

	var ee *EntryError
	require.True(t, errors.As(err, &ee))
	assert.False(t, ee.started)
	assert.Empty(t, types)
	assert.Equal(t, int64(1), w.stats.Snapshot().EntriesFailed)
}

func TestCopyEntry_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, _ := newTestWorker(t, false)
	_, err := w.copyEntry(ctx, Operation{Src: "/nonexistent", Dest: "/nonexistent2"})
	assert.ErrorIs(t, err, context.Canceled)
}
