package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/filter"
	"github.com/bamsammich/treecopy/internal/fsys"
	"github.com/bamsammich/treecopy/internal/stats"
)

// DefaultConcurrency is the number of entries copied at once when
// Options.Concurrency is zero.
const DefaultConcurrency = 255

// ErrDestinationCollision is returned when two source entries would be copied
// to the same destination path.
var ErrDestinationCollision = errors.New("destination collision")

// ErrAlreadyStarted is returned when a Copier is run more than once.
var ErrAlreadyStarted = errors.New("copy already started")

// Record describes one copied entry.
type Record = event.Record

// Operation is one planned copy of a source entry to a destination path.
type Operation struct {
	Src   string
	Dest  string
	Index int // position in enumeration order
}

// StreamFunc wraps the reader of one source file. Errors returned by the
// wrapped reader abort the copy unchanged.
type StreamFunc func(r io.Reader) io.Reader

// TransformFunc is called once per regular file. It returns nil to copy the
// file verbatim.
type TransformFunc func(src, dest string, info os.FileInfo) StreamFunc

// Options controls one copy invocation.
type Options struct {
	// Filter is applied to slash-separated paths relative to the source root.
	Filter filter.Matcher

	// Rename maps an accepted relative path to its destination relative path.
	Rename func(relPath string) string

	Transform TransformFunc

	// FS defaults to the local filesystem.
	FS     fsys.FS
	Logger *slog.Logger
	Stats  *stats.Collector

	// Concurrency caps in-flight entry copies. Zero means DefaultConcurrency.
	Concurrency int

	Overwrite bool // replace conflicting destination entries
	Expand    bool // follow symlinks instead of recreating them
	Dot       bool // copy entries whose name begins with "."
	Junk      bool // copy OS junk files
	NoResults bool // do not accumulate the result list
	Debug     bool // log every lifecycle event
}

func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = fsys.Local{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

func (o Options) rules() filter.Rules {
	return filter.Rules{Dot: o.Dot, Junk: o.Junk, Filter: o.Filter}
}

// EntryError carries the entry a failure belongs to. The copy functions
// return the wrapped error, never the EntryError itself.
type EntryError struct {
	Err   error
	Stats os.FileInfo // nil if the source could not be stat'ed
	Src   string
	Dest  string

	started bool // the entry's start event was emitted
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("copy %s -> %s: %v", e.Src, e.Dest, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

func (e *EntryError) record() Record {
	return Record{Src: e.Src, Dest: e.Dest, Stats: e.Stats}
}
