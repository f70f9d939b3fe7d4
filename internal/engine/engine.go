package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// Copier is a single copy invocation. Listeners registered with On and
// OnAny before Run receive every lifecycle event. Exactly one terminal event
// (event.Complete or event.Error) is emitted, after which the Copier emits
// nothing.
type Copier struct {
	err     error
	bus     event.Bus
	src     string
	dest    string
	opts    Options
	mu      sync.Mutex
	started atomic.Bool
}

// New creates a Copier for src to dest. Nothing happens until Run or Start.
func New(src, dest string, opts Options) *Copier {
	return &Copier{src: src, dest: dest, opts: opts}
}

// Copy runs a copy of src to dest and blocks until it finishes. It returns
// the records of every copied entry in enumeration order, or nil when
// opts.NoResults is set.
func Copy(ctx context.Context, src, dest string, opts Options) ([]Record, error) {
	return New(src, dest, opts).Run(ctx)
}

// On registers fn for events of type t.
func (c *Copier) On(t event.Type, fn event.Listener) *Copier {
	c.bus.On(t, fn)
	return c
}

// OnAny registers fn for every event.
func (c *Copier) OnAny(fn event.Listener) *Copier {
	c.bus.OnAny(fn)
	return c
}

// Start runs the copy in a new goroutine and passes the outcome to done,
// which may be nil.
func (c *Copier) Start(ctx context.Context, done func([]Record, error)) {
	go func() {
		records, err := c.Run(ctx)
		if done != nil {
			done(records, err)
		}
	}()
}

// Run performs the copy and blocks until every in-flight entry has settled.
func (c *Copier) Run(ctx context.Context) ([]Record, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}

	opts := c.opts.withDefaults()
	if opts.Stats == nil {
		opts.Stats = stats.NewCollector()
	}
	log := opts.Logger

	src, err := filepath.Abs(c.src)
	if err != nil {
		return nil, c.fail(fmt.Errorf("resolve source: %w", err))
	}
	dest, err := filepath.Abs(c.dest)
	if err != nil {
		return nil, c.fail(fmt.Errorf("resolve destination: %w", err))
	}
	c.src, c.dest = src, dest

	if opts.Debug {
		c.bus.OnAny(debugListener(log))
	}

	paths, err := Enumerate(ctx, opts.FS, src, opts.Expand)
	if err != nil {
		return nil, c.fail(err)
	}
	ops, err := Plan(src, dest, paths, opts.rules(), opts.Rename)
	if err != nil {
		return nil, c.fail(err)
	}
	log.Debug("copy planned", "src", src, "dest", dest, "entries", len(paths), "selected", len(ops))
	opts.Stats.SetEntriesTotal(int64(len(ops)))

	w := &worker{
		fs:        opts.FS,
		bus:       &c.bus,
		stats:     opts.Stats,
		transform: opts.Transform,
		srcRoot:   src,
		overwrite: opts.Overwrite,
		expand:    opts.Expand,
	}
	records, err := Schedule(ctx, BuildTree(ops), opts.Concurrency, !opts.NoResults,
		func(ctx context.Context, op Operation) (Record, error) {
			rec, err := w.copyEntry(ctx, op)
			if err != nil {
				// Seal now so no sibling event follows the failure.
				_ = c.fail(err)
			}
			return rec, err
		})
	if err != nil {
		return nil, c.fail(err)
	}

	if !c.bus.Seal(event.Event{Type: event.Complete, Results: records}) {
		return nil, c.failure()
	}
	log.Debug("copy complete", "src", src, "dest", dest, "stats", opts.Stats.Snapshot().String())
	return records, nil
}

// fail records err as the outcome unless another failure already won, emits
// the failure events, and returns the winning error.
func (c *Copier) fail(err error) error {
	var ee *EntryError
	if !errors.As(err, &ee) {
		ee = &EntryError{Src: c.src, Dest: c.dest, Err: err}
	}

	final := make([]event.Event, 0, 2)
	if ee.started {
		final = append(final, event.Event{Type: event.KindOf(ee.Stats).Failed(), Err: ee.Err, Record: ee.record()})
	}
	final = append(final, event.Event{Type: event.Error, Err: ee.Err, Record: ee.record()})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus.Seal(final...) {
		c.err = ee.Err
	}
	if c.err == nil {
		return ee.Err
	}
	return c.err
}

func (c *Copier) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func debugListener(log *slog.Logger) event.Listener {
	return func(ev event.Event) {
		attrs := []any{"event", ev.Type.String(), "src", ev.Record.Src, "dest", ev.Record.Dest}
		if ev.Err != nil {
			attrs = append(attrs, "error", ev.Err)
		}
		if ev.Type == event.Complete {
			attrs = append(attrs, "results", len(ev.Results))
		}
		log.Info("copy event", attrs...)
	}
}
