package ui

import (
	"io"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// Presenter consumes copy events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Theme     Theme
	DestRoot  string
	Width     int // terminal columns, used by the live status line
	IsTTY     bool
	Quiet     bool
	Verbose   bool
}

// NewPresenter creates the appropriate presenter based on configuration.
// Verbose output always uses one line per entry; otherwise a terminal gets a
// live status line.
//
//nolint:ireturn // selects one of several presenters
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return quietPresenter{}
	}
	if cfg.Theme.File == nil {
		cfg.Theme = DefaultTheme()
	}
	if !cfg.IsTTY {
		cfg.Theme = cfg.Theme.Plain()
	}
	if cfg.IsTTY && !cfg.Verbose {
		return &livePresenter{
			w:        cfg.ErrWriter,
			stats:    cfg.Stats,
			theme:    cfg.Theme,
			destRoot: cfg.DestRoot,
			width:    cfg.Width,
		}
	}
	return &plainPresenter{
		w:        cfg.Writer,
		errW:     cfg.ErrWriter,
		stats:    cfg.Stats,
		theme:    cfg.Theme,
		destRoot: cfg.DestRoot,
	}
}
