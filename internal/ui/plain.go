package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

const progressEvery = 5 // ticks between progress lines

// plainPresenter outputs one line per completed entry to w, failures to
// errW, and periodic progress to errW.
type plainPresenter struct {
	w        io.Writer
	errW     io.Writer
	stats    *stats.Collector
	theme    Theme
	destRoot string
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			ticks++
			if ticks%progressEvery == 0 {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	path := StripRoot(p.destRoot, ev.Record.Dest)
	switch ev.Type {
	case event.CopyFileComplete:
		size := int64(0)
		if ev.Record.Stats != nil {
			size = ev.Record.Stats.Size()
		}
		fmt.Fprintf(p.w, "%s  %s  %s\n", p.theme.File.Sprint("file"), path, FormatBytes(size))
	case event.CreateDirectoryComplete:
		fmt.Fprintf(p.w, "%s  %s\n", p.theme.Directory.Sprint("dir "), path)
	case event.CreateSymlinkComplete:
		fmt.Fprintf(p.w, "%s  %s\n", p.theme.Symlink.Sprint("link"), path)
	case event.CopyFileError, event.CreateDirectoryError, event.CreateSymlinkError:
		fmt.Fprintf(p.errW, "%s  %s  %v\n", p.theme.Error.Sprint("fail"), path, ev.Err)
	case event.Error:
		fmt.Fprintf(p.errW, "%s %v\n", p.theme.Error.Sprint("error:"), ev.Err)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	fmt.Fprintf(p.errW, "progress: %s/%s entries %s %s\n",
		FormatCount(snap.Done()), FormatCount(snap.EntriesTotal),
		FormatBytes(snap.BytesCopied),
		FormatRate(p.stats.RollingSpeed(progressEvery)),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
