package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// ANSI control sequences for redrawing the status line.
const (
	ansiClearLine = "\r\033[K"
	refreshEvery  = 200 * time.Millisecond
)

// livePresenter redraws a single status line on a terminal. Failures are
// printed above it.
type livePresenter struct {
	w        io.Writer
	stats    *stats.Collector
	theme    Theme
	destRoot string
	width    int
}

func (p *livePresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(refreshEvery)
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				fmt.Fprint(p.w, ansiClearLine)
				return nil
			}
			p.handleEvent(ev)
		case now := <-ticker.C:
			if now.Sub(lastTick) >= time.Second {
				p.stats.Tick()
				lastTick = now
			}
			p.render()
		}
	}
}

func (p *livePresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.CopyFileError, event.CreateDirectoryError, event.CreateSymlinkError:
		fmt.Fprintf(p.w, "%s%s  %s  %v\n", ansiClearLine,
			p.theme.Error.Sprint("fail"), StripRoot(p.destRoot, ev.Record.Dest), ev.Err)
	case event.Error:
		fmt.Fprintf(p.w, "%s%s %v\n", ansiClearLine, p.theme.Error.Sprint("error:"), ev.Err)
	}
}

func (p *livePresenter) render() {
	fmt.Fprint(p.w, ansiClearLine+p.statusLine())
}

// statusLine renders "12/40 ▪▪▪□□□□□□□ 3.1 MiB 1.20 MB/s ▁▃█ 4s", dropping
// the bar and sparkline when the terminal is narrow.
func (p *livePresenter) statusLine() string {
	snap := p.stats.Snapshot()

	pct := 0.0
	if snap.EntriesTotal > 0 {
		pct = float64(snap.Done()) / float64(snap.EntriesTotal)
	}
	counts := fmt.Sprintf("%s/%s", FormatCount(snap.Done()), FormatCount(snap.EntriesTotal))
	tail := fmt.Sprintf("%s %s", FormatBytes(snap.BytesCopied), FormatRate(p.stats.RollingSpeed(5)))
	elapsed := FormatDuration(snap.Elapsed)

	line := fmt.Sprintf("%s %s %s %s %s",
		counts, ProgressBar(pct, 20), tail, Sparkline(p.stats.SpeedHistory(10), 10), elapsed)
	if p.width > 0 && len([]rune(line)) >= p.width {
		line = fmt.Sprintf("%s %s %s", counts, tail, elapsed)
	}
	if p.width > 0 && len([]rune(line)) >= p.width {
		line = string([]rune(line)[:p.width-1])
	}
	return line
}

func (p *livePresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
