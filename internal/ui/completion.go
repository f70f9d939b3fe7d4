package ui

import (
	"fmt"

	"github.com/bamsammich/treecopy/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 48,917  dirs 212  links 3  size 2.1 GiB  avg 641 MB/s  time 3m 17s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	failures := snap.EntriesFailed + snap.FilesVerifyFailed
	icon := "✓"
	if failures > 0 {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  files %s  dirs %s  links %s  size %s  avg %s  time %s",
		icon,
		FormatCount(snap.FilesCopied),
		FormatCount(snap.DirsCreated),
		FormatCount(snap.SymlinksCreated),
		FormatBytes(snap.BytesCopied),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)

	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		base += fmt.Sprintf("  verified %s", FormatCount(snap.FilesVerified))
	}

	return base + fmt.Sprintf("  errors %d", failures)
}
