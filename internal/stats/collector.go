package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector tracks copy statistics using lock-free atomic counters.
type Collector struct {
	startTime         time.Time
	entriesTotal      atomic.Int64
	filesCopied       atomic.Int64
	dirsCreated       atomic.Int64
	symlinksCreated   atomic.Int64
	entriesFailed     atomic.Int64
	bytesCopied       atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64

	// Ring buffer, written only by Tick.
	mu         sync.Mutex
	throughput [ringSize]int64 // bytes delta per tick
	ringIdx    int
	ringCount  int
	lastBytes  int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	EntriesTotal      int64
	FilesCopied       int64
	DirsCreated       int64
	SymlinksCreated   int64
	EntriesFailed     int64
	BytesCopied       int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

// Done returns the number of entries that completed successfully.
func (s Snapshot) Done() int64 {
	return s.FilesCopied + s.DirsCreated + s.SymlinksCreated
}

func (c *Collector) SetEntriesTotal(n int64)      { c.entriesTotal.Store(n) }
func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddSymlinksCreated(n int64)   { c.symlinksCreated.Add(n) }
func (c *Collector) AddEntriesFailed(n int64)     { c.entriesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		EntriesTotal:      c.entriesTotal.Load(),
		FilesCopied:       c.filesCopied.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		SymlinksCreated:   c.symlinksCreated.Load(),
		EntriesFailed:     c.entriesFailed.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick snapshots the byte delta into the ring buffer. Called once per
// second by the presenter.
func (c *Collector) Tick() {
	current := c.bytesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = current - c.lastBytes
	c.lastBytes = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n ticks.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(seconds, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.throughput[idx]
	}
	return float64(sum) / float64(count)
}

// SpeedHistory returns up to n per-tick byte deltas, oldest first.
func (c *Collector) SpeedHistory(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	out := make([]float64, count)
	for i := range count {
		idx := (c.ringIdx - count + i + ringSize) % ringSize
		out[i] = float64(c.throughput[idx])
	}
	return out
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"total=%d files=%d dirs=%d symlinks=%d failed=%d bytes=%d",
		s.EntriesTotal, s.FilesCopied, s.DirsCreated, s.SymlinksCreated,
		s.EntriesFailed, s.BytesCopied,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
