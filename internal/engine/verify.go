package engine

import (
	"context"
	"sync"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/fsys"
	"github.com/bamsammich/treecopy/internal/stats"
)

// VerifyConfig controls the post-copy verification pass.
type VerifyConfig struct {
	FS      fsys.FS
	Stats   *stats.Collector
	Records []Record
	Workers int
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Errors   []VerifyError
	Verified int64
	Failed   int64
}

// VerifyError records a single checksum mismatch or unreadable file.
type VerifyError struct {
	Src     string
	Dest    string
	SrcHash string
	DstHash string
}

// Verify compares BLAKE3 checksums of source and destination for every
// regular file in cfg.Records, fanning out to cfg.Workers goroutines.
func Verify(ctx context.Context, cfg VerifyConfig) VerifyResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	filesystem := cfg.FS
	if filesystem == nil {
		filesystem = fsys.Local{}
	}

	taskCh := make(chan Record, workers*2)
	var mu sync.Mutex
	var result VerifyResult
	var wg sync.WaitGroup

	record := func(ok bool, verr VerifyError) {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			result.Verified++
			if cfg.Stats != nil {
				cfg.Stats.AddFilesVerified(1)
			}
			return
		}
		result.Failed++
		result.Errors = append(result.Errors, verr)
		if cfg.Stats != nil {
			cfg.Stats.AddFilesVerifyFailed(1)
		}
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range taskCh {
				if ctx.Err() != nil {
					continue
				}

				verr := VerifyError{Src: rec.Src, Dest: rec.Dest, SrcHash: "n/a", DstHash: "n/a"}
				srcHash, err := fsys.HashFile(filesystem, rec.Src)
				if err != nil {
					verr.SrcHash = "error"
					record(false, verr)
					continue
				}
				verr.SrcHash = srcHash

				dstHash, err := fsys.HashFile(filesystem, rec.Dest)
				if err != nil {
					verr.DstHash = "error"
					record(false, verr)
					continue
				}
				verr.DstHash = dstHash

				record(srcHash == dstHash, verr)
			}
		}()
	}

	for _, rec := range cfg.Records {
		if rec.Stats == nil || event.KindOf(rec.Stats) != event.File {
			continue
		}
		select {
		case taskCh <- rec:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(taskCh)
	wg.Wait()

	return result
}
