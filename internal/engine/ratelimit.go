package engine

import (
	"context"
	"io"
	"os"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps aggregate throughput to
// bytesPerSec. The burst is 1 MiB so pooled-buffer sized reads pass without
// being split.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := bufferSize
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// RateLimit returns a TransformFunc that throttles every file's content
// through limiter after applying next, which may be nil. The limiter is
// shared, so the cap applies to the whole copy rather than per file.
func RateLimit(ctx context.Context, limiter *rate.Limiter, next TransformFunc) TransformFunc {
	return func(src, dest string, info os.FileInfo) StreamFunc {
		var inner StreamFunc
		if next != nil {
			inner = next(src, dest, info)
		}
		return func(r io.Reader) io.Reader {
			if inner != nil {
				r = inner(r)
			}
			return &rateLimitedReader{ctx: ctx, r: r, limiter: limiter}
		}
	}
}

// rateLimitedReader wraps an io.Reader and enforces a shared rate limit.
type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (rl *rateLimitedReader) Read(p []byte) (int, error) {
	if len(p) > rl.limiter.Burst() {
		p = p[:rl.limiter.Burst()]
	}
	n, err := rl.r.Read(p)
	if n > 0 {
		if waitErr := rl.limiter.WaitN(rl.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// Close closes the wrapped reader when it is closable.
func (rl *rateLimitedReader) Close() error {
	if c, ok := rl.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
