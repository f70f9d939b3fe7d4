package main

import (
	"io"
	"os"

	"github.com/bamsammich/treecopy/internal/engine"
)

func upperTransform(_, _ string, _ os.FileInfo) engine.StreamFunc {
	return func(r io.Reader) io.Reader { return &upperReader{r: r} }
}

// upperReader upper-cases ASCII letters as they stream through. Other bytes,
// including multi-byte UTF-8 sequences, pass unchanged.
type upperReader struct {
	r io.Reader
}

func (u *upperReader) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	for i, b := range p[:n] {
		if 'a' <= b && b <= 'z' {
			p[i] = b - ('a' - 'A')
		}
	}
	return n, err
}
