package main

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpperReader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"hello", "HELLO"},
		{"MiXeD 123 case!", "MIXED 123 CASE!"},
		{"naïve café", "NAïVE CAFé"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			// One byte at a time so multi-byte runes are split across reads.
			r := upperTransform("", "", nil)(iotest.OneByteReader(strings.NewReader(tt.in)))
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestUpperReaderPassesErrors(t *testing.T) {
	r := upperTransform("", "", nil)(iotest.ErrReader(iotest.ErrTimeout))
	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
}
