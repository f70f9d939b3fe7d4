package filter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob is an ordered list of doublestar patterns evaluated as one combined
// match. A pattern prefixed with "!" removes paths matched so far; a plain
// pattern adds them back. If the first pattern is negated, evaluation starts
// from "everything matched".
type Glob []string

// NewGlob validates patterns and returns them as a Glob.
func NewGlob(patterns ...string) (Glob, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(strings.TrimPrefix(p, "!")) {
			return nil, fmt.Errorf("invalid glob %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return Glob(patterns), nil
}

// Match reports whether relPath survives the pattern list.
func (g Glob) Match(relPath string) bool {
	if len(g) == 0 {
		return false
	}
	matched := strings.HasPrefix(g[0], "!")
	for _, p := range g {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			if matched && doublestar.MatchUnvalidated(neg, relPath) {
				matched = false
			}
			continue
		}
		if !matched && doublestar.MatchUnvalidated(p, relPath) {
			matched = true
		}
	}
	return matched
}
