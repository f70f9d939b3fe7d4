// Package filter decides which entries of a source tree are copied.
//
// A Matcher is one of three shapes: a predicate (Func), an ordered glob list
// with negation (Glob) or a conjunction of matchers (All). Combine normalises
// a mixed list into a single Matcher. Rules layers the dotfile and junk-file
// checks on top of an optional user Matcher.
package filter

import (
	"path"
	"strings"
)

// Matcher reports whether a slash-separated relative path is accepted.
type Matcher interface {
	Match(relPath string) bool
}

// Func adapts a predicate to a Matcher.
type Func func(relPath string) bool

// Match calls f.
func (f Func) Match(relPath string) bool { return f(relPath) }

// All accepts a path only if every matcher accepts it.
type All []Matcher

// Match reports whether every matcher in a accepts relPath.
func (a All) Match(relPath string) bool {
	for _, m := range a {
		if !m.Match(relPath) {
			return false
		}
	}
	return true
}

// Combine merges ms into one Matcher. Adjacent Glob values are joined into a
// single Glob so that negated patterns apply across them; everything else is
// ANDed. Nil entries are skipped. Combine returns nil for an empty list.
//
//nolint:ireturn // returns the narrowest matcher shape
func Combine(ms ...Matcher) Matcher {
	var out All
	for _, m := range ms {
		if m == nil {
			continue
		}
		g, isGlob := m.(Glob)
		if isGlob && len(out) > 0 {
			if prev, ok := out[len(out)-1].(Glob); ok {
				joined := make(Glob, 0, len(prev)+len(g))
				joined = append(joined, prev...)
				out[len(out)-1] = append(joined, g...)
				continue
			}
		}
		out = append(out, m)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

// Rules is the full acceptance test applied to every relative path.
type Rules struct {
	Filter Matcher
	Dot    bool // accept names beginning with "."
	Junk   bool // accept OS junk files
}

// Accept reports whether relPath should be copied. relPath is slash-separated
// and relative to the copy root.
func (r Rules) Accept(relPath string) bool {
	name := path.Base(relPath)
	if !r.Dot && strings.HasPrefix(name, ".") {
		return false
	}
	if !r.Junk && IsJunk(name) {
		return false
	}
	if r.Filter != nil && !r.Filter.Match(relPath) {
		return false
	}
	return true
}
