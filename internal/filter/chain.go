package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule represents a single include or exclude filter rule.
type Rule struct {
	Pattern string // doublestar pattern, already expanded
	Include bool   // true=include, false=exclude
}

// Chain holds an ordered list of rsync-style include/exclude rules. It
// implements Matcher with first-match-wins semantics; a path no rule matches
// is included.
type Chain struct {
	rules []Rule
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude adds an exclude rule for the given pattern.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude adds an include rule for the given pattern.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	expanded := expandRsync(pattern)
	if !doublestar.ValidatePattern(expanded) {
		return &patternError{pattern: pattern}
	}
	c.rules = append(c.rules, Rule{Pattern: expanded, Include: include})
	return nil
}

// Empty reports whether the chain has no rules.
func (c *Chain) Empty() bool {
	return len(c.rules) == 0
}

// Match returns true if the path should be INCLUDED (not filtered out).
func (c *Chain) Match(relPath string) bool {
	for _, rule := range c.rules {
		if doublestar.MatchUnvalidated(rule.Pattern, relPath) {
			return rule.Include
		}
	}
	return true
}

// expandRsync converts an rsync-style pattern into a doublestar pattern.
// A leading "/" anchors to the root, a pattern containing "/" is anchored,
// anything else matches at any depth. Every pattern also covers the
// subtree below a matching directory.
func expandRsync(pattern string) string {
	pattern = strings.TrimSuffix(pattern, "/")
	if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
		pattern = anchored
	} else if !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}
	return "{" + pattern + "," + pattern + "/**}"
}

type patternError struct {
	pattern string
}

func (e *patternError) Error() string {
	return "invalid filter pattern " + `"` + e.pattern + `"`
}

func (*patternError) Unwrap() error {
	return doublestar.ErrBadPattern
}
