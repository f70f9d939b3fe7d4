package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads filter rules from a file and adds them to the chain.
// Format:
//
//	# comment   skipped
//	+ pattern   include
//	- pattern   exclude
//	!           clear the rules added so far
//	pattern     exclude (rsync default)
//
// Blank lines are skipped.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "!" {
			c.rules = nil
			continue
		}

		include := false
		pattern := line

		if rest, ok := strings.CutPrefix(line, "+ "); ok {
			include = true
			pattern = strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(line, "- "); ok {
			pattern = strings.TrimSpace(rest)
		}

		if err := c.add(pattern, include); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}

	return scanner.Err()
}
