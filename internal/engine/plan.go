package engine

import (
	"fmt"
	"path/filepath"

	"github.com/bamsammich/treecopy/internal/filter"
)

// Plan maps enumerated source paths to destination paths. The root is always
// kept and never renamed. Every other path is tested against rules using its
// slash-separated path relative to srcRoot, then passed through rename.
// Operations keep the enumeration order.
func Plan(srcRoot, destRoot string, paths []string, rules filter.Rules, rename func(string) string) ([]Operation, error) {
	ops := make([]Operation, 0, len(paths))
	owners := make(map[string]string, len(paths))

	for _, p := range paths {
		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", p, err)
		}

		dest := destRoot
		if rel != "." {
			relSlash := filepath.ToSlash(rel)
			if !rules.Accept(relSlash) {
				continue
			}
			if rename != nil {
				relSlash = rename(relSlash)
			}
			dest = filepath.Join(destRoot, filepath.FromSlash(relSlash))
		}

		if prev, ok := owners[dest]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %s", ErrDestinationCollision, prev, p, dest)
		}
		owners[dest] = p

		ops = append(ops, Operation{Src: p, Dest: dest, Index: len(ops)})
	}

	return ops, nil
}
