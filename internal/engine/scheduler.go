package engine

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// WorkFunc copies a single entry.
type WorkFunc func(ctx context.Context, op Operation) (Record, error)

type workResult struct {
	node *Node
	rec  Record
	err  error
}

// Schedule runs work over every operation in the tree with at most limit
// calls in flight. An operation is released only after the operation above it
// has finished; placeholder nodes release their children at once. Released
// operations start in FIFO order.
//
// The first failure stops further dispatch. Schedule then waits for
// in-flight work and returns that failure. With collect set, the records of
// successful operations are returned in Index order.
func Schedule(ctx context.Context, root *Node, limit int, collect bool, work WorkFunc) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan workResult, limit)
	queue := slices.Clone(root.Children)

	type indexed struct {
		rec   Record
		index int
	}
	var results []indexed

	inFlight := 0
	stopped := false
	for {
		for !stopped && inFlight < limit && len(queue) > 0 {
			if gctx.Err() != nil {
				stopped = true
				break
			}

			n := queue[0]
			queue = queue[1:]
			if n.Op == nil {
				queue = append(queue, n.Children...)
				continue
			}

			inFlight++
			g.Go(func() error {
				rec, err := work(gctx, *n.Op)
				done <- workResult{node: n, rec: rec, err: err}
				return err
			})
		}

		if inFlight == 0 {
			break
		}

		r := <-done
		inFlight--
		if r.err != nil {
			stopped = true
			continue
		}
		if collect {
			results = append(results, indexed{rec: r.rec, index: r.node.Op.Index})
		}
		queue = append(queue, r.node.Children...)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !collect {
		return nil, nil
	}

	slices.SortFunc(results, func(a, b indexed) int { return a.index - b.index })
	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = r.rec
	}
	return records, nil
}
