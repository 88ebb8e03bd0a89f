// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// hydrateFunc fetches and normalizes the record for one id.
type hydrateFunc[T any] func(ctx context.Context, id string) (T, error)

// partition splits ids into consecutive groups of at most size.
func partition(ids []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var groups [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		groups = append(groups, ids[start:end])
	}
	return groups
}

// hydrate fetches ids for providers without a batch endpoint. Groups run one
// after another; the ids inside a group are fetched concurrently. A failed
// id is logged and dropped without affecting its siblings. Only
// cancellation of ctx aborts the run. Results keep the order of ids.
func hydrate[T any](ctx context.Context, ids []string, groupSize int, fetch hydrateFunc[T], logger *slog.Logger) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, group := range partition(ids, groupSize) {
		slots := make([]*T, len(group))

		g, gctx := errgroup.WithContext(ctx)
		for i, id := range group {
			g.Go(func() error {
				rec, err := fetch(gctx, id)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Debug("dropping record that failed to hydrate", "id", id, "error", err)
					return nil
				}
				slots[i] = &rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, s := range slots {
			if s != nil {
				out = append(out, *s)
			}
		}
	}
	return out, nil
}
