// Package concurrency adapts pkg/sync.Pool's three worker-pool backends
// (ants, conc, workerpool) plus bounded fan-out helpers for running a
// function over a slice of items with at most N concurrent in flight —
// the shape every LLM-heavy stage (Filter-Seed, Review) needs for its
// bounded-concurrency per-paper calls.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"

	sdksync "github.com/Sologa/AUTOSR-SDSE-sub001/pkg/sync"
)

// Pool re-exports the teacher's Pool interface so callers only need to
// import this package, not pkg/sync, when they just want to submit work.
type Pool = sdksync.Pool

// NewAntsPool, NewWorkerPool, NewConcPool delegate straight to
// pkg/sync's constructors; kept here so stage code depends on one
// package for both fan-out helpers and pool construction.
var (
	NewAntsPool   = sdksync.PoolOfAnts
	NewWorkerPool = sdksync.PoolOfWorkerpool
	NewConcPool   = sdksync.PoolOfConc
	NewNoPool     = sdksync.PoolOfNoPool
)

// MapBounded runs fn over every item in items with at most maxConcurrent
// calls in flight, preserving input order in the returned slice
// (§5 Ordering guarantees). It stops launching new work and returns the
// first error once any call fails.
func MapBounded[T, R any](ctx context.Context, items []T, maxConcurrent int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ForEachBounded is MapBounded without a return value, for side-effect-only
// fan-out (e.g. PDF downloads).
func ForEachBounded[T any](ctx context.Context, items []T, maxConcurrent int, fn func(context.Context, T) error) error {
	_, err := MapBounded(ctx, items, maxConcurrent, func(c context.Context, t T) (struct{}, error) {
		return struct{}{}, fn(c, t)
	})
	return err
}
