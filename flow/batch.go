package flow

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// BatchConfig contains the configuration for creating a Batch node.
// Generic parameters:
// - I: Input type for the batch
// - O: Output type after aggregation
// - T: Type of each segment after dividing the input
// - R: Output type after processing each segment
type BatchConfig[I any, O any, T any, R any] struct {
	// Node processes each individual segment
	Node Processor[T, R]

	// Segmenter divides the input into multiple segments for processing
	Segmenter func(context.Context, I) ([]T, error)

	// Aggregator combines the results from processing multiple segments
	Aggregator func(context.Context, []R) (O, error)

	// ConcurrencyLimit controls the maximum number of segments processed concurrently.
	// A value <= 1 means sequential processing.
	ConcurrencyLimit int

	// ContinueOnError determines whether to continue processing segments after an error.
	ContinueOnError bool
}

// validate checks if the BatchConfig is valid and ready to use.
func (cfg *BatchConfig[I, O, T, R]) validate() error {
	if cfg == nil {
		return errors.New("batch config cannot be nil")
	}
	if cfg.Node == nil {
		return errors.New("batch node cannot be nil")
	}
	if cfg.Segmenter == nil {
		return errors.New("segmenter is required: batch processing needs a function to divide input into segments")
	}
	if cfg.Aggregator == nil {
		return errors.New("aggregator is required: batch processing needs a function to combine segment results")
	}
	return nil
}

// Batch enables processing of multiple items and aggregating the results.
type Batch[I any, O any, T any, R any] struct {
	node             Processor[T, R]
	concurrencyLimit int
	continueOnError  bool
	segmenter        func(context.Context, I) ([]T, error)
	aggregator       func(context.Context, []R) (O, error)
}

// NewBatch creates a new Batch instance with the provided configuration.
// Returns an error if the configuration is invalid.
func NewBatch[I any, O any, T any, R any](cfg *BatchConfig[I, O, T, R]) (*Batch[I, O, T, R], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Batch[I, O, T, R]{
		node:             cfg.Node,
		concurrencyLimit: cfg.ConcurrencyLimit,
		continueOnError:  cfg.ContinueOnError,
		segmenter:        cfg.Segmenter,
		aggregator:       cfg.Aggregator,
	}, nil
}

// getConcurrencyLimit returns the concurrency limit, defaulting to 1 if not set.
func (b *Batch[I, O, T, R]) getConcurrencyLimit() int {
	if b.concurrencyLimit <= 0 {
		return 1
	}
	return b.concurrencyLimit
}

// runSequential processes segments one at a time, in order.
// If continueOnError is false, it stops on the first error.
func (b *Batch[I, O, T, R]) runSequential(ctx context.Context, segments []T) ([]R, error) {
	var results []R
	for _, segment := range segments {
		res, err := b.node(ctx, segment)
		if err == nil {
			results = append(results, res)
		} else if !b.continueOnError {
			return nil, err
		}
	}
	return results, nil
}

// runConcurrent processes segments with a bounded concurrency limit, preserving
// the original segment order in the results regardless of completion order.
func (b *Batch[I, O, T, R]) runConcurrent(ctx context.Context, segments []T) ([]R, error) {
	var (
		order           = make([]*R, len(segments))
		group, groupCtx = errgroup.WithContext(ctx)
	)
	group.SetLimit(b.getConcurrencyLimit())
	for i, segment := range segments {
		group.Go(func() error {
			res, err := b.node(groupCtx, segment)
			if err == nil {
				order[i] = &res
			}
			if !b.continueOnError {
				return err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	results := make([]R, 0, len(segments))
	for _, r := range order {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}

// Run implements the Node interface for Batch. It segments the input,
// processes each segment (sequentially or concurrently), and aggregates
// the results.
func (b *Batch[I, O, T, R]) Run(ctx context.Context, input I) (output O, err error) {
	segments, err := b.segmenter(ctx, input)
	if err != nil {
		return output, err
	}

	var results []R
	if b.getConcurrencyLimit() == 1 {
		results, err = b.runSequential(ctx, segments)
	} else {
		results, err = b.runConcurrent(ctx, segments)
	}
	if err != nil {
		return output, err
	}
	return b.aggregator(ctx, results)
}
