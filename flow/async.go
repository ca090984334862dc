package flow

import (
	"context"
	"errors"

	sdksync "github.com/Sologa/AUTOSR-SDSE-sub001/pkg/sync"
)

// AsyncConfig contains the configuration for creating an Async node.
// Generic parameters I and O define the input and output types of the
// wrapped node.
type AsyncConfig[I any, O any] struct {
	// Node is the processing unit to run on a background goroutine.
	Node Processor[I, O]

	// Pool submits the node's execution. If nil, NewAsync/validate default
	// it to a pool that launches one goroutine per submission.
	Pool sdksync.Pool
}

// validate checks if the AsyncConfig is valid and ready to use, defaulting
// Pool when the caller left it unset.
func (cfg *AsyncConfig[I, O]) validate() error {
	if cfg == nil {
		return errors.New("async config cannot be nil")
	}
	if cfg.Node == nil {
		return errors.New("async node cannot be nil")
	}
	if cfg.Pool == nil {
		cfg.Pool = sdksync.PoolOfNoPool()
	}
	return nil
}

// Async wraps a node so each run is submitted to a pool and returns
// immediately with a Future rather than blocking until completion.
type Async[I any, O any] struct {
	node Processor[I, O]
	pool sdksync.Pool
}

// NewAsync creates a new Async instance with the provided configuration.
// Returns an error if the configuration is invalid.
func NewAsync[I any, O any](cfg *AsyncConfig[I, O]) (*Async[I, O], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Async[I, O]{
		node: cfg.Node,
		pool: cfg.Pool,
	}, nil
}

// RunType submits the node for background execution against input and
// returns a type-safe Future for its eventual result.
func (a *Async[I, O]) RunType(ctx context.Context, input I) (sdksync.Future[O], error) {
	task := sdksync.NewFutureTask(func(interrupt <-chan struct{}) (O, error) {
		return a.node(ctx, input)
	})
	if err := a.pool.Submit(task.Run); err != nil {
		return nil, err
	}
	return task, nil
}

// Run implements the Node interface for Async, returning the Future as any
// so Async[I,O] composes with nodes expecting Node[I, any].
func (a *Async[I, O]) Run(ctx context.Context, input I) (any, error) {
	future, err := a.RunType(ctx, input)
	if err != nil {
		return nil, err
	}
	return future, nil
}
