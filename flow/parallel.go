package flow

import (
	"context"
	"errors"
	"fmt"
)

// ParallelConfig contains the configuration for creating a Parallel node.
// Generic parameters I and O define the input and output types for the
// parallel operation.
type ParallelConfig[I any, O any] struct {
	// Nodes are the nodes to execute in parallel, each run on the same input.
	Nodes []Node[I, any]

	// Aggregator combines the results from multiple nodes.
	Aggregator func(context.Context, []any) (O, error)

	// WaitCount is the number of nodes to wait for (default: all).
	WaitCount int

	// RequiredSuccesses is the minimum number of successful results required
	// (default: WaitCount).
	RequiredSuccesses int

	// ContinueOnError determines whether to continue waiting after an error.
	ContinueOnError bool

	// CancelRemaining determines whether to cancel remaining nodes once
	// enough results have been collected.
	CancelRemaining bool
}

// validate ensures that the parallel configuration has the necessary components.
func (cfg *ParallelConfig[I, O]) validate() error {
	if cfg == nil {
		return errors.New("parallel config cannot be nil")
	}
	if len(cfg.Nodes) == 0 {
		return errors.New("parallel must contain at least one node: no processing nodes defined")
	}
	if cfg.Aggregator == nil {
		return errors.New("parallel must have aggregator: function required to combine parallel results")
	}
	return nil
}

// Parallel enables concurrent execution of multiple nodes on the same input.
// It can wait for some or all nodes to complete and aggregate their results.
// Generic parameters I and O define the input and output types for the
// parallel operation.
type Parallel[I any, O any] struct {
	nodes             []Node[I, any]
	waitCount         int
	requiredSuccesses int
	continueOnError   bool
	cancelRemaining   bool
	aggregator        func(context.Context, []any) (O, error)
}

// NewParallel creates a new Parallel instance with the provided configuration.
// Returns an error if the configuration is invalid.
func NewParallel[I any, O any](cfg *ParallelConfig[I, O]) (*Parallel[I, O], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Parallel[I, O]{
		nodes:             cfg.Nodes,
		waitCount:         cfg.WaitCount,
		requiredSuccesses: cfg.RequiredSuccesses,
		continueOnError:   cfg.ContinueOnError,
		cancelRemaining:   cfg.CancelRemaining,
		aggregator:        cfg.Aggregator,
	}, nil
}

// getWaitCount returns the number of nodes to wait for.
// If waitCount is <= 0, it waits for all nodes.
// Otherwise, it waits for min(waitCount, len(nodes)).
func (p *Parallel[I, O]) getWaitCount() int {
	if p.waitCount <= 0 {
		return len(p.nodes)
	}
	return min(p.waitCount, len(p.nodes))
}

// getRequiredSuccesses returns the minimum number of successful results required.
// If requiredSuccesses is <= 0, it requires getWaitCount() successes.
// Otherwise, it requires min(requiredSuccesses, getWaitCount()).
func (p *Parallel[I, O]) getRequiredSuccesses() int {
	if p.requiredSuccesses <= 0 {
		return p.getWaitCount()
	}
	return min(p.requiredSuccesses, p.getWaitCount())
}

// parallelNodeResult holds the result of a single node execution.
type parallelNodeResult struct {
	output any
	error  error
}

// launchNodes starts all nodes in separate goroutines.
// Each node's result is sent to resultChannel when complete.
// Returns channels for receiving results and signaling shutdown.
func (p *Parallel[I, O]) launchNodes(ctx context.Context, input I) (chan *parallelNodeResult, chan struct{}) {
	resultChannel := make(chan *parallelNodeResult, len(p.nodes))
	closeChannel := make(chan struct{}, 1)
	for _, node := range p.nodes {
		go func() {
			output, err := node.Run(ctx, input)
			select {
			case <-ctx.Done():
				return
			case <-closeChannel:
				return
			default:
				resultChannel <- &parallelNodeResult{output, err}
			}
		}()
	}
	return resultChannel, closeChannel
}

// validateResults checks if enough successful results were collected.
// Returns the successful results if enough are available, otherwise returns an error.
func (p *Parallel[I, O]) validateResults(results []any, errs []error) ([]any, error) {
	if len(results) < p.getRequiredSuccesses() {
		errs = append(errs, fmt.Errorf("insufficient successful results: received %d out of %d required (total nodes: %d)",
			len(results), p.getRequiredSuccesses(), len(p.nodes)))
		return nil, errors.Join(errs...)
	}
	return results, nil
}

// collectResults waits for node results up to waitCount.
// If continueOnError is false, it returns immediately on the first error.
// If cancelRemaining is true, it cancels the context after collecting enough results.
// Returns the collected results and any errors encountered.
func (p *Parallel[I, O]) collectResults(ctx context.Context, resultChannel <-chan *parallelNodeResult, cancel context.CancelFunc) ([]any, error) {
	waitCount := p.getWaitCount()
	results := make([]any, 0, waitCount)
	errs := make([]error, 0, waitCount)
	for range waitCount {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		case result := <-resultChannel:
			if result.error == nil {
				results = append(results, result.output)
			} else if p.continueOnError {
				errs = append(errs, result.error)
			} else {
				cancel()
				return nil, result.error
			}
		}
	}
	if p.cancelRemaining {
		cancel()
	}
	return p.validateResults(results, errs)
}

// aggregateResults combines the results from multiple nodes.
// It first checks for context cancellation, then calls the aggregator function.
func (p *Parallel[I, O]) aggregateResults(ctx context.Context, results []any) (res O, err error) {
	select {
	case <-ctx.Done():
		return res, ctx.Err()
	default:
	}
	return p.aggregator(ctx, results)
}

// run executes the parallel operation: launches nodes, collects results, and
// aggregates them.
func (p *Parallel[I, O]) run(ctx context.Context, input I) (o O, err error) {
	cancelCtx, cancel := context.WithCancel(ctx)
	resultChan, shutdownChan := p.launchNodes(cancelCtx, input)
	defer func() { close(shutdownChan); close(resultChan) }()
	outputs, err := p.collectResults(ctx, resultChan, cancel)
	if err != nil {
		return
	}
	return p.aggregateResults(ctx, outputs)
}

// Run implements the Node interface for Parallel.
func (p *Parallel[I, O]) Run(ctx context.Context, input I) (o O, err error) {
	return p.run(ctx, input)
}
