/*
Package flow provides a small, composable framework for building data
processing pipelines with sequential, branching, looping, batched, and
parallel execution patterns.

# Core Concepts

Node is the fundamental building block that processes input and produces
output:

	type Node[I any, O any] interface {
	    Run(ctx context.Context, input I) (O, error)
	}

Processor is a function type that implements Node, so plain functions can
be used directly as nodes:

	uppercase := Processor[string, string](func(ctx context.Context, input string) (string, error) {
	    return strings.ToUpper(input), nil
	})

# Sequential Composition

Join (and its alias Chain) combine several any-typed nodes into a single
node that runs them one after another, feeding each node's output into the
next node's input:

	pipeline, err := Join(validateNode, normalizeNode, persistNode)
	result, err := pipeline.Run(ctx, input)

# Loop

Loop repeatedly runs a node against the same input until a Terminator
decides to stop, or until MaxIterations is reached, or both:

	loop, err := NewLoop(&LoopConfig[Round, RoundResult]{
	    Node:          roundNode,
	    MaxIterations: 5,
	    Terminator: func(ctx context.Context, iteration int, in Round, out RoundResult) (bool, error) {
	        return out.CumulativeIncluded >= threshold, nil
	    },
	})
	final, err := loop.Run(ctx, firstRound)

# Branch

Branch runs a main node, then routes its output to one of several named
branch nodes based on a resolver function:

	branch, err := NewBranch(&BranchConfig{
	    Node: juniorReviewNode,
	    BranchResolver: func(ctx context.Context, input, output any) (string, error) {
	        if needsEscalation(output) {
	            return "senior", nil
	        }
	        return "accept", nil
	    },
	    Branches: map[string]Node[any, any]{
	        "senior": seniorReviewNode,
	        "accept": passthroughNode,
	    },
	})

# Batch

Batch splits an input into segments, runs a node over each segment
(optionally bounded by ConcurrencyLimit), and aggregates the per-segment
results back into a single output:

	b, err := NewBatch(&BatchConfig[[]Paper, []Verdict, Paper, Verdict]{
	    Segmenter:        func(ctx context.Context, ps []Paper) ([]Paper, error) { return ps, nil },
	    Node:             reviewOne,
	    Aggregator:       collectVerdicts,
	    ConcurrencyLimit: 5,
	})
	verdicts, err := b.Run(ctx, papers)

# Parallel

Parallel runs a fixed set of nodes concurrently against the same input
and aggregates whatever subset of them completes, according to
WaitCount/RequiredSuccesses/ContinueOnError:

	p, err := NewParallel(&ParallelConfig[Paper, Verdict]{
	    Nodes:      []Node[Paper, any]{scholarLookup, openAlexLookup},
	    Aggregator: mergeLookups,
	})

# Async

Async submits a node to a pool and returns a Future immediately instead
of blocking until the node completes:

	a, err := NewAsync(&AsyncConfig[Query, []Paper]{
	    Node: harvestOne,
	    Pool: sdksync.PoolOfNoPool(),
	})
	future, err := a.RunType(ctx, query)
	papers, err := future.GetWithContext(ctx)

# Error Handling

All Run methods are context-aware:

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := pipeline.Run(ctx, input)
	if errors.Is(err, context.DeadlineExceeded) {
	    // handle timeout
	}

# Thread Safety

Nodes are safe for concurrent use once constructed. Processor functions
that close over shared state must synchronize that state themselves.
*/
package flow
