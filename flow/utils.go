package flow

import (
	"context"
	"errors"
)

// sequence runs a fixed list of any-typed nodes one after another, feeding
// each node's output as the next node's input.
type sequence struct {
	nodes []Node[any, any]
}

func (s *sequence) Run(ctx context.Context, input any) (any, error) {
	result := input
	for _, node := range s.nodes {
		var err error
		result, err = node.Run(ctx, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Join combines multiple nodes into a single node that runs them in sequence.
// Returns an error if no nodes are provided.
func Join(nodes ...Node[any, any]) (Node[any, any], error) {
	if len(nodes) == 0 {
		return nil, errors.New("no nodes provided")
	}
	return &sequence{nodes: nodes}, nil
}

// Chain is an alias for Join kept for call sites that read better as a chain
// of processing steps rather than a join of branches.
func Chain(nodes ...Node[any, any]) (Node[any, any], error) {
	return Join(nodes...)
}
