// Package flow provides a robust, composable pipeline framework for creating data processing workflows.
package flow

import (
	"context"
	"errors"
)

// Processor represents a function that transforms input data into output data.
//
// The Processor type encapsulates the core processing logic that each node in a flow
// pipeline executes. It takes an input value of type I and a context for cancellation
// support, and returns an output value of type O or an error.
//
// Processor is the fundamental building block for data transformation in the flow
// framework. By defining processing logic as a first-class type, the framework
// enables flexible composition and reuse of processing functions.
//
// Example:
//
//	// Define a processor that converts strings to uppercase
//	uppercase := Processor[string, string](func(ctx context.Context,input string) (string, error) {
//		return strings.ToUpper(input), nil
//	})
type Processor[I any, O any] func(context.Context, I) (O, error)

// AsProcessor converts a regular function to a Processor type.
//
// This utility function allows regular functions that match the Processor signature
// to be explicitly converted to the Processor type. This is useful when passing
// functions to methods that expect a Processor parameter.
//
// The conversion is type-safe and preserves the input and output types of the
// original function.
//
// Example:
//
//	// Convert a regular function to a Processor
//	validateData := flow.AsProcessor(func(ctx context.Context, data Record) (ValidatedRecord, error) {
//		// Validation logic
//		return validated, nil
//	})
func AsProcessor[I any, O any](fn func(context.Context, I) (O, error)) Processor[I, O] {
	return fn
}

// validateProcessor checks that a processor has been set before it is run.
func validateProcessor[I any, O any](p Processor[I, O]) error {
	if p == nil {
		return errors.New("processor cannot be nil")
	}
	return nil
}

// checkContextCancellation reports whether ctx has already been canceled.
func (p Processor[I, O]) checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Run implements the Node interface for Processor, so a bare Processor value
// can be used anywhere a Node[I,O] is expected. It rejects a nil processor
// and an already-canceled context before invoking the underlying function.
func (p Processor[I, O]) Run(ctx context.Context, input I) (O, error) {
	var zero O
	if err := validateProcessor(p); err != nil {
		return zero, err
	}
	if err := p.checkContextCancellation(ctx); err != nil {
		return zero, err
	}
	return p(ctx, input)
}
