// Package xerrors implements the pipeline's error taxonomy: a single
// classified error type every stage returns so the stage runner can
// record an error class alongside the cause without string-sniffing.
//
// Grounded on the classified-AppError contract observed in
// jordigilh-kubernaut's internal/errors test suite (Class/Cause fields,
// Wrap/Wrapf constructors, Is-style type checking, structured log
// fields) — that package's source was not retrieved, so the contract
// is rebuilt fresh here rather than adapted from source, and combined
// with the teacher's own errors.Join usage (core/lynx.go, core/trigger)
// for the Chain helper that aggregates multiple stage/job failures.
package xerrors

import (
	"errors"
	"fmt"
)

// Class is the pipeline's error taxonomy (§7 ERROR HANDLING DESIGN).
type Class string

const (
	ConfigError         Class = "config_error"
	UpstreamMissing     Class = "upstream_missing"
	ExternalTimeout     Class = "external_timeout"
	ExternalHttpError   Class = "external_http_error"
	ParseError          Class = "parse_error"
	ValidationError     Class = "validation_error"
	SeedRewriteExhausted Class = "seed_rewrite_exhausted"
	CutoffRemovedAll    Class = "cutoff_removed_all"
	RateLimited         Class = "rate_limited"
)

// transient marks the classes that are retried in-component before ever
// reaching the stage runner.
var transient = map[Class]bool{
	ExternalTimeout:   true,
	ExternalHttpError: true,
	RateLimited:       true,
}

// IsTransient reports whether errors of this class are eligible for
// in-component retry with backoff rather than immediate fail-fast.
func (c Class) IsTransient() bool { return transient[c] }

// StageError is the error type every stage and component returns.
// Stage identifies which pipeline stage raised it (empty when raised
// below the stage boundary, e.g. inside internal/source).
type StageError struct {
	Class   Class
	Stage   string
	Message string
	Cause   error
}

// New creates a StageError with no underlying cause.
func New(class Class, message string) *StageError {
	return &StageError{Class: class, Message: message}
}

// Newf creates a StageError with a formatted message.
func Newf(class Class, format string, args ...any) *StageError {
	return &StageError{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a classification to an existing error.
func Wrap(cause error, class Class, message string) *StageError {
	return &StageError{Class: class, Message: message, Cause: cause}
}

// Wrapf attaches a classification to an existing error with a
// formatted message.
func Wrapf(cause error, class Class, format string, args ...any) *StageError {
	return &StageError{Class: class, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithStage returns a copy of e tagged with the stage name. Components
// below stage level raise untagged errors; the stage runner tags them
// on the way out so the user-visible failure line can name the stage.
func (e *StageError) WithStage(stage string) *StageError {
	out := *e
	out.Stage = stage
	return &out
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

func (e *StageError) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, xerrors.New(class, "")) style comparisons
// by class, ignoring message and cause.
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// ClassOf extracts the Class of err, or "" if err is not a *StageError.
func ClassOf(err error) Class {
	var se *StageError
	if errors.As(err, &se) {
		return se.Class
	}
	return ""
}

// LogFields renders e as a flat field map for structured logging.
func (e *StageError) LogFields() map[string]any {
	fields := map[string]any{
		"error":      e.Error(),
		"error_class": string(e.Class),
	}
	if e.Stage != "" {
		fields["stage"] = e.Stage
	}
	if e.Cause != nil {
		fields["underlying_error"] = e.Cause.Error()
	}
	return fields
}

// Chain joins multiple non-nil errors into one, filtering nils and
// returning nil if none remain. Mirrors the teacher's errors.Join use
// in core/lynx.go/core/trigger for aggregating job/worker failures.
func Chain(errs ...error) error {
	return errors.Join(errs...)
}
