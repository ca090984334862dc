// Package obslog wraps go.uber.org/zap with a fluent, domain-specific
// Fields builder, rather than requiring every call site to hand-build
// zap.Field slices.
//
// The fluent builder contract (NewFields().Component().Operation()...,
// each string setter a no-op on an empty string) is grounded on the
// NewFields()/StandardFields contract observed in
// jordigilh-kubernaut/pkg/shared/logging/fields_test.go — that
// package's source was not retrieved, so the shape is rebuilt here from
// the test's documented behavior, with the domain vocabulary (stage,
// topic, paper, round) swapped in for the Kubernetes-specific one. The
// teacher's own call sites use log/slog directly (core/lynx) and are
// left as-is; obslog is additive, not a replacement.
package obslog

import (
	"time"

	"go.uber.org/zap"
)

// Fields accumulates structured log fields across a fluent chain.
type Fields map[string]any

// NewFields returns an empty Fields map ready for chaining.
func NewFields() Fields {
	return Fields{}
}

func (f Fields) Topic(topic string) Fields {
	if topic != "" {
		f["topic"] = topic
	}
	return f
}

func (f Fields) Stage(stage string) Fields {
	if stage != "" {
		f["stage"] = stage
	}
	return f
}

func (f Fields) Round(round int) Fields {
	f["round"] = round
	return f
}

func (f Fields) Paper(id string) Fields {
	if id != "" {
		f["paper_id"] = id
	}
	return f
}

func (f Fields) Provider(provider, model string) Fields {
	if provider != "" {
		f["llm_provider"] = provider
	}
	if model != "" {
		f["llm_model"] = model
	}
	return f
}

func (f Fields) Duration(d time.Duration) Fields {
	f["duration_ms"] = d.Milliseconds()
	return f
}

func (f Fields) Count(n int) Fields {
	f["count"] = n
	return f
}

func (f Fields) Attempt(n int) Fields {
	f["attempt"] = n
	return f
}

func (f Fields) Error(err error) Fields {
	if err != nil {
		f["error"] = err.Error()
	}
	return f
}

func (f Fields) Custom(key string, value any) Fields {
	f[key] = value
	return f
}

// Zap renders f as a zap.Field slice, one field per key. The slice
// follows map iteration order, so field order is not stable across calls.
func (f Fields) Zap() []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// StageFields is a convenience constructor for the common
// stage+topic+round combination every stage runner log line carries.
func StageFields(stage, topic string, round int) Fields {
	return NewFields().Stage(stage).Topic(topic).Round(round)
}
