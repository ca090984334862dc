package worker

import (
	"context"
)

// Worker is the smallest unit of schedulable work: a stage step, a single
// reviewer call, a single harvest request. It carries no result channel of
// its own; callers observe completion through BatchWorker.Done.
type Worker interface {
	Work()
}

// BatchWorker is a Worker that participates in a bounded batch: it is handed
// a context to honor for cancellation and exposes a Done channel the
// orchestrating job waits on before declaring the batch finished.
type BatchWorker interface {
	Worker
	Context(ctx context.Context)
	Done() <-chan struct{}
}
