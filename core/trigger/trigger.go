package trigger

import (
	"context"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/worker"
)

type Trigger interface {
	AddWorkers(ctx context.Context, workers ...worker.Worker) (int, error)
}
