package lynx

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/Sologa/AUTOSR-SDSE-sub001/core/job"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/trigger"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/worker"
)

func TestNew(t *testing.T) {
	bj := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{
			Spec: "0/1 * * * * ?",
		}),
		Workers: []worker.BatchWorker{&worker.MockBatchWorker{}, &worker.MockBatchWorker{}, &worker.MockEmptyBatchWorker{}},
	})
	lynx := New(&Options{Jobs: []job.Job{bj}})
	err := lynx.start()
	t.Log(err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(syscall.SIGINT)
	}()
	lynx.wait()

	err = lynx.stop()
	t.Log(err)
}
