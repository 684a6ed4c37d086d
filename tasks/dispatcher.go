package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

// Dispatcher hands a task to background processing and returns immediately.
type Dispatcher interface {
	Dispatch(ctx context.Context, task *asynq.Task) error
}

// LocalDispatcher runs tasks in-process on a bounded set of goroutines.
type LocalDispatcher struct {
	Handler asynq.Handler
	slots   chan struct{}
	wg      sync.WaitGroup
}

func NewLocalDispatcher(handler asynq.Handler, concurrency int) *LocalDispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &LocalDispatcher{Handler: handler, slots: make(chan struct{}, concurrency)}
}

// Dispatch detaches from ctx cancellation: request contexts end before the
// push does.
func (d *LocalDispatcher) Dispatch(ctx context.Context, task *asynq.Task) error {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.slots <- struct{}{}
		defer func() { <-d.slots }()
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("task %s panicked: %v", task.Type(), r)
				log.Printf("[Queue] %v\n%s", err, debug.Stack())
				sentry.CaptureException(err)
			}
		}()
		if err := d.Handler.ProcessTask(ctx, task); err != nil {
			log.Printf("[Queue] task %s failed: %v", task.Type(), err)
		}
	}()
	return nil
}

// Wait blocks until every dispatched task has finished.
func (d *LocalDispatcher) Wait() {
	d.wg.Wait()
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher enqueues onto redis for cmd/worker.
type AsynqDispatcher struct {
	Client TaskEnqueuer
	Queue  string
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, task *asynq.Task) error {
	var opts []asynq.Option
	if d.Queue != "" {
		opts = append(opts, asynq.Queue(d.Queue))
	}
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Printf("[Queue] task %s already enqueued, skipping", task.Type())
		return nil
	}
	if err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	log.Printf("[Queue] enqueued task: id=%s queue=%s", info.ID, info.Queue)
	return nil
}
