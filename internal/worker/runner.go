package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/openpioneer/marketplace-notify/internal/store"
)

// EventDispatcher is the registry side of a job execution.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event events.Event)
}

// AttemptRecorder persists the audit trail of job executions. Implemented by
// the postgres store.
type AttemptRecorder interface {
	RecordDispatchAttempt(ctx context.Context, rec store.DispatchAttemptRecord) error
}

// Runner executes one dispatch job: it feeds the event into the registry
// under a timeout and records an audit row. Dispatch itself never fails for
// handler errors, so a recorded failure means the job could not be executed
// at all.
type Runner struct {
	registry       EventDispatcher
	attempts       AttemptRecorder
	logger         *slog.Logger
	handlerTimeout time.Duration
}

// NewRunner creates a runner. handlerTimeout bounds one job's dispatch so a
// stalled handler cannot occupy a pool worker forever; zero disables the
// bound.
func NewRunner(registry EventDispatcher, attempts AttemptRecorder, handlerTimeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		registry:       registry,
		attempts:       attempts,
		logger:         logger,
		handlerTimeout: handlerTimeout,
	}
}

// Run dispatches the job's event and records the attempt.
func (r *Runner) Run(ctx context.Context, job events.DispatchJob) {
	start := time.Now()

	dispatchCtx := ctx
	if r.handlerTimeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, r.handlerTimeout)
		defer cancel()
	}

	r.registry.Dispatch(dispatchCtx, job.Event)

	elapsed := int(time.Since(start).Milliseconds())

	status := "success"
	errMsg := ""
	if dispatchCtx.Err() != nil {
		status = "timed_out"
		errMsg = dispatchCtx.Err().Error()
	}

	if r.attempts != nil {
		err := r.attempts.RecordDispatchAttempt(ctx, store.DispatchAttemptRecord{
			JobID:        job.ID,
			EventType:    job.Event.Type,
			Attempt:      job.Attempt,
			Status:       status,
			DurationMs:   elapsed,
			ErrorMessage: errMsg,
		})
		if err != nil {
			r.logger.Error("failed to record dispatch attempt",
				"error", err,
				"job_id", job.ID,
			)
		}
	}

	r.logger.Info("dispatch job executed",
		"job_id", job.ID,
		"event_type", job.Event.Type,
		"status", status,
		"duration_ms", elapsed,
	)
}
