package workerpool

import (
	"context"
	"errors"

	"github.com/pitabwire/util"

	"github.com/pitabwire/polyglot/config"
)

type manager struct {
	pool WorkerPool
}

// NewManager sets up a worker pool sized by configuration. The pool only
// exists to fan out chunked translation preloads, so failure to create one is
// a programming error and panics like any other broken initialisation.
func NewManager(ctx context.Context, cfg config.ConfigurationWorkerPool, opts ...Option) Manager {
	log := util.Log(ctx)

	poolOpts := defaultOpts(cfg, log)
	for _, opt := range opts {
		opt(poolOpts)
	}

	pool, err := setupPool(poolOpts)
	if err != nil {
		log.WithError(err).Panic("could not create a worker pool")
	}

	return &manager{pool: pool}
}

func (m *manager) GetPool() (WorkerPool, error) {
	if m.pool == nil {
		return nil, errors.New("worker pool is not configured")
	}
	return m.pool, nil
}

func (m *manager) Shutdown(_ context.Context) error {
	if m.pool != nil {
		m.pool.Shutdown()
	}
	return nil
}

// SubmitJob hands a job to the worker pool. The caller consumes results by
// listening on the job's result pipe; the pipe is closed once the job
// function returns.
func SubmitJob[T any](ctx context.Context, m Manager, job Job[T]) error {
	if m == nil {
		return errors.New("worker pool manager is nil")
	}

	pool, err := m.GetPool()
	if err != nil {
		return err
	}

	task := func() {
		defer job.Close()

		if job.F() == nil {
			_ = job.WriteError(ctx, errors.New("job function is nil"))
			return
		}

		executionErr := job.F()(ctx, job)
		if executionErr == nil ||
			errors.Is(executionErr, context.Canceled) ||
			errors.Is(executionErr, ErrWorkerPoolResultChannelIsClosed) {
			return
		}

		util.Log(ctx).WithField("job", job.ID()).WithError(executionErr).Error("job failed")
		_ = job.WriteError(ctx, executionErr)
	}

	return pool.Submit(ctx, task)
}
