package workerpool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/polyglot/config"
	"github.com/pitabwire/polyglot/workerpool"
)

func newTestManager(t *testing.T) workerpool.Manager {
	t.Helper()

	cfg := config.Translation{
		WorkerPoolCPUFactorForWorkerCount: 1,
		WorkerPoolCapacity:                4,
		WorkerPoolExpiryDuration:          "1s",
	}

	m := workerpool.NewManager(t.Context(), &cfg)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m
}

func TestSubmitJobStreamsResults(t *testing.T) {
	m := newTestManager(t)
	ctx := t.Context()

	job := workerpool.NewJob(func(ctx context.Context, result workerpool.JobResultPipe[int]) error {
		for _, v := range []int{1, 2, 3} {
			if err := result.WriteResult(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, workerpool.SubmitJob(ctx, m, job))

	var got []int
	err := workerpool.ConsumeResultStream(ctx, job, func(v int) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestSubmitJobSurfacesErrors(t *testing.T) {
	m := newTestManager(t)
	ctx := t.Context()

	boom := errors.New("boom")
	job := workerpool.NewJob(func(_ context.Context, _ workerpool.JobResultPipe[int]) error {
		return boom
	})

	require.NoError(t, workerpool.SubmitJob(ctx, m, job))

	err := workerpool.ConsumeResultStream(ctx, job, func(_ int) error { return nil })
	require.ErrorIs(t, err, boom)
}

func TestConsumeResultStreamStopsOnConsumerError(t *testing.T) {
	m := newTestManager(t)
	ctx := t.Context()

	job := workerpool.NewJob(func(ctx context.Context, result workerpool.JobResultPipe[int]) error {
		return result.WriteResult(ctx, 42)
	})

	require.NoError(t, workerpool.SubmitJob(ctx, m, job))

	stop := errors.New("stop")
	err := workerpool.ConsumeResultStream(ctx, job, func(_ int) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestWriteAfterCloseFails(t *testing.T) {
	job := workerpool.NewJob(func(_ context.Context, _ workerpool.JobResultPipe[string]) error {
		return nil
	})
	job.Close()

	err := job.WriteResult(t.Context(), "late")
	require.ErrorIs(t, err, workerpool.ErrWorkerPoolResultChannelIsClosed)
}

func TestSubmitJobNilManager(t *testing.T) {
	job := workerpool.NewJob(func(_ context.Context, _ workerpool.JobResultPipe[int]) error {
		return nil
	})
	require.Error(t, workerpool.SubmitJob(t.Context(), nil, job))
}
