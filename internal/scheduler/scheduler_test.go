package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func TestScheduler_AddAndRunJob(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestScheduler(t)
	var runs atomic.Int32
	err := s.AddJob("tick", "Tick", "counts runs", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
		false,
	)
	require.NoError(t, err)

	s.Start()
	require.NoError(t, s.RunJobNow("tick"))

	assert.Eventually(t, func() bool {
		job, ok := s.GetJob("tick")
		return ok && job.Status == JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	job, ok := s.GetJob("tick")
	require.True(t, ok)
	assert.Equal(t, 1, job.RunCount)
	assert.Equal(t, int32(1), runs.Load())
	assert.False(t, job.NextRun.IsZero())

	require.NoError(t, s.Stop())
}

func TestScheduler_FailingJob(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop() //nolint: errcheck

	err := s.AddSingletonJob("fail", "Fail", "always fails", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error {
			return errors.New("boom")
		},
		true,
	)
	require.NoError(t, err)

	s.Start()

	assert.Eventually(t, func() bool {
		job, _ := s.GetJob("fail")
		return job.Status == JobStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	job, _ := s.GetJob("fail")
	assert.Equal(t, 1, job.ErrorCount)
	assert.Equal(t, "boom", job.LastError)
	assert.True(t, job.Singleton)
}

func TestScheduler_DisableJob(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop() //nolint: errcheck

	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", "Tick", "", "every hour",
		gocron.DurationJob(time.Hour),
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
		false,
	))
	s.Start()

	require.NoError(t, s.DisableJob("tick"))
	require.NoError(t, s.RunJobNow("tick"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "disabled jobs skip their runs")

	require.NoError(t, s.EnableJob("tick"))
	require.NoError(t, s.RunJobNow("tick"))
	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_UnknownJob(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop() //nolint: errcheck

	assert.Error(t, s.RunJobNow("missing"))
	assert.Error(t, s.EnableJob("missing"))
	assert.Error(t, s.DisableJob("missing"))
	_, ok := s.GetJob("missing")
	assert.False(t, ok)
}

func TestScheduler_DuplicateJob(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop() //nolint: errcheck

	add := func() error {
		return s.AddJob("dup", "Dup", "", "every hour", gocron.DurationJob(time.Hour),
			func(ctx context.Context) error { return nil }, false)
	}
	require.NoError(t, add())
	assert.Error(t, add())
}

func TestScheduler_GetJobsSorted(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop() //nolint: errcheck

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.AddJob(id, id, "", "every hour", gocron.DurationJob(time.Hour),
			func(ctx context.Context) error { return nil }, false))
	}

	jobs := s.GetJobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "c", jobs[2].ID)
}
