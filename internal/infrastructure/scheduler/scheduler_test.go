package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJob counts runs and optionally fails.
type stubJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub job for tests" }

func (j *stubJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := Every(5 * time.Minute)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(5*time.Minute), s.Next(base))
	assert.Equal(t, "@every 5m0s", s.String())
}

func TestDailySchedule_Next(t *testing.T) {
	s := DailyAt(2, 30)

	t.Run("before today's slot", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 1, 2, 30, 0, 0, time.UTC), s.Next(now))
	})

	t.Run("after today's slot rolls to tomorrow", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 2, 2, 30, 0, 0, time.UTC), s.Next(now))
	})

	t.Run("exactly at the slot rolls to tomorrow", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 2, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, 3, 2, 2, 30, 0, 0, time.UTC), s.Next(now))
	})
}

func TestParseCron(t *testing.T) {
	t.Run("wildcard fields", func(t *testing.T) {
		cs, err := ParseCron(EveryMinute)
		require.NoError(t, err)
		assert.Len(t, cs.minutes, 60)
		assert.Len(t, cs.hours, 24)
	})

	t.Run("step values", func(t *testing.T) {
		cs, err := ParseCron(Every5Minutes)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55}, cs.minutes)
	})

	t.Run("ranges and lists", func(t *testing.T) {
		cs, err := ParseCron("0 9-11 * * 1,3,5")
		require.NoError(t, err)
		assert.Equal(t, []int{9, 10, 11}, cs.hours)
		assert.Equal(t, []int{1, 3, 5}, cs.weekdays)
	})

	t.Run("wrong field count", func(t *testing.T) {
		_, err := ParseCron("* * *")
		assert.Error(t, err)
	})

	t.Run("value out of range", func(t *testing.T) {
		_, err := ParseCron("61 * * * *")
		assert.Error(t, err)
	})
}

func TestCronSchedule_Next(t *testing.T) {
	cs := MustParseCron(EveryDay2AM)

	now := time.Date(2025, 3, 1, 10, 15, 30, 0, time.UTC)
	next := cs.Next(now)
	assert.Equal(t, time.Date(2025, 3, 2, 2, 0, 0, 0, time.UTC), next)

	// Strictly after: asking again from the slot itself lands on the next day.
	assert.Equal(t, time.Date(2025, 3, 3, 2, 0, 0, 0, time.UTC), cs.Next(next))
}

func TestScheduler_Register(t *testing.T) {
	s := New()

	job := &stubJob{name: "sweep"}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := s.Register(&stubJob{name: "sweep"}, Every(time.Hour))
		assert.ErrorIs(t, err, ErrJobAlreadyExists)
	})

	t.Run("nil job rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Register(nil, Every(time.Hour)), ErrNilJob)
	})

	t.Run("nil schedule rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Register(&stubJob{name: "other"}, nil), ErrNilSchedule)
	})

	info, err := s.GetJobInfo("sweep")
	require.NoError(t, err)
	assert.Equal(t, "@every 1h0m0s", info.Schedule)
	assert.True(t, info.Enabled)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New()

	job := &stubJob{name: "sweep"}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	require.NoError(t, s.RunNow(context.Background(), "sweep"))
	assert.Equal(t, int64(1), job.runs.Load())

	info, err := s.GetJobInfo("sweep")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.RunCount)
	assert.Zero(t, info.ErrorCount)

	t.Run("unknown job", func(t *testing.T) {
		assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
	})
}

func TestScheduler_RunNowReportsJobError(t *testing.T) {
	s := New()

	boom := errors.New("sweep failed")
	job := &stubJob{name: "sweep", err: boom}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	assert.ErrorIs(t, s.RunNow(context.Background(), "sweep"), boom)

	info, err := s.GetJobInfo("sweep")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.ErrorCount)
}

func TestScheduler_LoopRunsDueJobs(t *testing.T) {
	s := New(WithTickInterval(10 * time.Millisecond))

	job := &stubJob{name: "sweep"}
	require.NoError(t, s.Register(job, Every(20*time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 2
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	t.Run("double start rejected while running", func(t *testing.T) {
		require.NoError(t, s.Start(context.Background()))
		assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
		require.NoError(t, s.Stop())
	})

	t.Run("stop when stopped", func(t *testing.T) {
		assert.ErrorIs(t, s.Stop(), ErrNotRunning)
	})
}

func TestScheduler_DisabledJobDoesNotRun(t *testing.T) {
	s := New(WithTickInterval(10 * time.Millisecond))

	job := &stubJob{name: "sweep"}
	require.NoError(t, s.Register(job, Every(10*time.Millisecond)))
	require.NoError(t, s.Disable("sweep"))

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Stop())

	assert.Zero(t, job.runs.Load())
}
