// Package scheduler provides background job scheduling for the scholarship
// allocation engine. Its main tenant is the deadline sweep that moves
// scholarships past their deadline into the expired state; the ranking
// refresh job keeps cached allocation passes warm.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB AND SCHEDULE CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Job is a unit of scheduled work.
type Job interface {
	// Name returns a unique job identifier.
	Name() string

	// Run executes the job. A returned error is logged and counted;
	// the job stays registered and runs again at its next slot.
	Run(ctx context.Context) error

	// Description returns a human-readable summary for operators.
	Description() string
}

// Schedule decides when a job runs next.
type Schedule interface {
	// Next returns the next run time strictly after t.
	Next(t time.Time) time.Time

	// String describes the schedule.
	String() string
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilJob is returned when registering a nil job.
	ErrNilJob = errors.New("scheduler: job cannot be nil")

	// ErrNilSchedule is returned when registering a nil schedule.
	ErrNilSchedule = errors.New("scheduler: schedule cannot be nil")

	// ErrJobAlreadyExists is returned when a job name is already registered.
	ErrJobAlreadyExists = errors.New("scheduler: job already exists")

	// ErrJobNotFound is returned when the named job is not registered.
	ErrJobNotFound = errors.New("scheduler: job not found")

	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("scheduler: already running")

	// ErrNotRunning is returned when Stop is called on a stopped scheduler.
	ErrNotRunning = errors.New("scheduler: not running")
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// registration pairs a job with its schedule and run state.
type registration struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
	lastRun  time.Time
	lastErr  error
	runCount int64
	errCount int64
	enabled  bool
	running  bool
}

// Scheduler runs registered jobs at their scheduled times.
// Each due job runs in its own goroutine; a job never overlaps itself.
type Scheduler struct {
	jobs    map[string]*registration
	logger  *slog.Logger
	tick    time.Duration
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTickInterval sets how often the scheduler checks for due jobs.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:   make(map[string]*registration),
		logger: slog.Default(),
		tick:   time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job with its schedule. The first run lands at the
// schedule's next slot after registration.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	s.jobs[name] = &registration{
		job:      job,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now()),
		enabled:  true,
	}

	s.logger.Info("job registered",
		"job", name,
		"schedule", schedule.String(),
	)
	return nil
}

// Enable re-enables a disabled job and recomputes its next run.
func (s *Scheduler) Enable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	reg.enabled = true
	reg.nextRun = reg.schedule.Next(time.Now())
	return nil
}

// Disable stops a job from being scheduled. An in-flight run finishes.
func (s *Scheduler) Disable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	reg.enabled = false
	return nil
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler started", "jobs", len(s.jobs))

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow triggers a job immediately, outside its schedule.
// The scheduled next run is unaffected.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	reg, exists := s.jobs[name]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if reg.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: job %s is already running", name)
	}
	reg.running = true
	s.mu.Unlock()

	s.execute(ctx, reg)
	return reg.lastErr
}

// loop is the scheduling loop. It ticks, collects due jobs, and runs
// each in its own goroutine.
func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.dispatchDue(ctx, now)
		}
	}
}

// dispatchDue starts every enabled, non-running job whose next run has
// passed, and advances its schedule.
func (s *Scheduler) dispatchDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*registration
	for _, reg := range s.jobs {
		if reg.enabled && !reg.running && !reg.nextRun.After(now) {
			reg.running = true
			reg.nextRun = reg.schedule.Next(now)
			due = append(due, reg)
		}
	}
	s.mu.Unlock()

	for _, reg := range due {
		s.wg.Add(1)
		go func(r *registration) {
			defer s.wg.Done()
			s.execute(ctx, r)
		}(reg)
	}
}

// execute runs one job and records the outcome.
func (s *Scheduler) execute(ctx context.Context, reg *registration) {
	name := reg.job.Name()
	started := time.Now()

	s.logger.Info("job starting", "job", name)

	err := reg.job.Run(ctx)
	duration := time.Since(started)

	s.mu.Lock()
	reg.running = false
	reg.lastRun = started
	reg.lastErr = err
	reg.runCount++
	if err != nil {
		reg.errCount++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed",
			"job", name,
			"duration", duration,
			"error", err,
		)
		return
	}

	s.logger.Info("job completed",
		"job", name,
		"duration", duration,
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// INTROSPECTION
// ══════════════════════════════════════════════════════════════════════════════

// JobInfo is a snapshot of one registered job's state.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	Enabled     bool
	Running     bool
	NextRun     time.Time
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
}

// ListJobs returns snapshots of all registered jobs, ordered by next run.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, reg := range s.jobs {
		infos = append(infos, JobInfo{
			Name:        reg.job.Name(),
			Description: reg.job.Description(),
			Schedule:    reg.schedule.String(),
			Enabled:     reg.enabled,
			Running:     reg.running,
			NextRun:     reg.nextRun,
			LastRun:     reg.lastRun,
			LastError:   reg.lastErr,
			RunCount:    reg.runCount,
			ErrorCount:  reg.errCount,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].NextRun.Before(infos[j].NextRun)
	})
	return infos
}

// GetJobInfo returns the snapshot for one job.
func (s *Scheduler) GetJobInfo(name string) (JobInfo, error) {
	for _, info := range s.ListJobs() {
		if info.Name == name {
			return info, nil
		}
	}
	return JobInfo{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
}
