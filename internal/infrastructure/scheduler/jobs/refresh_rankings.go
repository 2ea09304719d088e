package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/application/query"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH RANKINGS JOB
// ══════════════════════════════════════════════════════════════════════════════

// AllocationRunner runs one allocation pass.
type AllocationRunner interface {
	Handle(ctx context.Context, q query.RunAllocationQuery) (*query.RunAllocationResult, error)
}

// RefreshRankingsJob recomputes the allocation pass for every active
// scholarship so the cached rankings reviewers see stay warm. The pass is
// read-only; a refresh never admits or rejects anyone.
type RefreshRankingsJob struct {
	scholarshipRepo scholarship.Repository
	runner          AllocationRunner
	logger          *slog.Logger
	config          RefreshRankingsConfig

	lastStats atomic.Value // *RefreshStats
}

// RefreshRankingsConfig contains configuration for the refresh job.
type RefreshRankingsConfig struct {
	// Concurrency is the number of scholarships refreshed in parallel.
	Concurrency int

	// BatchSize bounds how many active scholarships one run touches.
	BatchSize int

	// Timeout is the maximum duration for the entire run.
	Timeout time.Duration
}

// DefaultRefreshRankingsConfig returns sensible defaults.
func DefaultRefreshRankingsConfig() RefreshRankingsConfig {
	return RefreshRankingsConfig{
		Concurrency: 4,
		BatchSize:   200,
		Timeout:     5 * time.Minute,
	}
}

// RefreshStats contains statistics from the last run.
type RefreshStats struct {
	StartedAt    time.Time
	Duration     time.Duration
	TotalCount   int
	RefreshCount int
	FailedCount  int
}

// NewRefreshRankingsJob creates the job.
func NewRefreshRankingsJob(
	scholarshipRepo scholarship.Repository,
	runner AllocationRunner,
	logger *slog.Logger,
	config RefreshRankingsConfig,
) *RefreshRankingsJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 200
	}

	return &RefreshRankingsJob{
		scholarshipRepo: scholarshipRepo,
		runner:          runner,
		logger:          logger,
		config:          config,
	}
}

// Name returns the job name.
func (j *RefreshRankingsJob) Name() string {
	return "refresh_rankings"
}

// Description returns a human-readable description.
func (j *RefreshRankingsJob) Description() string {
	return "Recomputes cached allocation rankings for active scholarships"
}

// Run executes one refresh pass.
func (j *RefreshRankingsJob) Run(ctx context.Context) error {
	started := time.Now().UTC()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	active, err := j.scholarshipRepo.List(ctx, scholarship.ListFilter{
		Status:     scholarship.StatusActive,
		Pagination: shared.NewPagination(1, j.config.BatchSize),
	})
	if err != nil {
		return fmt.Errorf("failed to list active scholarships: %w", err)
	}

	stats := &RefreshStats{StartedAt: started, TotalCount: len(active)}

	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, j.config.Concurrency)
		mu        sync.Mutex
	)

	for _, s := range active {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			_, err := j.runner.Handle(ctx, query.RunAllocationQuery{
				ScholarshipID: id,
				SkipCache:     true,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				stats.FailedCount++
				j.logger.Warn("ranking refresh failed",
					"scholarship_id", id,
					"error", err,
				)
				return
			}
			stats.RefreshCount++
		}(s.ID)
	}

	wg.Wait()

	stats.Duration = time.Since(started)
	j.lastStats.Store(stats)

	j.logger.Info("ranking refresh completed",
		"total", stats.TotalCount,
		"refreshed", stats.RefreshCount,
		"failed", stats.FailedCount,
		"duration", stats.Duration,
	)

	return nil
}

// LastStats returns statistics from the most recent run, or nil before
// the first run.
func (j *RefreshRankingsJob) LastStats() *RefreshStats {
	stats := j.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*RefreshStats)
}
