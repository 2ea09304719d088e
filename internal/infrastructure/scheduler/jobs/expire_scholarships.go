// Package jobs contains the scheduled jobs of the allocation engine.
// Each job wraps an application-layer use case so the scheduling
// machinery stays free of domain logic.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE SCHOLARSHIPS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ExpirySweeper runs one deadline sweep.
type ExpirySweeper interface {
	Handle(ctx context.Context, cmd command.ExpireScholarshipsCommand) (*command.ExpireScholarshipsResult, error)
}

// ExpireScholarshipsJob moves active scholarships past their deadline into
// the expired state. The sweep is idempotent, so an overlapping or repeated
// run is harmless.
type ExpireScholarshipsJob struct {
	sweeper ExpirySweeper
	logger  *slog.Logger
	timeout time.Duration

	lastStats atomic.Value // *ExpiryStats
}

// ExpiryStats contains the outcome of the last sweep.
type ExpiryStats struct {
	StartedAt    time.Time
	Duration     time.Duration
	ExpiredCount int
	FailedCount  int
}

// NewExpireScholarshipsJob creates the job.
func NewExpireScholarshipsJob(sweeper ExpirySweeper, logger *slog.Logger) *ExpireScholarshipsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpireScholarshipsJob{
		sweeper: sweeper,
		logger:  logger,
		timeout: time.Minute,
	}
}

// Name returns the job name.
func (j *ExpireScholarshipsJob) Name() string {
	return "expire_scholarships"
}

// Description returns a human-readable description.
func (j *ExpireScholarshipsJob) Description() string {
	return "Moves active scholarships past their deadline into the expired state"
}

// Run executes one sweep.
func (j *ExpireScholarshipsJob) Run(ctx context.Context) error {
	started := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	result, err := j.sweeper.Handle(ctx, command.ExpireScholarshipsCommand{Now: started})
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}

	stats := &ExpiryStats{
		StartedAt:    started,
		Duration:     time.Since(started),
		ExpiredCount: result.ExpiredCount,
		FailedCount:  len(result.Errors),
	}
	j.lastStats.Store(stats)

	for id, ferr := range result.Errors {
		j.logger.Warn("scholarship expiry failed, will retry next sweep",
			"scholarship_id", id,
			"error", ferr,
		)
	}

	if result.ExpiredCount > 0 {
		j.logger.Info("expiry sweep completed",
			"expired", result.ExpiredCount,
			"failed", len(result.Errors),
			"duration", stats.Duration,
		)
	}

	return nil
}

// LastStats returns statistics from the most recent sweep, or nil before
// the first run.
func (j *ExpireScholarshipsJob) LastStats() *ExpiryStats {
	stats := j.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*ExpiryStats)
}
