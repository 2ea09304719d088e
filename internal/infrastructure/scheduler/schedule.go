package scheduler

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE IMPLEMENTATIONS
// ══════════════════════════════════════════════════════════════════════════════

// IntervalSchedule runs a job at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// Every creates an IntervalSchedule.
func Every(interval time.Duration) IntervalSchedule {
	return IntervalSchedule{Interval: interval}
}

// Next returns the next run time.
func (s IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}

// DailySchedule runs a job once a day at a fixed UTC time.
type DailySchedule struct {
	Hour   int
	Minute int
}

// DailyAt creates a DailySchedule. Hour and minute are interpreted in UTC.
func DailyAt(hour, minute int) DailySchedule {
	return DailySchedule{Hour: hour, Minute: minute}
}

// Next returns the next occurrence of the configured time strictly after t.
func (s DailySchedule) Next(t time.Time) time.Time {
	t = t.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, time.UTC)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// String returns the string representation of the schedule.
func (s DailySchedule) String() string {
	return fmt.Sprintf("@daily %02d:%02d UTC", s.Hour, s.Minute)
}
