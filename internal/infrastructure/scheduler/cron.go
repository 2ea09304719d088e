package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CRON SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// CronSchedule is a Schedule parsed from a standard 5-field cron
// expression: minute hour day-of-month month day-of-week.
// Examples:
//   - "*/5 * * * *"  - every 5 minutes
//   - "0 2 * * *"    - every day at 02:00
//   - "0 0 * * 0"    - every Sunday at midnight
//
// Times are evaluated in UTC.
type CronSchedule struct {
	raw      string
	minutes  []int // 0-59
	hours    []int // 0-23
	days     []int // 1-31
	months   []int // 1-12
	weekdays []int // 0-6 (0 = Sunday)
}

// ParseCron parses a cron expression.
// Each field supports *, */n, n, n-m and n,m,o.
func ParseCron(expr string) (*CronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("scheduler: cron expression needs 5 fields, got %d", len(fields))
	}

	cs := &CronSchedule{raw: expr}

	var err error
	if cs.minutes, err = parseCronField(fields[0], 0, 59); err != nil {
		return nil, fmt.Errorf("scheduler: invalid minute field: %w", err)
	}
	if cs.hours, err = parseCronField(fields[1], 0, 23); err != nil {
		return nil, fmt.Errorf("scheduler: invalid hour field: %w", err)
	}
	if cs.days, err = parseCronField(fields[2], 1, 31); err != nil {
		return nil, fmt.Errorf("scheduler: invalid day field: %w", err)
	}
	if cs.months, err = parseCronField(fields[3], 1, 12); err != nil {
		return nil, fmt.Errorf("scheduler: invalid month field: %w", err)
	}
	if cs.weekdays, err = parseCronField(fields[4], 0, 6); err != nil {
		return nil, fmt.Errorf("scheduler: invalid weekday field: %w", err)
	}

	return cs, nil
}

// MustParseCron parses a cron expression or panics.
// Use only for compile-time constants.
func MustParseCron(expr string) *CronSchedule {
	cs, err := ParseCron(expr)
	if err != nil {
		panic(err)
	}
	return cs
}

// parseCronField expands one field into the sorted set of matching values.
func parseCronField(field string, min, max int) ([]int, error) {
	if field == "*" {
		result := make([]int, 0, max-min+1)
		for i := min; i <= max; i++ {
			result = append(result, i)
		}
		return result, nil
	}

	// Step values: */n or n-m/s.
	if strings.Contains(field, "/") {
		parts := strings.Split(field, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad step format %q", field)
		}

		step, err := strconv.Atoi(parts[1])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("bad step value %q", parts[1])
		}

		start, end := min, max
		switch {
		case parts[0] == "*":
		case strings.Contains(parts[0], "-"):
			rangeParts := strings.Split(parts[0], "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("bad range %q", parts[0])
			}
			if start, err = strconv.Atoi(rangeParts[0]); err != nil {
				return nil, fmt.Errorf("bad range start %q", rangeParts[0])
			}
			if end, err = strconv.Atoi(rangeParts[1]); err != nil {
				return nil, fmt.Errorf("bad range end %q", rangeParts[1])
			}
		default:
			if start, err = strconv.Atoi(parts[0]); err != nil {
				return nil, fmt.Errorf("bad step start %q", parts[0])
			}
		}

		var result []int
		for i := start; i <= end; i += step {
			if i >= min && i <= max {
				result = append(result, i)
			}
		}
		return result, nil
	}

	// Ranges: n-m.
	if strings.Contains(field, "-") {
		parts := strings.Split(field, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad range format %q", field)
		}
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad range start %q", parts[0])
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad range end %q", parts[1])
		}

		var result []int
		for i := start; i <= end; i++ {
			if i >= min && i <= max {
				result = append(result, i)
			}
		}
		return result, nil
	}

	// Lists: n,m,o.
	if strings.Contains(field, ",") {
		var result []int
		for _, p := range strings.Split(field, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("bad list value %q", p)
			}
			if v >= min && v <= max {
				result = append(result, v)
			}
		}
		sort.Ints(result)
		return result, nil
	}

	// Single value.
	v, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("bad value %q", field)
	}
	if v < min || v > max {
		return nil, fmt.Errorf("value %d out of range [%d-%d]", v, min, max)
	}
	return []int{v}, nil
}

// Next returns the next matching time strictly after t.
func (cs *CronSchedule) Next(t time.Time) time.Time {
	// Minute resolution; scan forward up to one year.
	next := t.UTC().Add(time.Minute).Truncate(time.Minute)

	const maxIterations = 366 * 24 * 60
	for i := 0; i < maxIterations; i++ {
		if cs.matches(next) {
			return next
		}
		next = next.Add(time.Minute)
	}

	// Unreachable for expressions ParseCron accepts.
	return time.Time{}
}

// matches reports whether t satisfies every field.
func (cs *CronSchedule) matches(t time.Time) bool {
	return containsInt(cs.minutes, t.Minute()) &&
		containsInt(cs.hours, t.Hour()) &&
		containsInt(cs.days, t.Day()) &&
		containsInt(cs.months, int(t.Month())) &&
		containsInt(cs.weekdays, int(t.Weekday()))
}

// String returns the original cron expression.
func (cs *CronSchedule) String() string {
	return cs.raw
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Common cron expressions.
const (
	EveryMinute    = "* * * * *"
	Every5Minutes  = "*/5 * * * *"
	Every15Minutes = "*/15 * * * *"
	EveryHour      = "0 * * * *"
	EveryDay2AM    = "0 2 * * *"
	EveryMidnight  = "0 0 * * *"
)
