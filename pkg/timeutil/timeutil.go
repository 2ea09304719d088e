// Package timeutil provides campus timezone utilities (IST, UTC+5:30).
// Scholarship deadlines are announced in campus time while everything is
// stored and compared in UTC, so the conversions live in one place.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// CampusTZ is the campus timezone (IST, UTC+5:30, no DST).
var CampusTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in campus timezone.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// ToCampus converts a time to campus timezone.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in campus timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, CampusTZ)
}

// DateTime creates a time in campus timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, CampusTZ)
}

// StartOfDay returns the start of the day (00:00:00) in campus timezone.
func StartOfDay(t time.Time) time.Time {
	campus := ToCampus(t)
	return time.Date(campus.Year(), campus.Month(), campus.Day(), 0, 0, 0, 0, CampusTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in campus timezone.
func EndOfDay(t time.Time) time.Time {
	campus := ToCampus(t)
	return time.Date(campus.Year(), campus.Month(), campus.Day(), 23, 59, 59, 999999999, CampusTZ)
}

// StartOfMonth returns the start of the month in campus timezone.
func StartOfMonth(t time.Time) time.Time {
	campus := ToCampus(t)
	return time.Date(campus.Year(), campus.Month(), 1, 0, 0, 0, 0, CampusTZ)
}

// EndOfMonth returns the end of the month in campus timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return EndOfDay(start.AddDate(0, 1, -1))
}

// IsSameDay checks if two times are on the same campus day.
func IsSameDay(t1, t2 time.Time) bool {
	c1, c2 := ToCampus(t1), ToCampus(t2)
	return c1.Year() == c2.Year() && c1.YearDay() == c2.YearDay()
}

// DaysBetween calculates the number of campus days between two times.
func DaysBetween(t1, t2 time.Time) int {
	c1 := StartOfDay(t1)
	c2 := StartOfDay(t2)
	duration := c2.Sub(c1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// DaysUntil returns whole campus days from now until t. Negative when t
// has passed.
func DaysUntil(t time.Time) int {
	today := StartOfDay(Now())
	target := StartOfDay(t)
	return int(target.Sub(today).Hours() / 24)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
)

// FormatCampus formats a time in campus timezone with the given layout.
func FormatCampus(t time.Time, layout string) string {
	return ToCampus(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in campus timezone.
func FormatDateStr(t time.Time) string {
	return FormatCampus(t, FormatDate)
}

// FormatDateTimeStr formats a time as datetime string in campus timezone.
func FormatDateTimeStr(t time.Time) string {
	return FormatCampus(t, FormatDateTime)
}

// ParseCampus parses a time string in campus timezone.
func ParseCampus(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, CampusTZ)
}

// ParseDateCampus parses a date string (YYYY-MM-DD) in campus timezone.
func ParseDateCampus(value string) (time.Time, error) {
	return ParseCampus(FormatDate, value)
}

// Deadline helpers. A deadline announced as a bare date means "until the
// end of that day on campus"; comparisons happen in UTC.

// DeadlineFromDate converts a date string (YYYY-MM-DD) into the UTC
// instant the scholarship closes: end of that campus day.
func DeadlineFromDate(value string) (time.Time, error) {
	day, err := ParseDateCampus(value)
	if err != nil {
		return time.Time{}, err
	}
	return EndOfDay(day).UTC(), nil
}

// DeadlinePassed reports whether the deadline is in the past.
func DeadlinePassed(deadline time.Time, now time.Time) bool {
	return now.After(deadline)
}
