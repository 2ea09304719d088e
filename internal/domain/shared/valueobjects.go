// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CollegeID identifies the tenant college that owns an entity.
// Always passed explicitly; the engine carries no ambient tenant state.
type CollegeID string

// IsValid checks if the college ID is a valid UUID.
func (c CollegeID) IsValid() bool {
	return uuidRegex.MatchString(string(c))
}

// String returns the string representation.
func (c CollegeID) String() string {
	return string(c)
}

// IsEmpty checks if the ID is empty.
func (c CollegeID) IsEmpty() bool {
	return c == ""
}

// NewCollegeID creates a new CollegeID with validation.
func NewCollegeID(id string) (CollegeID, error) {
	cid := CollegeID(strings.ToLower(strings.TrimSpace(id)))
	if !cid.IsValid() {
		return "", NewDomainError("shared", "NewCollegeID", ErrInvalidID, "invalid college ID format")
	}
	return cid, nil
}

// RollNumber represents a student roll number, e.g. "CS2024001".
type RollNumber string

// Roll number format: department prefix + year + serial.
var rollRegex = regexp.MustCompile(`^[A-Z]{2,4}\d{4,10}$`)

// IsValid checks if the roll number format is valid.
func (r RollNumber) IsValid() bool {
	return rollRegex.MatchString(string(r))
}

// String returns the string representation.
func (r RollNumber) String() string {
	return string(r)
}

// Department extracts the department prefix from the roll number.
func (r RollNumber) Department() string {
	for i, ch := range r {
		if ch >= '0' && ch <= '9' {
			return string(r[:i])
		}
	}
	return string(r)
}

// NewRollNumber creates a new RollNumber with validation.
func NewRollNumber(roll string) (RollNumber, error) {
	rn := RollNumber(strings.ToUpper(strings.TrimSpace(roll)))
	if !rn.IsValid() {
		return "", ErrInvalidStudentRoll
	}
	return rn, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// CGPA Value Object
// ═══════════════════════════════════════════════════════════════════════════

// CGPA represents a cumulative grade point average on a 10-point scale.
type CGPA float64

const (
	MinCGPA CGPA = 0.0
	MaxCGPA CGPA = 10.0
)

// IsValid checks if the CGPA is within the 10-point scale.
func (c CGPA) IsValid() bool {
	return c >= MinCGPA && c <= MaxCGPA
}

// Float64 returns the underlying float64 value.
func (c CGPA) Float64() float64 {
	return float64(c)
}

// AtLeast reports whether the CGPA meets the given floor.
func (c CGPA) AtLeast(floor CGPA) bool {
	return c >= floor
}

// String returns the CGPA formatted to one decimal place.
func (c CGPA) String() string {
	return fmt.Sprintf("%.1f", float64(c))
}

// NewCGPA creates a new CGPA with validation.
func NewCGPA(value float64) (CGPA, error) {
	c := CGPA(value)
	if !c.IsValid() {
		return 0, ErrInvalidCGPA
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Money Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Money represents an amount in whole rupees.
// Scholarship amounts and family incomes never need paise precision.
type Money int64

// IsValid checks that the amount is non-negative.
func (m Money) IsValid() bool {
	return m >= 0
}

// Int64 returns the underlying int64 value.
func (m Money) Int64() int64 {
	return int64(m)
}

// Exceeds reports whether the amount is strictly above the given ceiling.
func (m Money) Exceeds(ceiling Money) bool {
	return m > ceiling
}

// String formats the amount with the rupee sign.
func (m Money) String() string {
	return fmt.Sprintf("₹%d", int64(m))
}

// Lakhs returns the amount in lakhs, rounded to one decimal place.
func (m Money) Lakhs() float64 {
	return float64(m) / 100000.0
}

// NewMoney creates a new Money value with validation.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return 0, NewDomainError("shared", "NewMoney", ErrNegativeValue, "amount cannot be negative")
	}
	return Money(amount), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Score represents a composite merit score in the range 0-100.
type Score int

const (
	MinScore Score = 0
	MaxScore Score = 100
)

// IsValid checks if the score is within valid range.
func (s Score) IsValid() bool {
	return s >= MinScore && s <= MaxScore
}

// Int returns the underlying int value.
func (s Score) Int() int {
	return int(s)
}

// Band returns a coarse quality band used for display.
func (s Score) Band() string {
	switch {
	case s >= 80:
		return "high"
	case s >= 60:
		return "medium"
	default:
		return "low"
	}
}

// NewScore creates a new Score with validation.
func NewScore(value int) (Score, error) {
	s := Score(value)
	if !s.IsValid() {
		return 0, ErrInvalidScore
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Rank Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Rank represents a candidate's position in an allocation run.
type Rank int

const (
	MinRank  Rank = 1
	Unranked Rank = 0 // Not yet ranked
)

// IsValid checks if the rank is valid.
func (r Rank) IsValid() bool {
	return r >= MinRank
}

// Int returns the underlying int value.
func (r Rank) Int() int {
	return int(r)
}

// IsUnranked checks if the candidate is not yet ranked.
func (r Rank) IsUnranked() bool {
	return r == Unranked
}

// Medal returns a medal emoji for top ranks.
func (r Rank) Medal() string {
	switch r {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// IsZero reports whether both bounds are unset.
func (t TimeRange) IsZero() bool {
	return t.From.IsZero() && t.To.IsZero()
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// LastNDays returns a TimeRange for the last N days.
func LastNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
