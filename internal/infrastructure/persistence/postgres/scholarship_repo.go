package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHOLARSHIP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScholarshipRepository implements scholarship.Repository for PostgreSQL.
type ScholarshipRepository struct {
	conn *Connection
}

// NewScholarshipRepository creates a new ScholarshipRepository.
func NewScholarshipRepository(conn *Connection) *ScholarshipRepository {
	return &ScholarshipRepository{conn: conn}
}

const scholarshipColumns = `
	id, college_id, name, description, category, amount,
	total_seats, filled_seats, min_cgpa, max_income, deadline,
	status, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create stores a new scholarship.
func (r *ScholarshipRepository) Create(ctx context.Context, s *scholarship.Scholarship) error {
	query := `
		INSERT INTO scholarships (` + scholarshipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.CollegeID.String(),
		s.Name,
		s.Description,
		string(s.Category),
		int64(s.Amount),
		s.TotalSeats,
		s.FilledSeats,
		cgpaPtr(s.MinCGPA),
		moneyPtr(s.MaxIncome),
		s.Deadline,
		string(s.Status),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrScholarshipExists
		}
		return fmt.Errorf("failed to create scholarship: %w", err)
	}

	return nil
}

// GetByID returns a scholarship by ID.
func (r *ScholarshipRepository) GetByID(ctx context.Context, id string) (*scholarship.Scholarship, error) {
	query := `SELECT ` + scholarshipColumns + ` FROM scholarships WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanScholarship(row)
}

// Update persists changes to an existing scholarship. filled_seats is
// excluded on purpose: the seat counter moves only through
// CompareAndIncrementFilledSeats.
func (r *ScholarshipRepository) Update(ctx context.Context, s *scholarship.Scholarship) error {
	query := `
		UPDATE scholarships SET
			name = $1,
			description = $2,
			category = $3,
			amount = $4,
			total_seats = $5,
			min_cgpa = $6,
			max_income = $7,
			deadline = $8,
			status = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.conn.Exec(ctx, query,
		s.Name,
		s.Description,
		string(s.Category),
		int64(s.Amount),
		s.TotalSeats,
		cgpaPtr(s.MinCGPA),
		moneyPtr(s.MaxIncome),
		s.Deadline,
		string(s.Status),
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scholarship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrScholarshipNotFound
	}

	return nil
}

// Delete removes a scholarship. The deletion policy (no approved or pending
// applications) is enforced by the command layer before this is called.
func (r *ScholarshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM scholarships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scholarship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrScholarshipNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// List returns scholarships matching the filter, newest first.
func (r *ScholarshipRepository) List(ctx context.Context, filter scholarship.ListFilter) ([]*scholarship.Scholarship, error) {
	query, args := buildScholarshipListQuery(filter)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}
	defer rows.Close()

	return scanScholarships(rows)
}

// buildScholarshipListQuery assembles the filtered SELECT with positional
// placeholders numbered in append order.
func buildScholarshipListQuery(filter scholarship.ListFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + scholarshipColumns + ` FROM scholarships WHERE 1=1`)

	args := make([]interface{}, 0, 4)

	if !filter.CollegeID.IsEmpty() {
		args = append(args, filter.CollegeID.String())
		fmt.Fprintf(&sb, " AND college_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC, id")

	args = append(args, filter.Pagination.Limit())
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, filter.Pagination.Offset())
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}

// FindExpirable returns active scholarships whose deadline is before the
// given time.
func (r *ScholarshipRepository) FindExpirable(ctx context.Context, before time.Time) ([]*scholarship.Scholarship, error) {
	query := `
		SELECT ` + scholarshipColumns + `
		FROM scholarships
		WHERE status = $1 AND deadline IS NOT NULL AND deadline < $2
		ORDER BY deadline
	`

	rows, err := r.conn.Query(ctx, query, string(scholarship.StatusActive), before)
	if err != nil {
		return nil, fmt.Errorf("failed to find expirable scholarships: %w", err)
	}
	defer rows.Close()

	return scanScholarships(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Seat Accounting
// ─────────────────────────────────────────────────────────────────────────────

// seatIncrementQuery guards the seat counter twice: the increment matches
// only when the caller's view of filled_seats is current AND a seat remains.
const seatIncrementQuery = `
	UPDATE scholarships
	SET filled_seats = filled_seats + 1, updated_at = NOW()
	WHERE id = $1 AND filled_seats = $2 AND filled_seats < total_seats
`

// CompareAndIncrementFilledSeats consumes one seat with a conditional UPDATE.
// This is what makes concurrent approvals safe across instances.
func (r *ScholarshipRepository) CompareAndIncrementFilledSeats(ctx context.Context, id string, expected int) error {
	result, err := r.conn.Exec(ctx, seatIncrementQuery, id, expected)
	if err != nil {
		return fmt.Errorf("failed to increment filled seats: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched. Re-read to tell a lost race from exhausted capacity.
	var filled, total int
	err = r.conn.QueryRow(ctx,
		`SELECT filled_seats, total_seats FROM scholarships WHERE id = $1`, id,
	).Scan(&filled, &total)
	if err != nil {
		if IsNoRows(err) {
			return shared.ErrScholarshipNotFound
		}
		return fmt.Errorf("failed to read seat counters: %w", err)
	}

	if filled >= total {
		return shared.ErrCapacityExceeded
	}
	return shared.ErrOptimisticLock
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanScholarship(row pgx.Row) (*scholarship.Scholarship, error) {
	var (
		s         scholarship.Scholarship
		collegeID string
		category  string
		amount    int64
		minCGPA   *float64
		maxIncome *int64
		status    string
	)

	err := row.Scan(
		&s.ID,
		&collegeID,
		&s.Name,
		&s.Description,
		&category,
		&amount,
		&s.TotalSeats,
		&s.FilledSeats,
		&minCGPA,
		&maxIncome,
		&s.Deadline,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("failed to scan scholarship: %w", err)
	}

	s.CollegeID = shared.CollegeID(collegeID)
	s.Category = scholarship.Category(category)
	s.Amount = shared.Money(amount)
	s.Status = scholarship.Status(status)
	if minCGPA != nil {
		v := shared.CGPA(*minCGPA)
		s.MinCGPA = &v
	}
	if maxIncome != nil {
		v := shared.Money(*maxIncome)
		s.MaxIncome = &v
	}

	return &s, nil
}

func scanScholarships(rows pgx.Rows) ([]*scholarship.Scholarship, error) {
	result := make([]*scholarship.Scholarship, 0)
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func cgpaPtr(c *shared.CGPA) *float64 {
	if c == nil {
		return nil
	}
	v := float64(*c)
	return &v
}

func moneyPtr(m *shared.Money) *int64 {
	if m == nil {
		return nil
	}
	v := int64(*m)
	return &v
}
