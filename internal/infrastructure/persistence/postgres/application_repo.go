package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ApplicationRepository implements application.Repository for PostgreSQL.
type ApplicationRepository struct {
	conn *Connection
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(conn *Connection) *ApplicationRepository {
	return &ApplicationRepository{conn: conn}
}

const applicationColumns = `
	id, scholarship_id, college_id, student_name, student_roll, student_email,
	cgpa, family_income, department, year_of_study, documents,
	score, score_academic, score_financial, score_extracurricular, score_essay,
	essay_rating, status, applied_at, reviewed_at, reviewed_by
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create stores a new application.
func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	docsJSON, err := json.Marshal(a.Documents)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		a.ID,
		a.ScholarshipID,
		a.CollegeID.String(),
		a.StudentName,
		a.StudentRoll.String(),
		a.StudentEmail,
		float64(a.CGPA),
		int64(a.FamilyIncome),
		a.Department,
		a.YearOfStudy,
		docsJSON,
		int(a.Score),
		a.Breakdown.Academic,
		a.Breakdown.Financial,
		a.Breakdown.Extracurricular,
		a.Breakdown.Essay,
		a.EssayRating,
		string(a.Status),
		a.AppliedAt,
		a.ReviewedAt,
		a.ReviewedBy,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrApplicationExists
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID returns an application by ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanApplication(row)
}

// Update persists changes to an existing application.
func (r *ApplicationRepository) Update(ctx context.Context, a *application.Application) error {
	query := `
		UPDATE applications SET
			student_name = $1,
			student_email = $2,
			cgpa = $3,
			family_income = $4,
			department = $5,
			year_of_study = $6,
			documents = $7,
			score = $8,
			score_academic = $9,
			score_financial = $10,
			score_extracurricular = $11,
			score_essay = $12,
			essay_rating = $13,
			status = $14,
			reviewed_at = $15,
			reviewed_by = $16
		WHERE id = $17
	`

	docsJSON, err := json.Marshal(a.Documents)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	result, err := r.conn.Exec(ctx, query,
		a.StudentName,
		a.StudentEmail,
		float64(a.CGPA),
		int64(a.FamilyIncome),
		a.Department,
		a.YearOfStudy,
		docsJSON,
		int(a.Score),
		a.Breakdown.Academic,
		a.Breakdown.Financial,
		a.Breakdown.Extracurricular,
		a.Breakdown.Essay,
		a.EssayRating,
		string(a.Status),
		a.ReviewedAt,
		a.ReviewedBy,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrApplicationNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// ListByScholarship returns all applications for a scholarship in submission
// order. The (applied_at, id) ordering matches the ranker's tie-breaking.
func (r *ApplicationRepository) ListByScholarship(ctx context.Context, scholarshipID string) ([]*application.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE scholarship_id = $1
		ORDER BY applied_at, id
	`

	rows, err := r.conn.Query(ctx, query, scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

// List returns applications matching the filter, newest submissions first.
func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter) ([]*application.Application, error) {
	query, args := buildApplicationListQuery(filter)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

// buildApplicationListQuery assembles the filtered SELECT with positional
// placeholders numbered in append order. The search term matches name and
// roll number through one shared placeholder.
func buildApplicationListQuery(filter application.ListFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`)

	args := make([]interface{}, 0, 5)

	if !filter.CollegeID.IsEmpty() {
		args = append(args, filter.CollegeID.String())
		fmt.Fprintf(&sb, " AND college_id = $%d", len(args))
	}
	if filter.ScholarshipID != "" {
		args = append(args, filter.ScholarshipID)
		fmt.Fprintf(&sb, " AND scholarship_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		fmt.Fprintf(&sb, " AND (LOWER(student_name) LIKE $%d OR LOWER(student_roll) LIKE $%d)", len(args), len(args))
	}

	sb.WriteString(" ORDER BY applied_at, id")

	args = append(args, filter.Pagination.Limit())
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, filter.Pagination.Offset())
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}

// CountByStatus returns the number of applications for a scholarship in the
// given status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, scholarshipID string, status application.Status) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE scholarship_id = $1 AND status = $2`,
		scholarshipID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Guarded Status Write
// ─────────────────────────────────────────────────────────────────────────────

// SetStatus transitions an application's status with the expected previous
// status in the WHERE clause. A transition that already happened elsewhere
// matches zero rows and reports shared.ErrNotPending, so a lost race never
// double-applies.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id string, expected, next application.Status, reviewerID string, reviewedAt time.Time) error {
	query := `
		UPDATE applications
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.conn.Exec(ctx, query,
		string(next),
		reviewerID,
		reviewedAt,
		id,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return shared.ErrApplicationNotFound
	}

	return shared.ErrNotPending
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanApplication(row pgx.Row) (*application.Application, error) {
	var (
		a            application.Application
		collegeID    string
		studentRoll  string
		cgpa         float64
		familyIncome int64
		docsJSON     []byte
		score        int
		status       string
	)

	err := row.Scan(
		&a.ID,
		&a.ScholarshipID,
		&collegeID,
		&a.StudentName,
		&studentRoll,
		&a.StudentEmail,
		&cgpa,
		&familyIncome,
		&a.Department,
		&a.YearOfStudy,
		&docsJSON,
		&score,
		&a.Breakdown.Academic,
		&a.Breakdown.Financial,
		&a.Breakdown.Extracurricular,
		&a.Breakdown.Essay,
		&a.EssayRating,
		&status,
		&a.AppliedAt,
		&a.ReviewedAt,
		&a.ReviewedBy,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	if err := json.Unmarshal(docsJSON, &a.Documents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}

	a.CollegeID = shared.CollegeID(collegeID)
	a.StudentRoll = shared.RollNumber(studentRoll)
	a.CGPA = shared.CGPA(cgpa)
	a.FamilyIncome = shared.Money(familyIncome)
	a.Score = shared.Score(score)
	a.Status = application.Status(status)

	// Imported rows may carry a scalar score with no stored components.
	// Reconstruct a display breakdown so the API never shows a scored
	// application with an all-zero split.
	if score > 0 && a.Breakdown.Sum() == 0 {
		a.Breakdown = application.SplitScore(a.Score)
	}

	return &a, nil
}

func scanApplications(rows pgx.Rows) ([]*application.Application, error) {
	result := make([]*application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
