package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/admin"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AdminRepository implements admin.Repository for PostgreSQL.
type AdminRepository struct {
	conn *Connection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(conn *Connection) *AdminRepository {
	return &AdminRepository{conn: conn}
}

const adminColumns = `
	id, college_id, full_name, email, password_hash, created_at, updated_at
`

// Create stores a new admin profile.
func (r *AdminRepository) Create(ctx context.Context, p *admin.Profile) error {
	query := `
		INSERT INTO admin_profiles (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.CollegeID.String(),
		p.FullName,
		p.Email,
		p.PasswordHash,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAdminExists
		}
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	return nil
}

// GetByID returns a profile by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*admin.Profile, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_profiles WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanAdmin(row)
}

// GetByEmail returns a profile by login email. Emails are stored lowercased.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*admin.Profile, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_profiles WHERE email = $1`

	row := r.conn.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanAdmin(row)
}

func scanAdmin(row pgx.Row) (*admin.Profile, error) {
	var (
		p         admin.Profile
		collegeID string
	)

	err := row.Scan(
		&p.ID,
		&collegeID,
		&p.FullName,
		&p.Email,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin profile: %w", err)
	}

	p.CollegeID = shared.CollegeID(collegeID)
	return &p, nil
}
