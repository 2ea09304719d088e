package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/audit"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AuditRepository implements audit.Store for PostgreSQL. The table is
// append-only; no update or delete statement exists here.
type AuditRepository struct {
	conn *Connection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(conn *Connection) *AuditRepository {
	return &AuditRepository{conn: conn}
}

// Append records one audit entry.
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	query := `
		INSERT INTO audit_log (
			id, college_id, action, entity_type, entity_id,
			actor_id, details, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		entry.ID,
		entry.CollegeID.String(),
		string(entry.Action),
		string(entry.EntityType),
		entry.EntityID,
		entry.ActorID,
		detailsJSON,
		entry.IPAddress,
		entry.CreatedAt,
	)
	if err != nil {
		return shared.WrapError("audit", "Append", shared.ErrExternalService, "failed to append audit entry", err)
	}

	return nil
}

// List returns entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, college_id, action, entity_type, entity_id,
		       actor_id, details, ip_address, created_at
		FROM audit_log WHERE 1=1
	`)

	args := make([]interface{}, 0, 5)

	if !filter.CollegeID.IsEmpty() {
		args = append(args, filter.CollegeID.String())
		fmt.Fprintf(&sb, " AND college_id = $%d", len(args))
	}
	if filter.Action != "" {
		args = append(args, string(filter.Action))
		fmt.Fprintf(&sb, " AND action = $%d", len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		fmt.Fprintf(&sb, " AND entity_id = $%d", len(args))
	}
	if !filter.Range.IsZero() {
		args = append(args, filter.Range.From)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
		args = append(args, filter.Range.To)
		fmt.Fprintf(&sb, " AND created_at < $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC, id")

	args = append(args, filter.Pagination.Limit())
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, filter.Pagination.Offset())
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	result := make([]*audit.Entry, 0)
	for rows.Next() {
		var (
			entry       audit.Entry
			collegeID   string
			action      string
			entityType  string
			detailsJSON []byte
		)

		err := rows.Scan(
			&entry.ID,
			&collegeID,
			&action,
			&entityType,
			&entry.EntityID,
			&entry.ActorID,
			&detailsJSON,
			&entry.IPAddress,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
		}

		entry.CollegeID = shared.CollegeID(collegeID)
		entry.Action = audit.Action(action)
		entry.EntityType = audit.EntityType(entityType)

		result = append(result, &entry)
	}

	return result, rows.Err()
}

// CountByAction returns entry counts grouped by action for one college.
func (r *AuditRepository) CountByAction(ctx context.Context, collegeID shared.CollegeID) (map[audit.Action]int, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT action, COUNT(*) FROM audit_log WHERE college_id = $1 GROUP BY action`,
		collegeID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[audit.Action]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[audit.Action(action)] = count
	}

	return counts, rows.Err()
}
