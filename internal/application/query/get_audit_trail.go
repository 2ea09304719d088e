package query

import (
	"context"
	"errors"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/audit"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AUDIT TRAIL QUERY
// Read side of the append-only audit log, newest first, with action counts
// for the dashboard summary.
// ══════════════════════════════════════════════════════════════════════════════

// GetAuditTrailQuery contains filters for an audit trail listing.
type GetAuditTrailQuery struct {
	// CollegeID restricts results to one tenant. Required.
	CollegeID string

	// Action filters by action kind (empty = all).
	Action string

	// EntityID filters by subject entity (empty = all).
	EntityID string

	// From bounds created_at from below (zero = unbounded).
	From time.Time

	// To bounds created_at from above (zero = unbounded).
	To time.Time

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of entries per page.
	PageSize int
}

// Validate validates the query.
func (q GetAuditTrailQuery) Validate() error {
	if q.CollegeID == "" {
		return errors.New("get_audit_trail: college_id is required")
	}
	return nil
}

// AuditEntryDTO is one audit entry in the response.
type AuditEntryDTO struct {
	ID         string                 `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// GetAuditTrailResult contains the listing plus per-action counts.
type GetAuditTrailResult struct {
	Entries      []AuditEntryDTO `json:"entries"`
	ActionCounts map[string]int  `json:"action_counts"`
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
}

// GetAuditTrailHandler handles the GetAuditTrailQuery.
type GetAuditTrailHandler struct {
	auditStore audit.Store
}

// NewGetAuditTrailHandler creates a new GetAuditTrailHandler.
func NewGetAuditTrailHandler(auditStore audit.Store) *GetAuditTrailHandler {
	return &GetAuditTrailHandler{auditStore: auditStore}
}

// Handle executes the query.
func (h *GetAuditTrailHandler) Handle(ctx context.Context, q GetAuditTrailQuery) (*GetAuditTrailResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("audit", "List", shared.ErrValidation, "validation failed", err)
	}

	pagination := shared.NewPagination(q.Page, q.PageSize)
	collegeID := shared.CollegeID(q.CollegeID)

	entries, err := h.auditStore.List(ctx, audit.ListFilter{
		CollegeID:  collegeID,
		Action:     audit.Action(q.Action),
		EntityID:   q.EntityID,
		Range:      shared.TimeRange{From: q.From, To: q.To},
		Pagination: pagination,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = AuditEntryDTO{
			ID:         e.ID,
			Action:     e.Action.String(),
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID,
			ActorID:    e.ActorID,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			CreatedAt:  e.CreatedAt,
		}
	}

	counts := make(map[string]int)
	if byAction, err := h.auditStore.CountByAction(ctx, collegeID); err == nil {
		for action, n := range byAction {
			counts[action.String()] = n
		}
	}

	return &GetAuditTrailResult{
		Entries:      dtos,
		ActionCounts: counts,
		Page:         pagination.Page,
		PageSize:     pagination.Limit(),
	}, nil
}
