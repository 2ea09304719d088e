package query

import (
	"context"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SCHOLARSHIPS QUERY
// Paginated scholarship listing with per-row seat occupancy and pending
// application counts for the dashboard.
// ══════════════════════════════════════════════════════════════════════════════

// GetScholarshipsQuery contains filters for a scholarship listing.
type GetScholarshipsQuery struct {
	// CollegeID restricts results to one tenant.
	CollegeID string

	// Status filters by lifecycle state (empty = all).
	Status string

	// Category filters by award basis (empty = all).
	Category string

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of entries per page.
	PageSize int
}

// ScholarshipDTO is one scholarship in the response.
type ScholarshipDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category"`
	Amount         int64      `json:"amount"`
	TotalSeats     int        `json:"total_seats"`
	FilledSeats    int        `json:"filled_seats"`
	RemainingSeats int        `json:"remaining_seats"`
	MinCGPA        *float64   `json:"min_cgpa,omitempty"`
	MaxIncome      *int64     `json:"max_income,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Status         string     `json:"status"`
	PendingCount   int        `json:"pending_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

// GetScholarshipsResult contains the listing.
type GetScholarshipsResult struct {
	Scholarships []ScholarshipDTO `json:"scholarships"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

// GetScholarshipsHandler handles the GetScholarshipsQuery.
type GetScholarshipsHandler struct {
	scholarshipRepo scholarship.Repository
	applicationRepo application.Repository
}

// NewGetScholarshipsHandler creates a new GetScholarshipsHandler.
func NewGetScholarshipsHandler(
	scholarshipRepo scholarship.Repository,
	applicationRepo application.Repository,
) *GetScholarshipsHandler {
	return &GetScholarshipsHandler{
		scholarshipRepo: scholarshipRepo,
		applicationRepo: applicationRepo,
	}
}

// Handle executes the query.
func (h *GetScholarshipsHandler) Handle(ctx context.Context, q GetScholarshipsQuery) (*GetScholarshipsResult, error) {
	pagination := shared.NewPagination(q.Page, q.PageSize)

	list, err := h.scholarshipRepo.List(ctx, scholarship.ListFilter{
		CollegeID:  shared.CollegeID(q.CollegeID),
		Status:     scholarship.Status(q.Status),
		Category:   scholarship.Category(q.Category),
		Pagination: pagination,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]ScholarshipDTO, len(list))
	for i, s := range list {
		dto := ScholarshipDTO{
			ID:             s.ID,
			Name:           s.Name,
			Description:    s.Description,
			Category:       s.Category.String(),
			Amount:         s.Amount.Int64(),
			TotalSeats:     s.TotalSeats,
			FilledSeats:    s.FilledSeats,
			RemainingSeats: s.RemainingSeats(),
			Deadline:       s.Deadline,
			Status:         string(s.Status),
			CreatedAt:      s.CreatedAt,
		}
		if s.MinCGPA != nil {
			v := s.MinCGPA.Float64()
			dto.MinCGPA = &v
		}
		if s.MaxIncome != nil {
			v := s.MaxIncome.Int64()
			dto.MaxIncome = &v
		}

		// Pending counts are best-effort decoration; a counting failure
		// should not break the listing.
		if pending, err := h.applicationRepo.CountByStatus(ctx, s.ID, application.StatusPending); err == nil {
			dto.PendingCount = pending
		}

		dtos[i] = dto
	}

	return &GetScholarshipsResult{
		Scholarships: dtos,
		Page:         pagination.Page,
		PageSize:     pagination.Limit(),
	}, nil
}
