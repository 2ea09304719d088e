package query

import (
	"context"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET APPLICATIONS QUERY
// Paginated application listing with status, scholarship, and text filters.
// ══════════════════════════════════════════════════════════════════════════════

// GetApplicationsQuery contains filters for an application listing.
type GetApplicationsQuery struct {
	// CollegeID restricts results to one tenant.
	CollegeID string

	// ScholarshipID filters by scholarship (empty = all).
	ScholarshipID string

	// Status filters by review state (empty = all).
	Status string

	// Search matches against student name or roll number (empty = all).
	Search string

	// Page is the 1-based page number.
	Page int

	// PageSize is the number of entries per page.
	PageSize int
}

// ApplicationDTO is one application in the response.
type ApplicationDTO struct {
	ID            string     `json:"id"`
	ScholarshipID string     `json:"scholarship_id"`
	StudentName   string     `json:"student_name"`
	StudentRoll   string     `json:"student_roll"`
	Department    string     `json:"department"`
	YearOfStudy   int        `json:"year_of_study"`
	CGPA          float64    `json:"cgpa"`
	FamilyIncome  int64      `json:"family_income"`
	Score         int        `json:"score"`
	ScoreBand     string     `json:"score_band"`
	Academic      int        `json:"academic"`
	Financial     int        `json:"financial"`
	Extracurr     int        `json:"extracurricular"`
	Essay         int        `json:"essay"`
	Status        string     `json:"status"`
	AppliedAt     time.Time  `json:"applied_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
}

// GetApplicationsResult contains the listing.
type GetApplicationsResult struct {
	Applications []ApplicationDTO `json:"applications"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

// GetApplicationsHandler handles the GetApplicationsQuery.
type GetApplicationsHandler struct {
	applicationRepo application.Repository
}

// NewGetApplicationsHandler creates a new GetApplicationsHandler.
func NewGetApplicationsHandler(applicationRepo application.Repository) *GetApplicationsHandler {
	return &GetApplicationsHandler{applicationRepo: applicationRepo}
}

// Handle executes the query.
func (h *GetApplicationsHandler) Handle(ctx context.Context, q GetApplicationsQuery) (*GetApplicationsResult, error) {
	pagination := shared.NewPagination(q.Page, q.PageSize)

	apps, err := h.applicationRepo.List(ctx, application.ListFilter{
		CollegeID:     shared.CollegeID(q.CollegeID),
		ScholarshipID: q.ScholarshipID,
		Status:        application.Status(q.Status),
		Search:        q.Search,
		Pagination:    pagination,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]ApplicationDTO, len(apps))
	for i, a := range apps {
		dtos[i] = toApplicationDTO(a)
	}

	return &GetApplicationsResult{
		Applications: dtos,
		Page:         pagination.Page,
		PageSize:     pagination.Limit(),
	}, nil
}

func toApplicationDTO(a *application.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:            a.ID,
		ScholarshipID: a.ScholarshipID,
		StudentName:   a.StudentName,
		StudentRoll:   a.StudentRoll.String(),
		Department:    a.Department,
		YearOfStudy:   a.YearOfStudy,
		CGPA:          a.CGPA.Float64(),
		FamilyIncome:  a.FamilyIncome.Int64(),
		Score:         a.Score.Int(),
		ScoreBand:     a.Score.Band(),
		Academic:      a.Breakdown.Academic,
		Financial:     a.Breakdown.Financial,
		Extracurr:     a.Breakdown.Extracurricular,
		Essay:         a.Breakdown.Essay,
		Status:        string(a.Status),
		AppliedAt:     a.AppliedAt,
		ReviewedAt:    a.ReviewedAt,
		ReviewedBy:    a.ReviewedBy,
	}
}
