// Package http implements the REST API for the scholarship allocation engine.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/application/command"
	"github.com/sujithkumar505/college-admin-hub/internal/application/query"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/pkg/logger"
	"github.com/sujithkumar505/college-admin-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "College Admin Hub API",
		"version":     "v1",
		"description": "REST API for scholarship management and merit-based seat allocation",
		"endpoints": map[string]string{
			"health":       "/health",
			"login":        "/api/v1/auth/login",
			"scholarships": "/api/v1/scholarships",
			"applications": "/api/v1/applications",
			"audit":        "/api/v1/audit",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION HANDLER
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AdminID   string `json:"admin_id"`
	CollegeID string `json:"college_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.AuthenticateHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Authentication not configured")
		return
	}

	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AuthenticateHandler.Handle(r.Context(), command.AuthenticateAdminCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: getClientIP(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AdminID:   result.Admin.ID,
		CollegeID: result.Admin.CollegeID.String(),
		FullName:  result.Admin.FullName,
		Email:     result.Admin.Email,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHOLARSHIP HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListScholarships handles GET /api/v1/scholarships
func (s *Server) handleListScholarships(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetScholarshipsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scholarship listing not configured")
		return
	}

	q := query.GetScholarshipsQuery{
		CollegeID: getQueryParam(r, "college_id", ""),
		Status:    getQueryParam(r, "status", ""),
		Category:  getQueryParam(r, "category", ""),
		Page:      getQueryParamInt(r, "page", 1),
		PageSize:  getQueryParamInt(r, "page_size", 20),
	}

	result, err := s.deps.GetScholarshipsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list scholarships")
		return
	}

	meta := &ResponseMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

type createScholarshipRequest struct {
	CollegeID   string     `json:"college_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Amount      int64      `json:"amount"`
	TotalSeats  int        `json:"total_seats"`
	MinCGPA     *float64   `json:"min_cgpa,omitempty"`
	MaxIncome   *int64     `json:"max_income,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`

	// DeadlineDate is a bare date (YYYY-MM-DD) announced in campus time.
	// It closes the scholarship at the end of that campus day.
	DeadlineDate string `json:"deadline_date,omitempty"`

	Activate bool   `json:"activate"`
	ActorID  string `json:"actor_id"`
}

// handleCreateScholarship handles POST /api/v1/scholarships
func (s *Server) handleCreateScholarship(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateScholarshipHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scholarship creation not configured")
		return
	}

	var req createScholarshipRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Deadline == nil && req.DeadlineDate != "" {
		deadline, err := timeutil.DeadlineFromDate(req.DeadlineDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "deadline_date must be YYYY-MM-DD")
			return
		}
		req.Deadline = &deadline
	}

	result, err := s.deps.CreateScholarshipHandler.Handle(r.Context(), command.CreateScholarshipCommand{
		CollegeID:     req.CollegeID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Amount:        req.Amount,
		TotalSeats:    req.TotalSeats,
		MinCGPA:       req.MinCGPA,
		MaxIncome:     req.MaxIncome,
		Deadline:      req.Deadline,
		Activate:      req.Activate,
		ActorID:       req.ActorID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to create scholarship")
		return
	}

	writeJSON(w, http.StatusCreated, result.Scholarship)
}

type updateScholarshipRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Amount      *int64     `json:"amount,omitempty"`
	TotalSeats  *int       `json:"total_seats,omitempty"`
	MinCGPA     *float64   `json:"min_cgpa,omitempty"`
	MaxIncome   *int64     `json:"max_income,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ActorID     string     `json:"actor_id"`
}

// handleUpdateScholarship handles PATCH /api/v1/scholarships/{id}
func (s *Server) handleUpdateScholarship(w http.ResponseWriter, r *http.Request) {
	if s.deps.UpdateScholarshipHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scholarship update not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Scholarship ID is required")
		return
	}

	var req updateScholarshipRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateScholarshipHandler.Handle(r.Context(), command.UpdateScholarshipCommand{
		ScholarshipID: id,
		Name:          req.Name,
		Description:   req.Description,
		Amount:        req.Amount,
		TotalSeats:    req.TotalSeats,
		MinCGPA:       req.MinCGPA,
		MaxIncome:     req.MaxIncome,
		Deadline:      req.Deadline,
		ActorID:       req.ActorID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to update scholarship")
		return
	}

	writeJSON(w, http.StatusOK, result.Scholarship)
}

// handleDeleteScholarship handles DELETE /api/v1/scholarships/{id}
func (s *Server) handleDeleteScholarship(w http.ResponseWriter, r *http.Request) {
	if s.deps.DeleteScholarshipHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Scholarship deletion not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Scholarship ID is required")
		return
	}

	err := s.deps.DeleteScholarshipHandler.Handle(r.Context(), command.DeleteScholarshipCommand{
		ScholarshipID: id,
		ActorID:       getQueryParam(r, "actor_id", ""),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to delete scholarship")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// handleRunAllocation handles GET /api/v1/scholarships/{id}/allocation
func (s *Server) handleRunAllocation(w http.ResponseWriter, r *http.Request) {
	if s.deps.RunAllocationHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Allocation not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Scholarship ID is required")
		return
	}

	result, err := s.deps.RunAllocationHandler.Handle(r.Context(), query.RunAllocationQuery{
		ScholarshipID: id,
		ActorID:       getQueryParam(r, "actor_id", ""),
		SkipCache:     getQueryParamBool(r, "fresh"),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to run allocation")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type submitApplicationRequest struct {
	ScholarshipID string   `json:"scholarship_id"`
	CollegeID     string   `json:"college_id"`
	StudentName   string   `json:"student_name"`
	StudentRoll   string   `json:"student_roll"`
	StudentEmail  string   `json:"student_email,omitempty"`
	CGPA          float64  `json:"cgpa"`
	FamilyIncome  int64    `json:"family_income"`
	Department    string   `json:"department"`
	YearOfStudy   int      `json:"year_of_study"`
	Documents     []string `json:"documents,omitempty"`
	EssayRating   int      `json:"essay_rating"`
}

// handleSubmitApplication handles POST /api/v1/applications
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	if s.deps.SubmitApplicationHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Application intake not configured")
		return
	}

	var req submitApplicationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitApplicationHandler.Handle(r.Context(), command.SubmitApplicationCommand{
		ScholarshipID: req.ScholarshipID,
		CollegeID:     req.CollegeID,
		StudentName:   req.StudentName,
		StudentRoll:   req.StudentRoll,
		StudentEmail:  req.StudentEmail,
		CGPA:          req.CGPA,
		FamilyIncome:  req.FamilyIncome,
		Department:    req.Department,
		YearOfStudy:   req.YearOfStudy,
		Documents:     req.Documents,
		EssayRating:   req.EssayRating,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to submit application")
		return
	}

	writeJSON(w, http.StatusCreated, result.Application)
}

// handleListApplications handles GET /api/v1/applications
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetApplicationsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Application listing not configured")
		return
	}

	q := query.GetApplicationsQuery{
		CollegeID:     getQueryParam(r, "college_id", ""),
		ScholarshipID: getQueryParam(r, "scholarship_id", ""),
		Status:        getQueryParam(r, "status", ""),
		Search:        getQueryParam(r, "search", ""),
		Page:          getQueryParamInt(r, "page", 1),
		PageSize:      getQueryParamInt(r, "page_size", 20),
	}

	result, err := s.deps.GetApplicationsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list applications")
		return
	}

	meta := &ResponseMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

type reviewRequest struct {
	ReviewerID string `json:"reviewer_id"`
	Reason     string `json:"reason,omitempty"`
}

// handleApproveApplication handles POST /api/v1/applications/{id}/approve
func (s *Server) handleApproveApplication(w http.ResponseWriter, r *http.Request) {
	if s.deps.ApproveHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Approval not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Application ID is required")
		return
	}

	var req reviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ApproveHandler.Handle(r.Context(), command.ApproveApplicationCommand{
		ApplicationID: id,
		ReviewerID:    req.ReviewerID,
		IPAddress:     getClientIP(r),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to approve application")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRejectApplication handles POST /api/v1/applications/{id}/reject
func (s *Server) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	if s.deps.RejectHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Rejection not configured")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Application ID is required")
		return
	}

	var req reviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RejectHandler.Handle(r.Context(), command.RejectApplicationCommand{
		ApplicationID: id,
		ReviewerID:    req.ReviewerID,
		Reason:        req.Reason,
		IPAddress:     getClientIP(r),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to reject application")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type bulkReviewRequest struct {
	ApplicationIDs []string `json:"application_ids"`
	Decision       string   `json:"decision"`
	ReviewerID     string   `json:"reviewer_id"`
}

type bulkReviewResponse struct {
	TotalCount   int               `json:"total_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	Errors       map[string]string `json:"errors,omitempty"`
}

// handleBulkReview handles POST /api/v1/applications/bulk-review
func (s *Server) handleBulkReview(w http.ResponseWriter, r *http.Request) {
	if s.deps.BulkReviewHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Bulk review not configured")
		return
	}

	var req bulkReviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.BulkReviewHandler.Handle(r.Context(), command.BulkReviewCommand{
		ApplicationIDs: req.ApplicationIDs,
		Decision:       command.ReviewDecision(req.Decision),
		ReviewerID:     req.ReviewerID,
		IPAddress:      getClientIP(r),
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to bulk review")
		return
	}

	resp := bulkReviewResponse{
		TotalCount:   result.TotalCount,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for id, ferr := range result.Errors {
			resp.Errors[id] = ferr.Error()
		}
	}

	// Partial failure still returns 200; per-item errors are in the body.
	writeJSON(w, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT TRAIL HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAuditTrail handles GET /api/v1/audit
func (s *Server) handleGetAuditTrail(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAuditTrailHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Audit trail not configured")
		return
	}

	q := query.GetAuditTrailQuery{
		CollegeID: getQueryParam(r, "college_id", ""),
		Action:    getQueryParam(r, "action", ""),
		EntityID:  getQueryParam(r, "entity_id", ""),
		Page:      getQueryParamInt(r, "page", 1),
		PageSize:  getQueryParamInt(r, "page_size", 20),
	}

	// Time filters accept RFC3339 or a bare campus date (YYYY-MM-DD).
	if from := getQueryParam(r, "from", ""); from != "" {
		t, ok := parseTimeFilter(from, false)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "from must be RFC3339 or YYYY-MM-DD")
			return
		}
		q.From = t
	}
	if to := getQueryParam(r, "to", ""); to != "" {
		t, ok := parseTimeFilter(to, true)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "to must be RFC3339 or YYYY-MM-DD")
			return
		}
		q.To = t
	}

	result, err := s.deps.GetAuditTrailHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get audit trail")
		return
	}

	meta := &ResponseMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// parseTimeFilter parses an RFC3339 timestamp or a bare campus date.
// A bare date expands to the start of that campus day, or the end of it
// when endOfDay is set.
func parseTimeFilter(value string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}

	day, err := timeutil.ParseDateCampus(value)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		return timeutil.EndOfDay(day).UTC(), true
	}
	return timeutil.StartOfDay(day).UTC(), true
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return false
	}
	return true
}

// writeDomainError maps a domain error to an HTTP status and writes it.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	status, code := statusForError(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error(logMsg, logger.Err(err), logger.String("request_id", getRequestID(r.Context())))
	}

	// Credential failures get a fixed message so the response never reveals
	// which emails exist.
	if errors.Is(err, shared.ErrUnauthorized) {
		writeJSONError(w, status, code, "Invalid credentials")
		return
	}

	writeJSONError(w, status, code, err.Error())
}

// statusForError translates domain error kinds into HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case shared.IsCapacityExceeded(err):
		return http.StatusConflict, "capacity_exceeded"
	case shared.IsInvalidTransition(err), errors.Is(err, shared.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, shared.ErrOptimisticLock), errors.Is(err, shared.ErrConcurrentModification):
		return http.StatusConflict, "conflict"
	case errors.Is(err, command.ErrDeadlinePassed):
		return http.StatusUnprocessableEntity, "deadline_passed"
	case errors.Is(err, command.ErrSeatReduction):
		return http.StatusUnprocessableEntity, "seat_reduction"
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrExternalService):
		return http.StatusServiceUnavailable, "service_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
