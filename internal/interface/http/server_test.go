package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujithkumar505/college-admin-hub/internal/application/command"
	"github.com/sujithkumar505/college-admin-hub/internal/application/query"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/memory"
)

const testCollegeID = "2f1e9c1a-3b44-4c55-9d66-7e8899aabbcc"

// newTestServer wires a Server against in-memory stores.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()
	auditStore := memory.NewAuditStore()
	scorer := allocation.NewCompositeScorer()

	deps := Dependencies{
		CreateScholarshipHandler: command.NewCreateScholarshipHandler(scholarships, nil),
		UpdateScholarshipHandler: command.NewUpdateScholarshipHandler(scholarships, nil, nil),
		DeleteScholarshipHandler: command.NewDeleteScholarshipHandler(scholarships, applications, nil, nil),
		SubmitApplicationHandler: command.NewSubmitApplicationHandler(applications, scholarships, scorer, nil, nil),
		ApproveHandler:           command.NewApproveApplicationHandler(applications, scholarships, nil, nil),
		RejectHandler:            command.NewRejectApplicationHandler(applications, nil, nil),
		GetScholarshipsHandler:   query.NewGetScholarshipsHandler(scholarships, applications),
		GetApplicationsHandler:   query.NewGetApplicationsHandler(applications),
		RunAllocationHandler:     query.NewRunAllocationHandler(scholarships, applications, scorer, nil, nil),
		GetAuditTrailHandler:     query.NewGetAuditTrailHandler(auditStore),
	}
	deps.BulkReviewHandler = command.NewBulkReviewHandler(deps.ApproveHandler, deps.RejectHandler)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, deps)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func createScholarship(t *testing.T, s *Server, seats int) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/scholarships", map[string]interface{}{
		"college_id":  testCollegeID,
		"name":        "Merit Excellence Award",
		"category":    "merit",
		"amount":      50000,
		"total_seats": seats,
		"activate":    true,
		"actor_id":    "admin-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	id, _ := data["ID"].(string)
	require.NotEmpty(t, id)
	return id
}

func submitApplication(t *testing.T, s *Server, scholarshipID, roll string, cgpa float64) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/applications", map[string]interface{}{
		"scholarship_id": scholarshipID,
		"college_id":     testCollegeID,
		"student_name":   "Priya Sharma",
		"student_roll":   roll,
		"cgpa":           cgpa,
		"family_income":  300000,
		"department":     "Computer Science",
		"year_of_study":  2,
		"essay_rating":   7,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	id, _ := data["ID"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestServer_HealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/healthz", "/ready", "/live"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServer_ScholarshipLifecycle(t *testing.T) {
	s := newTestServer(t)

	id := createScholarship(t, s, 2)

	t.Run("list includes the scholarship", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/v1/scholarships?college_id="+testCollegeID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Merit Excellence Award")
	})

	t.Run("patch updates the name", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/v1/scholarships/"+id, map[string]interface{}{
			"name":     "Merit Excellence Award 2025",
			"actor_id": "admin-1",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown scholarship is 404", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/v1/scholarships/missing", map[string]interface{}{
			"actor_id": "admin-1",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_ReviewFlow(t *testing.T) {
	s := newTestServer(t)

	scholarshipID := createScholarship(t, s, 1)
	first := submitApplication(t, s, scholarshipID, "CS2024001", 9.1)
	second := submitApplication(t, s, scholarshipID, "CS2024002", 8.4)

	t.Run("allocation ranks both candidates", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet,
			fmt.Sprintf("/api/v1/scholarships/%s/allocation", scholarshipID), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		data := decodeData(t, rec)
		ranked, _ := data["ranked"].([]interface{})
		assert.Len(t, ranked, 2)
		assert.EqualValues(t, 1, data["proposed_count"])
	})

	t.Run("approve consumes the only seat", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost,
			fmt.Sprintf("/api/v1/applications/%s/approve", first),
			map[string]interface{}{"reviewer_id": "admin-1"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("second approval hits capacity", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost,
			fmt.Sprintf("/api/v1/applications/%s/approve", second),
			map[string]interface{}{"reviewer_id": "admin-1"})
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("reject after capacity still works", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost,
			fmt.Sprintf("/api/v1/applications/%s/reject", second),
			map[string]interface{}{"reviewer_id": "admin-1", "reason": "seats exhausted"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("re-review of a settled application conflicts", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost,
			fmt.Sprintf("/api/v1/applications/%s/approve", second),
			map[string]interface{}{"reviewer_id": "admin-1"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_BulkReview(t *testing.T) {
	s := newTestServer(t)

	scholarshipID := createScholarship(t, s, 5)
	first := submitApplication(t, s, scholarshipID, "CS2024001", 9.1)
	second := submitApplication(t, s, scholarshipID, "CS2024002", 8.4)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/applications/bulk-review", map[string]interface{}{
		"application_ids": []string{first, second, "missing"},
		"decision":        "approve",
		"reviewer_id":     "admin-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.EqualValues(t, 3, data["total_count"])
	assert.EqualValues(t, 2, data["success_count"])
	assert.EqualValues(t, 1, data["failed_count"])
}

func TestServer_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing required fields", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/v1/scholarships", map[string]interface{}{
			"name": "No College",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{broken"))
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad audit time filter", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/v1/audit?college_id="+testCollegeID+"&from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_APIKeyProtection(t *testing.T) {
	scholarships := memory.NewScholarshipStore()
	applications := memory.NewApplicationStore()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.APIKeys = []string{"secret-key"}

	s := NewServer(cfg, Dependencies{
		GetScholarshipsHandler: query.NewGetScholarshipsHandler(scholarships, applications),
	})

	t.Run("rejects missing key", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/v1/scholarships", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scholarships", nil)
		req.Header.Set("X-API-Key", "secret-key")
		rec := httptest.NewRecorder()
		s.httpServer.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_RateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Other clients have their own window.
	assert.True(t, rl.Allow("5.6.7.8"))
}
