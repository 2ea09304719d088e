package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ApplicationStore is an in-memory application.Repository.
type ApplicationStore struct {
	mu    sync.RWMutex
	items map[string]*application.Application
}

// NewApplicationStore creates an empty store.
func NewApplicationStore() *ApplicationStore {
	return &ApplicationStore{items: make(map[string]*application.Application)}
}

// Create stores a new application.
func (s *ApplicationStore) Create(_ context.Context, a *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[a.ID]; ok {
		return shared.ErrApplicationExists
	}
	s.items[a.ID] = a.Clone()
	return nil
}

// GetByID returns an application by ID.
func (s *ApplicationStore) GetByID(_ context.Context, id string) (*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return nil, shared.ErrApplicationNotFound
	}
	return a.Clone(), nil
}

// Update persists changes to an existing application.
func (s *ApplicationStore) Update(_ context.Context, a *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[a.ID]; !ok {
		return shared.ErrApplicationNotFound
	}
	s.items[a.ID] = a.Clone()
	return nil
}

// ListByScholarship returns all applications for a scholarship, ordered by
// applied_at ascending.
func (s *ApplicationStore) ListByScholarship(_ context.Context, scholarshipID string) ([]*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*application.Application
	for _, a := range s.items {
		if a.ScholarshipID == scholarshipID {
			matched = append(matched, a.Clone())
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].AppliedAt.Equal(matched[j].AppliedAt) {
			return matched[i].AppliedAt.Before(matched[j].AppliedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}

// List returns applications matching the filter, ordered by applied_at
// ascending.
func (s *ApplicationStore) List(_ context.Context, filter application.ListFilter) ([]*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []*application.Application
	for _, a := range s.items {
		if !filter.CollegeID.IsEmpty() && a.CollegeID != filter.CollegeID {
			continue
		}
		if filter.ScholarshipID != "" && a.ScholarshipID != filter.ScholarshipID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.StudentName), search) &&
			!strings.Contains(strings.ToLower(a.StudentRoll.String()), search) {
			continue
		}
		matched = append(matched, a.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].AppliedAt.Equal(matched[j].AppliedAt) {
			return matched[i].AppliedAt.Before(matched[j].AppliedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, filter.Pagination), nil
}

// CountByStatus returns the number of applications for a scholarship in the
// given status.
func (s *ApplicationStore) CountByStatus(_ context.Context, scholarshipID string, status application.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.items {
		if a.ScholarshipID == scholarshipID && a.Status == status {
			count++
		}
	}
	return count, nil
}

// SetStatus transitions an application's status, guarded by the expected
// previous status.
func (s *ApplicationStore) SetStatus(_ context.Context, id string, expected, next application.Status, reviewerID string, reviewedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return shared.ErrApplicationNotFound
	}
	if a.Status != expected {
		return shared.ErrNotPending
	}

	a.Status = next
	a.ReviewedBy = reviewerID
	at := reviewedAt
	a.ReviewedAt = &at
	return nil
}
