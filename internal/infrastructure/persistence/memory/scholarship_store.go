// Package memory provides in-memory implementations of the domain
// repositories. Used by tests and by local development without Postgres.
// All stores are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ScholarshipStore is an in-memory scholarship.Repository.
type ScholarshipStore struct {
	mu    sync.RWMutex
	items map[string]*scholarship.Scholarship
}

// NewScholarshipStore creates an empty store.
func NewScholarshipStore() *ScholarshipStore {
	return &ScholarshipStore{items: make(map[string]*scholarship.Scholarship)}
}

// Create stores a new scholarship.
func (s *ScholarshipStore) Create(_ context.Context, sc *scholarship.Scholarship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[sc.ID]; ok {
		return shared.ErrScholarshipExists
	}
	s.items[sc.ID] = sc.Clone()
	return nil
}

// GetByID returns a scholarship by ID.
func (s *ScholarshipStore) GetByID(_ context.Context, id string) (*scholarship.Scholarship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.items[id]
	if !ok {
		return nil, shared.ErrScholarshipNotFound
	}
	return sc.Clone(), nil
}

// Update persists changes to an existing scholarship.
// FilledSeats is deliberately not copied from the caller's view: the seat
// counter moves only through CompareAndIncrementFilledSeats.
func (s *ScholarshipStore) Update(_ context.Context, sc *scholarship.Scholarship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[sc.ID]
	if !ok {
		return shared.ErrScholarshipNotFound
	}

	updated := sc.Clone()
	updated.FilledSeats = current.FilledSeats
	s.items[sc.ID] = updated
	return nil
}

// Delete removes a scholarship.
func (s *ScholarshipStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return shared.ErrScholarshipNotFound
	}
	delete(s.items, id)
	return nil
}

// List returns scholarships matching the filter, newest first.
func (s *ScholarshipStore) List(_ context.Context, filter scholarship.ListFilter) ([]*scholarship.Scholarship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*scholarship.Scholarship
	for _, sc := range s.items {
		if !filter.CollegeID.IsEmpty() && sc.CollegeID != filter.CollegeID {
			continue
		}
		if filter.Status != "" && sc.Status != filter.Status {
			continue
		}
		if filter.Category != "" && sc.Category != filter.Category {
			continue
		}
		matched = append(matched, sc.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, filter.Pagination), nil
}

// FindExpirable returns active scholarships whose deadline is before the
// given time.
func (s *ScholarshipStore) FindExpirable(_ context.Context, before time.Time) ([]*scholarship.Scholarship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*scholarship.Scholarship
	for _, sc := range s.items {
		if sc.Status != scholarship.StatusActive {
			continue
		}
		if sc.Deadline == nil || !sc.Deadline.Before(before) {
			continue
		}
		matched = append(matched, sc.Clone())
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// CompareAndIncrementFilledSeats atomically increments filled_seats by one,
// provided the stored value equals expected and capacity is not overrun.
func (s *ScholarshipStore) CompareAndIncrementFilledSeats(_ context.Context, id string, expected int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.items[id]
	if !ok {
		return shared.ErrScholarshipNotFound
	}
	if sc.FilledSeats != expected {
		return shared.ErrOptimisticLock
	}
	if sc.FilledSeats+1 > sc.TotalSeats {
		return shared.ErrCapacityExceeded
	}

	sc.FilledSeats++
	sc.UpdatedAt = time.Now().UTC()
	return nil
}

// paginate applies pagination bounds to a sorted slice.
func paginate[T any](items []T, p shared.Pagination) []T {
	offset := p.Offset()
	if offset >= len(items) {
		return []T{}
	}

	end := offset + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
