package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/audit"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// AuditStore is an in-memory audit.Store. Append-only; entries are never
// mutated or removed.
type AuditStore struct {
	mu      sync.RWMutex
	entries []*audit.Entry
}

// NewAuditStore creates an empty store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Append records one entry.
func (s *AuditStore) Append(_ context.Context, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

// List returns entries matching the filter, newest first.
func (s *AuditStore) List(_ context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*audit.Entry
	for _, e := range s.entries {
		if !filter.CollegeID.IsEmpty() && e.CollegeID != filter.CollegeID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		if !filter.Range.IsZero() {
			if !filter.Range.From.IsZero() && e.CreatedAt.Before(filter.Range.From) {
				continue
			}
			if !filter.Range.To.IsZero() && e.CreatedAt.After(filter.Range.To) {
				continue
			}
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, filter.Pagination), nil
}

// CountByAction returns entry counts grouped by action.
func (s *AuditStore) CountByAction(_ context.Context, collegeID shared.CollegeID) (map[audit.Action]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[audit.Action]int)
	for _, e := range s.entries {
		if !collegeID.IsEmpty() && e.CollegeID != collegeID {
			continue
		}
		counts[e.Action]++
	}
	return counts, nil
}

// Len returns the number of stored entries.
func (s *AuditStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
