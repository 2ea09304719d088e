package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/admin"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// AdminStore is an in-memory admin.Repository.
type AdminStore struct {
	mu      sync.RWMutex
	byID    map[string]*admin.Profile
	byEmail map[string]*admin.Profile
}

// NewAdminStore creates an empty store.
func NewAdminStore() *AdminStore {
	return &AdminStore{
		byID:    make(map[string]*admin.Profile),
		byEmail: make(map[string]*admin.Profile),
	}
}

// Create stores a new profile.
func (s *AdminStore) Create(_ context.Context, p *admin.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(p.Email)
	if _, ok := s.byEmail[email]; ok {
		return shared.ErrAdminExists
	}
	if _, ok := s.byID[p.ID]; ok {
		return shared.ErrAdminExists
	}

	cp := *p
	s.byID[p.ID] = &cp
	s.byEmail[email] = &cp
	return nil
}

// GetByID returns a profile by ID.
func (s *AdminStore) GetByID(_ context.Context, id string) (*admin.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrAdminNotFound
	}
	cp := *p
	return &cp, nil
}

// GetByEmail returns a profile by login email.
func (s *AdminStore) GetByEmail(_ context.Context, email string) (*admin.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrAdminNotFound
	}
	cp := *p
	return &cp, nil
}
