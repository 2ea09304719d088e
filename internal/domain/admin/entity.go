// Package admin contains the administrator profile: the reviewer identity
// stamped on approve/reject transitions.
package admin

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"

	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Profile represents an administrator of one college.
type Profile struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// CollegeID - the college this admin manages.
	CollegeID shared.CollegeID

	// FullName - display name.
	FullName string

	// Email - login email, unique per college.
	Email string

	// PasswordHash - bcrypt hash of the password.
	PasswordHash string

	// CreatedAt - record creation time.
	CreatedAt time.Time

	// UpdatedAt - last modification time.
	UpdatedAt time.Time
}

// ErrInvalidFullName - the full name is missing or too long.
var ErrInvalidFullName = errors.New("invalid full name: must be 1-100 chars")

// NewProfile creates an admin profile with a freshly hashed password.
func NewProfile(id string, collegeID shared.CollegeID, fullName, email, password string) (*Profile, error) {
	if id == "" {
		return nil, errors.New("admin id is required")
	}
	if collegeID.IsEmpty() {
		return nil, errors.New("college id is required")
	}

	name := strings.TrimSpace(fullName)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidFullName
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.ErrInvalidEmailAddress
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Profile{
		ID:           id,
		CollegeID:    collegeID,
		FullName:     name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword verifies a password against the stored hash.
// Returns shared.ErrInvalidCredentials on mismatch.
func (p *Profile) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// SetPassword replaces the stored hash with a hash of the new password.
func (p *Profile) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hash)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository defines storage operations for admin profiles.
type Repository interface {
	// Create stores a new profile.
	// Returns shared.ErrAdminExists if the email is already taken.
	Create(ctx context.Context, p *Profile) error

	// GetByID returns a profile by ID.
	// Returns shared.ErrAdminNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Profile, error)

	// GetByEmail returns a profile by login email.
	// Returns shared.ErrAdminNotFound if it does not exist.
	GetByEmail(ctx context.Context, email string) (*Profile, error)
}
