package command

import (
	"context"
	"errors"
	"strings"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/admin"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE ADMIN COMMAND
// Verifies reviewer credentials. An unknown email and a wrong password both
// come back as ErrInvalidCredentials, so the response never reveals which
// emails exist.
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateAdminCommand contains login credentials.
type AuthenticateAdminCommand struct {
	// Email is the login email.
	Email string

	// Password is the plaintext password to verify.
	Password string

	// IPAddress is the request origin, recorded in the audit trail.
	IPAddress string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AuthenticateAdminCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("authenticate_admin: email is required")
	}
	if c.Password == "" {
		return errors.New("authenticate_admin: password is required")
	}
	return nil
}

// AuthenticateAdminResult contains the authenticated profile.
type AuthenticateAdminResult struct {
	// Admin is the authenticated profile. PasswordHash is never exposed
	// beyond this layer.
	Admin *admin.Profile
}

// AuthenticateAdminHandler handles the AuthenticateAdminCommand.
type AuthenticateAdminHandler struct {
	adminRepo      admin.Repository
	eventPublisher shared.EventPublisher
}

// NewAuthenticateAdminHandler creates a new AuthenticateAdminHandler.
func NewAuthenticateAdminHandler(
	adminRepo admin.Repository,
	eventPublisher shared.EventPublisher,
) *AuthenticateAdminHandler {
	return &AuthenticateAdminHandler{
		adminRepo:      adminRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the authenticate admin command.
func (h *AuthenticateAdminHandler) Handle(ctx context.Context, cmd AuthenticateAdminCommand) (*AuthenticateAdminResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("admin", "Authenticate", shared.ErrValidation, "validation failed", err)
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	profile, err := h.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := profile.CheckPassword(cmd.Password); err != nil {
		return nil, err
	}

	event := shared.NewAdminLoggedInEvent(profile.ID, profile.CollegeID.String(), profile.Email, cmd.IPAddress)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(event)
	}

	return &AuthenticateAdminResult{Admin: profile}, nil
}
