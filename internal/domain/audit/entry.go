// Package audit contains the append-only audit trail types. Every committed
// state transition in the engine produces exactly one entry; entries are never
// mutated or deleted. No external dependencies.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Action classifies what happened.
type Action string

const (
	// ActionCreate - an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate - an entity was updated.
	ActionUpdate Action = "update"
	// ActionDelete - an entity was deleted.
	ActionDelete Action = "delete"
	// ActionApprove - an application was approved (consumed a seat).
	ActionApprove Action = "approve"
	// ActionReject - an application was rejected.
	ActionReject Action = "reject"
	// ActionAllocate - an allocation run completed.
	ActionAllocate Action = "allocate"
	// ActionLogin - an administrator logged in.
	ActionLogin Action = "login"
)

// IsValid checks that the action is one of the known values.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionReject, ActionAllocate, ActionLogin:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a Action) String() string {
	return string(a)
}

// EntityType names the kind of entity an entry refers to.
type EntityType string

const (
	EntityScholarship EntityType = "scholarship"
	EntityApplication EntityType = "application"
	EntityAdmin       EntityType = "admin"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one immutable audit record.
type Entry struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// CollegeID - owning tenant college.
	CollegeID shared.CollegeID

	// Action - what happened.
	Action Action

	// EntityType - the kind of entity acted on.
	EntityType EntityType

	// EntityID - the entity acted on.
	EntityID string

	// ActorID - the admin user who performed the action (empty for system jobs).
	ActorID string

	// Details - structured context payload.
	Details map[string]interface{}

	// IPAddress - request origin, when known.
	IPAddress string

	// CreatedAt - when the action was committed.
	CreatedAt time.Time
}

// ErrInvalidEntry - the entry is missing required fields.
var ErrInvalidEntry = errors.New("invalid audit entry")

// NewEntryParams contains parameters for creating an audit entry.
type NewEntryParams struct {
	ID         string
	CollegeID  shared.CollegeID
	Action     Action
	EntityType EntityType
	EntityID   string
	ActorID    string
	Details    map[string]interface{}
	IPAddress  string
}

// NewEntry creates an audit entry with validation.
func NewEntry(params NewEntryParams) (*Entry, error) {
	if params.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	if params.CollegeID.IsEmpty() {
		return nil, fmt.Errorf("%w: college id is required", ErrInvalidEntry)
	}
	if !params.Action.IsValid() {
		return nil, shared.ErrInvalidAction
	}
	if strings.TrimSpace(params.EntityID) == "" {
		return nil, fmt.Errorf("%w: entity id is required", ErrInvalidEntry)
	}

	details := params.Details
	if details == nil {
		details = map[string]interface{}{}
	}

	return &Entry{
		ID:         params.ID,
		CollegeID:  params.CollegeID,
		Action:     params.Action,
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		ActorID:    params.ActorID,
		Details:    details,
		IPAddress:  params.IPAddress,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SINK & STORE INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Sink accepts audit entries. Fire-and-forget from the engine's perspective:
// an append failure must never roll back the state transition it records,
// but must be surfaced as a non-fatal warning.
type Sink interface {
	// Append records one entry.
	Append(ctx context.Context, entry *Entry) error
}

// Store extends Sink with querying for the audit trail view.
type Store interface {
	Sink

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)

	// CountByAction returns entry counts grouped by action.
	CountByAction(ctx context.Context, collegeID shared.CollegeID) (map[Action]int, error)
}

// ListFilter narrows an audit trail listing.
type ListFilter struct {
	// CollegeID restricts results to one tenant.
	CollegeID shared.CollegeID

	// Action filters by action kind (empty = all).
	Action Action

	// EntityID filters by subject entity (empty = all).
	EntityID string

	// Range bounds created_at (zero = unbounded).
	Range shared.TimeRange

	// Pagination bounds the result set.
	Pagination shared.Pagination
}
