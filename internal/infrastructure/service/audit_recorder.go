// Package service contains infrastructure adapters that sit between the
// event bus and the domain's supporting concerns.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sujithkumar505/college-admin-hub/internal/domain/audit"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/pkg/retry"
)

// AuditRecorder subscribes to every domain event and turns each one into an
// audit trail entry. Appends are retried with backoff; a sink that stays down
// is logged as a warning and never fails the transition the event records.
type AuditRecorder struct {
	sink    audit.Sink
	retrier *retry.Retrier
	logger  *slog.Logger
	timeout time.Duration
}

// NewAuditRecorder creates an audit recorder writing to the given sink.
func NewAuditRecorder(sink audit.Sink, logger *slog.Logger) *AuditRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditRecorder{
		sink:    sink,
		retrier: retry.AuditSinkRetrier(),
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Register subscribes the recorder to all events on the bus.
func (r *AuditRecorder) Register(bus shared.EventSubscriber) error {
	return bus.SubscribeAll(r.Handle)
}

// Handle converts one event into an audit entry and appends it.
// Always returns nil: audit failures are warnings, not transition failures.
func (r *AuditRecorder) Handle(event shared.Event) error {
	entry, ok := r.entryFor(event)
	if !ok {
		r.logger.Debug("event not auditable", "event_type", event.EventType())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(r.sink.Append(ctx, entry))
	})
	if err != nil {
		r.logger.Warn("audit append failed",
			"event_type", event.EventType(),
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err,
		)
	}

	return nil
}

// entryFor maps an event onto an audit entry. Events without a known mapping
// or without a tenant are skipped.
func (r *AuditRecorder) entryFor(event shared.Event) (*audit.Entry, bool) {
	action, entityType, ok := classify(event.EventType())
	if !ok {
		return nil, false
	}

	payload := event.Payload()

	collegeID, err := shared.NewCollegeID(stringField(payload, "college_id"))
	if err != nil {
		r.logger.Warn("event missing college id", "event_type", event.EventType())
		return nil, false
	}

	actorID := stringField(payload, "actor_id")
	if actorID == "" {
		actorID = stringField(payload, "reviewer_id")
	}

	entry, err := audit.NewEntry(audit.NewEntryParams{
		ID:         uuid.New().String(),
		CollegeID:  collegeID,
		Action:     action,
		EntityType: entityType,
		EntityID:   event.AggregateID(),
		ActorID:    actorID,
		Details:    payload,
		IPAddress:  stringField(payload, "ip_address"),
	})
	if err != nil {
		r.logger.Warn("could not build audit entry", "event_type", event.EventType(), "error", err)
		return nil, false
	}

	return entry, true
}

// classify maps an event type to its audit action and entity kind.
func classify(eventType shared.EventType) (audit.Action, audit.EntityType, bool) {
	switch eventType {
	case shared.EventScholarshipCreated:
		return audit.ActionCreate, audit.EntityScholarship, true
	case shared.EventScholarshipUpdated, shared.EventScholarshipExpired:
		return audit.ActionUpdate, audit.EntityScholarship, true
	case shared.EventScholarshipDeleted:
		return audit.ActionDelete, audit.EntityScholarship, true
	case shared.EventApplicationSubmitted:
		return audit.ActionCreate, audit.EntityApplication, true
	case shared.EventApplicationApproved:
		return audit.ActionApprove, audit.EntityApplication, true
	case shared.EventApplicationRejected:
		return audit.ActionReject, audit.EntityApplication, true
	case shared.EventAllocationCompleted:
		return audit.ActionAllocate, audit.EntityScholarship, true
	case shared.EventAdminLoggedIn:
		return audit.ActionLogin, audit.EntityAdmin, true
	default:
		return "", "", false
	}
}

func stringField(payload map[string]interface{}, key string) string {
	v, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return v
}
