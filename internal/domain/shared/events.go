// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Every committed state change in the engine produces
// exactly one event; the audit recorder subscribes to all of them.
const (
	// Scholarship events
	EventScholarshipCreated EventType = "scholarship.created"
	EventScholarshipUpdated EventType = "scholarship.updated"
	EventScholarshipDeleted EventType = "scholarship.deleted"
	EventScholarshipExpired EventType = "scholarship.expired"

	// Application events
	EventApplicationSubmitted EventType = "application.submitted"
	EventApplicationApproved  EventType = "application.approved"
	EventApplicationRejected  EventType = "application.rejected"

	// Allocation events
	EventAllocationCompleted EventType = "allocation.completed"

	// Admin events
	EventAdminLoggedIn EventType = "admin.logged_in"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Scholarship Events
// ═══════════════════════════════════════════════════════════════════════════

// ScholarshipCreatedEvent is emitted when an administrator creates a scholarship.
type ScholarshipCreatedEvent struct {
	BaseEvent
	CollegeID  string `json:"college_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Amount     int64  `json:"amount"`
	TotalSeats int    `json:"total_seats"`
	ActorID    string `json:"actor_id"`
}

// Payload implements Event interface.
func (e ScholarshipCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id":  e.CollegeID,
		"name":        e.Name,
		"category":    e.Category,
		"amount":      e.Amount,
		"total_seats": e.TotalSeats,
		"actor_id":    e.ActorID,
	}
}

// NewScholarshipCreatedEvent creates a new ScholarshipCreatedEvent.
func NewScholarshipCreatedEvent(scholarshipID, collegeID, name, category string, amount int64, totalSeats int, actorID string) ScholarshipCreatedEvent {
	return ScholarshipCreatedEvent{
		BaseEvent:  NewBaseEvent(EventScholarshipCreated, scholarshipID),
		CollegeID:  collegeID,
		Name:       name,
		Category:   category,
		Amount:     amount,
		TotalSeats: totalSeats,
		ActorID:    actorID,
	}
}

// ScholarshipUpdatedEvent is emitted when an administrator edits a scholarship.
type ScholarshipUpdatedEvent struct {
	BaseEvent
	CollegeID string   `json:"college_id"`
	Name      string   `json:"name"`
	Changed   []string `json:"changed"`
	ActorID   string   `json:"actor_id"`
}

// Payload implements Event interface.
func (e ScholarshipUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id": e.CollegeID,
		"name":       e.Name,
		"changed":    e.Changed,
		"actor_id":   e.ActorID,
	}
}

// NewScholarshipUpdatedEvent creates a new ScholarshipUpdatedEvent.
func NewScholarshipUpdatedEvent(scholarshipID, collegeID, name string, changed []string, actorID string) ScholarshipUpdatedEvent {
	return ScholarshipUpdatedEvent{
		BaseEvent: NewBaseEvent(EventScholarshipUpdated, scholarshipID),
		CollegeID: collegeID,
		Name:      name,
		Changed:   changed,
		ActorID:   actorID,
	}
}

// ScholarshipDeletedEvent is emitted when a scholarship is deleted.
type ScholarshipDeletedEvent struct {
	BaseEvent
	CollegeID string `json:"college_id"`
	Name      string `json:"name"`
	ActorID   string `json:"actor_id"`
}

// Payload implements Event interface.
func (e ScholarshipDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id": e.CollegeID,
		"name":       e.Name,
		"actor_id":   e.ActorID,
	}
}

// NewScholarshipDeletedEvent creates a new ScholarshipDeletedEvent.
func NewScholarshipDeletedEvent(scholarshipID, collegeID, name, actorID string) ScholarshipDeletedEvent {
	return ScholarshipDeletedEvent{
		BaseEvent: NewBaseEvent(EventScholarshipDeleted, scholarshipID),
		CollegeID: collegeID,
		Name:      name,
		ActorID:   actorID,
	}
}

// ScholarshipExpiredEvent is emitted when a scholarship passes its deadline.
type ScholarshipExpiredEvent struct {
	BaseEvent
	CollegeID string    `json:"college_id"`
	Name      string    `json:"name"`
	Deadline  time.Time `json:"deadline"`
}

// Payload implements Event interface.
func (e ScholarshipExpiredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id": e.CollegeID,
		"name":       e.Name,
		"deadline":   e.Deadline.Format(time.RFC3339),
	}
}

// NewScholarshipExpiredEvent creates a new ScholarshipExpiredEvent.
func NewScholarshipExpiredEvent(scholarshipID, collegeID, name string, deadline time.Time) ScholarshipExpiredEvent {
	return ScholarshipExpiredEvent{
		BaseEvent: NewBaseEvent(EventScholarshipExpired, scholarshipID),
		CollegeID: collegeID,
		Name:      name,
		Deadline:  deadline,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Application Events
// ═══════════════════════════════════════════════════════════════════════════

// ApplicationSubmittedEvent is emitted when a student submits an application.
type ApplicationSubmittedEvent struct {
	BaseEvent
	CollegeID     string `json:"college_id"`
	ScholarshipID string `json:"scholarship_id"`
	StudentName   string `json:"student_name"`
	StudentRoll   string `json:"student_roll"`
	Score         int    `json:"score"`
}

// Payload implements Event interface.
func (e ApplicationSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id":     e.CollegeID,
		"scholarship_id": e.ScholarshipID,
		"student_name":   e.StudentName,
		"student_roll":   e.StudentRoll,
		"score":          e.Score,
	}
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent.
func NewApplicationSubmittedEvent(applicationID, collegeID, scholarshipID, studentName, studentRoll string, score int) ApplicationSubmittedEvent {
	return ApplicationSubmittedEvent{
		BaseEvent:     NewBaseEvent(EventApplicationSubmitted, applicationID),
		CollegeID:     collegeID,
		ScholarshipID: scholarshipID,
		StudentName:   studentName,
		StudentRoll:   studentRoll,
		Score:         score,
	}
}

// ApplicationApprovedEvent is emitted when a reviewer approves an application.
// Exactly one event per committed approval; the seat is already consumed
// by the time this event is published.
type ApplicationApprovedEvent struct {
	BaseEvent
	CollegeID     string `json:"college_id"`
	ScholarshipID string `json:"scholarship_id"`
	StudentName   string `json:"student_name"`
	StudentRoll   string `json:"student_roll"`
	ReviewerID    string `json:"reviewer_id"`
	FilledSeats   int    `json:"filled_seats"`
	TotalSeats    int    `json:"total_seats"`
}

// Payload implements Event interface.
func (e ApplicationApprovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id":     e.CollegeID,
		"scholarship_id": e.ScholarshipID,
		"student_name":   e.StudentName,
		"student_roll":   e.StudentRoll,
		"reviewer_id":    e.ReviewerID,
		"filled_seats":   e.FilledSeats,
		"total_seats":    e.TotalSeats,
	}
}

// NewApplicationApprovedEvent creates a new ApplicationApprovedEvent.
func NewApplicationApprovedEvent(applicationID, collegeID, scholarshipID, studentName, studentRoll, reviewerID string, filledSeats, totalSeats int) ApplicationApprovedEvent {
	return ApplicationApprovedEvent{
		BaseEvent:     NewBaseEvent(EventApplicationApproved, applicationID),
		CollegeID:     collegeID,
		ScholarshipID: scholarshipID,
		StudentName:   studentName,
		StudentRoll:   studentRoll,
		ReviewerID:    reviewerID,
		FilledSeats:   filledSeats,
		TotalSeats:    totalSeats,
	}
}

// ApplicationRejectedEvent is emitted when a reviewer rejects an application.
type ApplicationRejectedEvent struct {
	BaseEvent
	CollegeID     string `json:"college_id"`
	ScholarshipID string `json:"scholarship_id"`
	StudentName   string `json:"student_name"`
	StudentRoll   string `json:"student_roll"`
	ReviewerID    string `json:"reviewer_id"`
}

// Payload implements Event interface.
func (e ApplicationRejectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id":     e.CollegeID,
		"scholarship_id": e.ScholarshipID,
		"student_name":   e.StudentName,
		"student_roll":   e.StudentRoll,
		"reviewer_id":    e.ReviewerID,
	}
}

// NewApplicationRejectedEvent creates a new ApplicationRejectedEvent.
func NewApplicationRejectedEvent(applicationID, collegeID, scholarshipID, studentName, studentRoll, reviewerID string) ApplicationRejectedEvent {
	return ApplicationRejectedEvent{
		BaseEvent:     NewBaseEvent(EventApplicationRejected, applicationID),
		CollegeID:     collegeID,
		ScholarshipID: scholarshipID,
		StudentName:   studentName,
		StudentRoll:   studentRoll,
		ReviewerID:    reviewerID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Allocation Events
// ═══════════════════════════════════════════════════════════════════════════

// AllocationCompletedEvent is emitted after a ranking run finishes.
// Allocation runs are pure reads; this event exists for the audit trail only.
type AllocationCompletedEvent struct {
	BaseEvent
	CollegeID     string `json:"college_id"`
	EligibleCount int    `json:"eligible_count"`
	ExcludedCount int    `json:"excluded_count"`
	ProposedCount int    `json:"proposed_count"`
	ActorID       string `json:"actor_id"`
}

// Payload implements Event interface.
func (e AllocationCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id":     e.CollegeID,
		"eligible_count": e.EligibleCount,
		"excluded_count": e.ExcludedCount,
		"proposed_count": e.ProposedCount,
		"actor_id":       e.ActorID,
	}
}

// NewAllocationCompletedEvent creates a new AllocationCompletedEvent.
func NewAllocationCompletedEvent(scholarshipID, collegeID string, eligible, excluded, proposed int, actorID string) AllocationCompletedEvent {
	return AllocationCompletedEvent{
		BaseEvent:     NewBaseEvent(EventAllocationCompleted, scholarshipID),
		CollegeID:     collegeID,
		EligibleCount: eligible,
		ExcludedCount: excluded,
		ProposedCount: proposed,
		ActorID:       actorID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Admin Events
// ═══════════════════════════════════════════════════════════════════════════

// AdminLoggedInEvent is emitted on a successful administrator login.
type AdminLoggedInEvent struct {
	BaseEvent
	CollegeID string `json:"college_id"`
	Email     string `json:"email"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Payload implements Event interface.
func (e AdminLoggedInEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"college_id": e.CollegeID,
		"email":      e.Email,
		"ip_address": e.IPAddress,
	}
}

// NewAdminLoggedInEvent creates a new AdminLoggedInEvent.
func NewAdminLoggedInEvent(adminID, collegeID, email, ipAddress string) AdminLoggedInEvent {
	return AdminLoggedInEvent{
		BaseEvent: NewBaseEvent(EventAdminLoggedIn, adminID),
		CollegeID: collegeID,
		Email:     email,
		IPAddress: ipAddress,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
