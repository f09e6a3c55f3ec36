package events

import (
	"time"

	"github.com/spec-kit/request-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCommunicationCreated       EventType = "communication_created"
	EventTargetStatusChanged        EventType = "target_status_changed"
	EventCommunicationStatusChanged EventType = "communication_status_changed"
	EventCommunicationRevised       EventType = "communication_revised"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	CommunicationID string    `json:"communication_id"`
	ActorID         string    `json:"actor_id"`
	Timestamp       time.Time `json:"timestamp"`
	Payload         any       `json:"payload"`
}

// CommunicationCreatedPayload payload.
type CommunicationCreatedPayload struct {
	Kind        domain.CommunicationKind `json:"kind"`
	MessageType domain.MessageType       `json:"message_type"`
	ThreadID    string                   `json:"thread_id"`
	GroupID     *string                  `json:"group_id,omitempty"`
	Recipients  []string                 `json:"recipients"`
}

// TargetStatusChangedPayload payload.
type TargetStatusChangedPayload struct {
	Recipient string                     `json:"recipient"`
	OldStatus domain.CommunicationStatus `json:"old_status"`
	NewStatus domain.CommunicationStatus `json:"new_status"`
	Comment   string                     `json:"comment,omitempty"`
}

// CommunicationStatusChangedPayload payload.
type CommunicationStatusChangedPayload struct {
	Originator  string                     `json:"originator"`
	MessageType domain.MessageType         `json:"message_type"`
	OldStatus   domain.CommunicationStatus `json:"old_status"`
	NewStatus   domain.CommunicationStatus `json:"new_status"`
}

// CommunicationRevisedPayload payload.
type CommunicationRevisedPayload struct {
	ThreadID   string `json:"thread_id"`
	PreviousID string `json:"previous_id"`
}
