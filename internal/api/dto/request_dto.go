package dto

import (
	"time"

	"github.com/spec-kit/request-service/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	MessageType             domain.MessageType `json:"message_type"`
	GroupID                 *string            `json:"group_id"`
	RecordID                *string            `json:"record_id"`
	Recipients              []string           `json:"recipients"`
	Message                 string             `json:"message"`
	RequestedCompletionDate *time.Time         `json:"requested_completion_date"`
}

// VoteRequest payload.
type VoteRequest struct {
	Status  domain.CommunicationStatus `json:"status"`
	Comment string                     `json:"comment"`
}

// UpdateMessageRequest payload.
type UpdateMessageRequest struct {
	Message string `json:"message"`
}

// ReviseRequest payload.
type ReviseRequest struct {
	Message                 string     `json:"message"`
	RequestedCompletionDate *time.Time `json:"requested_completion_date"`
}

// TargetResponse is one recipient's disposition.
type TargetResponse struct {
	Recipient        string                     `json:"recipient"`
	Status           domain.CommunicationStatus `json:"status"`
	LastStatusUpdate time.Time                  `json:"last_status_update"`
	StatusMessage    string                     `json:"status_message,omitempty"`
}

// RequestResponse describes a message or request with its recipients.
type RequestResponse struct {
	ID                      string                     `json:"id"`
	Kind                    domain.CommunicationKind   `json:"kind"`
	MessageType             domain.MessageType         `json:"message_type"`
	Policy                  string                     `json:"policy"`
	Originator              string                     `json:"originator"`
	Message                 string                     `json:"message"`
	Status                  domain.CommunicationStatus `json:"status"`
	CreatedAt               time.Time                  `json:"created_at"`
	ThreadID                string                     `json:"thread_id"`
	PreviousID              *string                    `json:"previous_id"`
	NextID                  *string                    `json:"next_id"`
	Latest                  bool                       `json:"latest"`
	GroupID                 *string                    `json:"group_id,omitempty"`
	RecordID                *string                    `json:"record_id,omitempty"`
	RequestedCompletionDate *time.Time                 `json:"requested_completion_date,omitempty"`
	Recipients              []TargetResponse           `json:"recipients"`
}

// NotificationResponse describes a system notification with its decoded payload.
type NotificationResponse struct {
	ID               string                  `json:"id"`
	NotificationType domain.NotificationType `json:"notification_type"`
	Originator       string                  `json:"originator"`
	Message          string                  `json:"message"`
	CreatedAt        time.Time               `json:"created_at"`
	Recipients       []TargetResponse        `json:"recipients"`
	Payload          any                     `json:"payload,omitempty"`
}
