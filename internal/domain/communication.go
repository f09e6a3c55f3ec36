package domain

import (
	"time"

	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// MaxMessageLength is the column width of the free-text message, in characters.
const MaxMessageLength = 2000

const truncationMarker = "..."

// CommunicationKind is the storage discriminant of a Communication variant.
type CommunicationKind string

const (
	KindMessageOrRequest      CommunicationKind = "MESSAGE_OR_REQUEST"
	KindGroupMessageOrRequest CommunicationKind = "GROUP_MESSAGE_OR_REQUEST"
	KindSystemNotification    CommunicationKind = "SYSTEM_NOTIFICATION"
)

// Communication is the base of every addressed message, request and notification.
type Communication struct {
	ID         string
	Kind       CommunicationKind
	Originator string
	CreatedAt  time.Time
	Message    string
	Status     CommunicationStatus
	Recipients []*CommunicationTarget

	// Thread links, addressed by communication id.
	ThreadID   string
	PreviousID *string
	NextID     *string
	Latest     bool
}

// NewCommunication builds a communication in status NEW created at now.
func NewCommunication(kind CommunicationKind, originator, message string, now time.Time) (*Communication, error) {
	if originator == "" {
		return nil, apperrors.NewValidationError("originator required", nil)
	}
	c := &Communication{
		Kind:       kind,
		Originator: originator,
		CreatedAt:  now,
		Status:     StatusNew,
	}
	c.SetMessage(message)
	return c, nil
}

// Base returns the communication itself; variants inherit it through embedding.
func (c *Communication) Base() *Communication {
	return c
}

// SetMessage stores text, truncating it to MaxMessageLength with a trailing marker.
func (c *Communication) SetMessage(text string) {
	c.Message = truncateMessage(text, MaxMessageLength)
}

func truncateMessage(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-len(truncationMarker)]) + truncationMarker
}

// IsMessageOrRequest reports whether the communication may require recipient action.
func (c *Communication) IsMessageOrRequest() bool {
	return c.Kind == KindMessageOrRequest || c.Kind == KindGroupMessageOrRequest
}

// IsSystemNotification reports whether the communication is a system notification.
func (c *Communication) IsSystemNotification() bool {
	return c.Kind == KindSystemNotification
}

// HasNextMessage reports whether a later revision exists.
func (c *Communication) HasNextMessage() bool {
	return c.NextID != nil
}

// HasPreviousMessage reports whether an earlier revision exists.
func (c *Communication) HasPreviousMessage() bool {
	return c.PreviousID != nil
}

// SetNextMessage links next as the successor of c. next must not predate c.
func (c *Communication) SetNextMessage(next *Communication) error {
	if next == nil {
		c.NextID = nil
		return nil
	}
	if next.CreatedAt.Before(c.CreatedAt) {
		return apperrors.NewOrderingError("next message created before this message", map[string]any{
			"communication_id": c.ID,
			"next_id":          next.ID,
		})
	}
	id := next.ID
	c.NextID = &id
	return nil
}

// SetPreviousMessage links prev as the predecessor of c. prev must not postdate c.
func (c *Communication) SetPreviousMessage(prev *Communication) error {
	if prev == nil {
		c.PreviousID = nil
		return nil
	}
	if prev.CreatedAt.After(c.CreatedAt) {
		return apperrors.NewOrderingError("previous message created after this message", map[string]any{
			"communication_id": c.ID,
			"previous_id":      prev.ID,
		})
	}
	id := prev.ID
	c.PreviousID = &id
	return nil
}

// SetLatest flags c as the tip of its thread. Only a node without a successor can be latest.
func (c *Communication) SetLatest(latest bool) error {
	if latest && c.HasNextMessage() {
		return apperrors.NewInvalidState("only the last message of a thread can be latest", map[string]any{
			"communication_id": c.ID,
		})
	}
	c.Latest = latest
	return nil
}

// AddRecipient attaches a NEW target for recipient.
func (c *Communication) AddRecipient(recipient string, now time.Time) (*CommunicationTarget, error) {
	if recipient == "" {
		return nil, apperrors.NewValidationError("recipient required", nil)
	}
	if c.Target(recipient) != nil {
		return nil, apperrors.NewConflict("recipient already addressed", map[string]any{
			"communication_id": c.ID,
			"recipient":        recipient,
		})
	}
	target := &CommunicationTarget{
		CommunicationID:  c.ID,
		Recipient:        recipient,
		Status:           StatusNew,
		LastStatusUpdate: now,
	}
	c.Recipients = append(c.Recipients, target)
	return target, nil
}

// Target returns the target for recipient, or nil.
func (c *Communication) Target(recipient string) *CommunicationTarget {
	for _, target := range c.Recipients {
		if target.Recipient == recipient {
			return target
		}
	}
	return nil
}

// RecipientIDs lists recipients in insertion order.
func (c *Communication) RecipientIDs() []string {
	ids := make([]string, 0, len(c.Recipients))
	for _, target := range c.Recipients {
		ids = append(ids, target.Recipient)
	}
	return ids
}

// AssignID sets the identity of c and propagates it to its targets.
func (c *Communication) AssignID(id string) {
	c.ID = id
	for _, target := range c.Recipients {
		target.CommunicationID = id
	}
}
