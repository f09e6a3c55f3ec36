// Package policy decides when per-recipient votes resolve a communication.
package policy

import (
	"time"

	"github.com/spec-kit/request-service/internal/domain"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// CompletionPolicy records a recipient's vote and recomputes the aggregate status.
// Policies are stateless; they are never stored on the communication.
type CompletionPolicy interface {
	Name() string
	VoteCompleted(c *domain.Communication, recipient string, now time.Time) error
	VoteRejected(c *domain.Communication, recipient string, now time.Time) error
}

var (
	unanimous CompletionPolicy = UnanimousVoting{}
	broadcast CompletionPolicy = GlobalBroadcast{}
)

// ForMessageType selects the policy for a message type. Stateful requests need
// every recipient to complete; simple and broadcast messages never complete.
func ForMessageType(messageType domain.MessageType) CompletionPolicy {
	if messageType.IsStatefulRequest() {
		return unanimous
	}
	return broadcast
}

// Vote applies status through the policy selected for messageType.
func Vote(messageType domain.MessageType, c *domain.Communication, recipient string, status domain.CommunicationStatus, now time.Time) error {
	p := ForMessageType(messageType)
	switch status {
	case domain.StatusCompleted:
		return p.VoteCompleted(c, recipient, now)
	case domain.StatusRejected:
		return p.VoteRejected(c, recipient, now)
	default:
		return apperrors.NewValidationError("vote must be COMPLETED or REJECTED", map[string]any{"status": status})
	}
}

func targetFor(c *domain.Communication, recipient string) (*domain.CommunicationTarget, error) {
	target := c.Target(recipient)
	if target == nil {
		return nil, apperrors.NewNotFound("recipient", map[string]any{
			"communication_id": c.ID,
			"recipient":        recipient,
		})
	}
	return target, nil
}
