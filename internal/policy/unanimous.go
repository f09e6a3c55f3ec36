package policy

import (
	"time"

	"github.com/spec-kit/request-service/internal/domain"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// UnanimousVoting completes a communication once every recipient has completed it.
// A resolved communication accepts no further votes.
type UnanimousVoting struct{}

func (UnanimousVoting) Name() string { return "unanimous" }

func (UnanimousVoting) VoteCompleted(c *domain.Communication, recipient string, now time.Time) error {
	if err := ensureOpen(c); err != nil {
		return err
	}
	target, err := targetFor(c, recipient)
	if err != nil {
		return err
	}
	target.SetStatus(domain.StatusCompleted, now)
	for _, t := range c.Recipients {
		if t.Status != domain.StatusCompleted {
			return nil
		}
	}
	c.Status = domain.StatusCompleted
	return nil
}

// VoteRejected rejects the communication: one rejection makes unanimity impossible.
func (UnanimousVoting) VoteRejected(c *domain.Communication, recipient string, now time.Time) error {
	if err := ensureOpen(c); err != nil {
		return err
	}
	target, err := targetFor(c, recipient)
	if err != nil {
		return err
	}
	target.SetStatus(domain.StatusRejected, now)
	c.Status = domain.StatusRejected
	return nil
}

func ensureOpen(c *domain.Communication) error {
	if !c.Status.IsTerminal() {
		return nil
	}
	return apperrors.NewInvalidState("communication already resolved", map[string]any{
		"communication_id": c.ID,
		"status":           c.Status,
	})
}
