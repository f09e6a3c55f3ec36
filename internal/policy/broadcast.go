package policy

import (
	"time"

	"github.com/spec-kit/request-service/internal/domain"
)

// GlobalBroadcast records acknowledgements but never resolves the communication.
type GlobalBroadcast struct{}

func (GlobalBroadcast) Name() string { return "broadcast" }

func (GlobalBroadcast) VoteCompleted(c *domain.Communication, recipient string, now time.Time) error {
	target, err := targetFor(c, recipient)
	if err != nil {
		return err
	}
	target.SetStatus(domain.StatusCompleted, now)
	return nil
}

func (GlobalBroadcast) VoteRejected(c *domain.Communication, recipient string, now time.Time) error {
	target, err := targetFor(c, recipient)
	if err != nil {
		return err
	}
	target.SetStatus(domain.StatusRejected, now)
	return nil
}
