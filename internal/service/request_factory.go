package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/request-service/internal/directory"
	"github.com/spec-kit/request-service/internal/domain"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// RequestConfig describes a communication to create.
type RequestConfig struct {
	MessageType             domain.MessageType
	Originator              string
	GroupID                 *string
	RecordID                *string
	Recipients              []string
	Message                 string
	RequestedCompletionDate *time.Time
}

// RequestFactory builds the communication variant selected by the message type
// and populates its recipients.
type RequestFactory struct {
	resolver directory.RecipientResolver
	clock    domain.Clock
	ids      func() string
}

// NewRequestFactory constructs a factory. A nil clock or id source falls back
// to the system clock and random UUIDs.
func NewRequestFactory(resolver directory.RecipientResolver, clock domain.Clock, ids func() string) *RequestFactory {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if ids == nil {
		ids = uuid.NewString
	}
	return &RequestFactory{resolver: resolver, clock: clock, ids: ids}
}

// Create returns a *domain.GroupMessageOrRequest for group types and a
// *domain.MessageOrRequest otherwise. The result starts a new thread.
func (f *RequestFactory) Create(ctx context.Context, cfg RequestConfig) (domain.Request, error) {
	if !cfg.MessageType.IsValid() {
		return nil, apperrors.NewConfigurationError("unknown message type", map[string]any{"message_type": cfg.MessageType})
	}
	originator := strings.TrimSpace(cfg.Originator)
	if originator == "" {
		return nil, apperrors.NewValidationError("originator required", map[string]any{"message_type": cfg.MessageType})
	}
	now := f.clock.Now()

	var (
		req        domain.Request
		recipients []string
		err        error
	)
	switch {
	case cfg.MessageType.HasGroupContext():
		if cfg.GroupID == nil || strings.TrimSpace(*cfg.GroupID) == "" {
			return nil, apperrors.NewValidationError("group_id required", map[string]any{"message_type": cfg.MessageType})
		}
		req, err = domain.NewGroupMessageOrRequest(originator, cfg.MessageType, *cfg.GroupID, cfg.Message, now)
		if err != nil {
			return nil, err
		}
		recipients, err = f.resolve(ctx, cfg.MessageType, cfg.GroupID, originator)
	case cfg.MessageType.IsBroadcast():
		req, err = domain.NewMessageOrRequest(originator, cfg.MessageType, cfg.Message, now)
		if err != nil {
			return nil, err
		}
		recipients, err = f.resolve(ctx, cfg.MessageType, nil, originator)
	default:
		req, err = domain.NewMessageOrRequest(originator, cfg.MessageType, cfg.Message, now)
		recipients = cfg.Recipients
	}
	if err != nil {
		return nil, err
	}

	base := req.Base()
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" || base.Target(recipient) != nil {
			continue
		}
		if _, err := base.AddRecipient(recipient, now); err != nil {
			return nil, err
		}
	}
	if len(base.Recipients) == 0 {
		return nil, apperrors.NewValidationError("at least one recipient required", map[string]any{"message_type": cfg.MessageType})
	}

	details := req.Details()
	details.RecordID = cfg.RecordID
	details.RequestedCompletionDate = cfg.RequestedCompletionDate

	base.AssignID(f.ids())
	if _, err := domain.NewThreadChain(base); err != nil {
		return nil, err
	}
	return req, nil
}

func (f *RequestFactory) resolve(ctx context.Context, messageType domain.MessageType, groupID *string, originator string) ([]string, error) {
	if f.resolver == nil {
		return nil, apperrors.NewInternalError(errors.New("recipient resolver not configured"))
	}
	ids, err := f.resolver.ResolveRecipients(ctx, messageType, groupID, originator)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != originator {
			out = append(out, id)
		}
	}
	return out, nil
}
