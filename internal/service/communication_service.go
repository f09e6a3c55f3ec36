package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/events"
	"github.com/spec-kit/request-service/internal/observability"
	"github.com/spec-kit/request-service/internal/policy"
	"github.com/spec-kit/request-service/internal/repository"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// CommunicationService coordinates request creation, voting and revisions.
type CommunicationService struct {
	factory    *RequestFactory
	comms      repository.CommunicationRepository
	dispatcher events.Dispatcher
	clock      domain.Clock
	ids        func() string
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// CommunicationDependencies bundles collaborators for the communication service.
type CommunicationDependencies struct {
	Factory           *RequestFactory
	CommunicationRepo repository.CommunicationRepository
	Dispatcher        events.Dispatcher
	Clock             domain.Clock
	IDs               func() string
	Metrics           *observability.Metrics
	Logger            *zap.Logger
}

// ReviseInput describes a new revision of a request.
type ReviseInput struct {
	Message                 string
	RequestedCompletionDate *time.Time
}

// NewCommunicationService constructs the service.
func NewCommunicationService(deps CommunicationDependencies) *CommunicationService {
	s := &CommunicationService{
		factory:    deps.Factory,
		comms:      deps.CommunicationRepo,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		ids:        deps.IDs,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if s.clock == nil {
		s.clock = domain.SystemClock{}
	}
	if s.ids == nil {
		s.ids = uuid.NewString
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateRequest builds a request through the factory and stores it.
func (s *CommunicationService) CreateRequest(ctx context.Context, cfg RequestConfig) (domain.Request, error) {
	req, err := s.factory.Create(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.comms.CreateRequest(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	base := req.Base()
	var groupID *string
	if group, ok := req.(*domain.GroupMessageOrRequest); ok {
		groupID = &group.GroupID
	}
	s.logger.Info("communication created",
		zap.String("communication_id", base.ID),
		zap.String("message_type", req.Details().MessageType.String()),
		zap.Int("recipients", len(base.Recipients)))
	s.publishEvent(ctx, events.Event{
		Type:            events.EventCommunicationCreated,
		CommunicationID: base.ID,
		ActorID:         base.Originator,
		Payload: events.CommunicationCreatedPayload{
			Kind:        base.Kind,
			MessageType: req.Details().MessageType,
			ThreadID:    base.ThreadID,
			GroupID:     groupID,
			Recipients:  base.RecipientIDs(),
		},
	})
	return req, nil
}

// GetRequest loads a request with its targets.
func (s *CommunicationService) GetRequest(ctx context.Context, id string) (domain.Request, error) {
	req, err := s.comms.GetRequest(ctx, id)
	if err != nil {
		return nil, notFound(err, "communication", id)
	}
	return req, nil
}

// Vote records recipient's COMPLETED or REJECTED vote and lets the completion
// policy of the message type recompute the aggregate status.
func (s *CommunicationService) Vote(ctx context.Context, id, recipient string, status domain.CommunicationStatus, comment string) (domain.Request, error) {
	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	details := req.Details()
	base := req.Base()
	if details.Terminated() {
		return nil, apperrors.NewInvalidState("communication already resolved", map[string]any{
			"communication_id": id,
			"status":           base.Status,
		})
	}
	if target := base.Target(recipient); target != nil && target.Status.IsTerminal() {
		return nil, apperrors.NewInvalidState("recipient already voted", map[string]any{
			"communication_id": id,
			"recipient":        recipient,
			"status":           target.Status,
		})
	}

	oldAggregate := base.Status
	var oldTarget domain.CommunicationStatus
	if target := base.Target(recipient); target != nil {
		oldTarget = target.Status
	}
	if err := policy.Vote(details.MessageType, base, recipient, status, s.clock.Now()); err != nil {
		return nil, err
	}
	target := base.Target(recipient)
	target.StatusMessage = strings.TrimSpace(comment)

	if err := s.comms.SaveVote(ctx, base, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	policyName := policy.ForMessageType(details.MessageType).Name()
	s.metrics.RecordVote(policyName, string(status))

	s.publishEvent(ctx, events.Event{
		Type:            events.EventTargetStatusChanged,
		CommunicationID: base.ID,
		ActorID:         recipient,
		Payload: events.TargetStatusChangedPayload{
			Recipient: recipient,
			OldStatus: oldTarget,
			NewStatus: target.Status,
			Comment:   target.StatusMessage,
		},
	})
	if base.Status != oldAggregate {
		s.logger.Info("communication status changed",
			zap.String("communication_id", base.ID),
			zap.String("policy", policyName),
			zap.String("old_status", oldAggregate.String()),
			zap.String("new_status", base.Status.String()))
		s.publishEvent(ctx, events.Event{
			Type:            events.EventCommunicationStatusChanged,
			CommunicationID: base.ID,
			ActorID:         recipient,
			Payload: events.CommunicationStatusChangedPayload{
				Originator:  base.Originator,
				MessageType: details.MessageType,
				OldStatus:   oldAggregate,
				NewStatus:   base.Status,
			},
		})
	}
	return req, nil
}

// UpdateMessage replaces the message text until the request is resolved.
func (s *CommunicationService) UpdateMessage(ctx context.Context, id, message string) (domain.Request, error) {
	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Details().Terminated() {
		return nil, apperrors.NewInvalidState("communication already resolved", map[string]any{"communication_id": id})
	}
	base := req.Base()
	base.SetMessage(message)
	if err := s.comms.UpdateMessage(ctx, id, base.Message); err != nil {
		return nil, notFound(err, "communication", id)
	}
	return req, nil
}

// Revise appends a new revision after the latest message of the thread. The
// revision keeps the type, group, record and recipients of previousID.
func (s *CommunicationService) Revise(ctx context.Context, previousID string, input ReviseInput) (domain.Request, error) {
	prev, err := s.GetRequest(ctx, previousID)
	if err != nil {
		return nil, err
	}
	chain, _, err := s.loadThread(ctx, prev.Base().ThreadID)
	if err != nil {
		return nil, err
	}
	tip := chain.Latest()
	if tip.ID != previousID {
		return nil, apperrors.NewInvalidState("only the latest message of a thread can be revised", map[string]any{
			"communication_id": previousID,
			"latest_id":        tip.ID,
		})
	}

	next, err := s.newRevision(prev, input)
	if err != nil {
		return nil, err
	}
	if err := chain.Append(next.Base()); err != nil {
		return nil, err
	}
	if err := s.comms.SaveRevision(ctx, tip, next); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("communication revised",
		zap.String("communication_id", next.Base().ID),
		zap.String("thread_id", chain.ThreadID()))
	s.publishEvent(ctx, events.Event{
		Type:            events.EventCommunicationRevised,
		CommunicationID: next.Base().ID,
		ActorID:         next.Base().Originator,
		Payload: events.CommunicationRevisedPayload{
			ThreadID:   chain.ThreadID(),
			PreviousID: previousID,
		},
	})
	return next, nil
}

// Thread returns every revision of a thread, oldest first.
func (s *CommunicationService) Thread(ctx context.Context, threadID string) ([]domain.Request, error) {
	_, reqs, err := s.loadThread(ctx, threadID)
	return reqs, err
}

// LatestInThread returns the single latest revision of a thread.
func (s *CommunicationService) LatestInThread(ctx context.Context, threadID string) (domain.Request, error) {
	chain, reqs, err := s.loadThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	latest := chain.Latest()
	for _, req := range reqs {
		if req.Base() == latest {
			return req, nil
		}
	}
	return nil, apperrors.NewInvalidState("thread has no latest message", map[string]any{"thread_id": threadID})
}

func (s *CommunicationService) loadThread(ctx context.Context, threadID string) (*domain.ThreadChain, []domain.Request, error) {
	reqs, err := s.comms.ListThread(ctx, threadID)
	if err != nil {
		return nil, nil, notFound(err, "thread", threadID)
	}
	nodes := make([]*domain.Communication, 0, len(reqs))
	for _, req := range reqs {
		nodes = append(nodes, req.Base())
	}
	chain, err := domain.LoadThreadChain(nodes)
	if err != nil {
		s.logger.Warn("thread failed validation", zap.String("thread_id", threadID), zap.Error(err))
		return nil, nil, err
	}
	return chain, reqs, nil
}

func (s *CommunicationService) newRevision(prev domain.Request, input ReviseInput) (domain.Request, error) {
	details := prev.Details()
	base := prev.Base()
	now := s.clock.Now()

	var (
		next domain.Request
		err  error
	)
	if group, ok := prev.(*domain.GroupMessageOrRequest); ok {
		next, err = domain.NewGroupMessageOrRequest(base.Originator, details.MessageType, group.GroupID, input.Message, now)
	} else {
		next, err = domain.NewMessageOrRequest(base.Originator, details.MessageType, input.Message, now)
	}
	if err != nil {
		return nil, err
	}

	nextDetails := next.Details()
	nextDetails.RecordID = details.RecordID
	nextDetails.RequestedCompletionDate = details.RequestedCompletionDate
	if input.RequestedCompletionDate != nil {
		nextDetails.RequestedCompletionDate = input.RequestedCompletionDate
	}
	for _, recipient := range base.RecipientIDs() {
		if _, err := next.Base().AddRecipient(recipient, now); err != nil {
			return nil, err
		}
	}
	next.Base().AssignID(s.ids())
	return next, nil
}

func (s *CommunicationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
