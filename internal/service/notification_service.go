package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/request-service/internal/config"
	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/events"
	"github.com/spec-kit/request-service/internal/notification"
	"github.com/spec-kit/request-service/internal/repository"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// NotificationService stores system notifications and reacts to domain events.
type NotificationService struct {
	notifications repository.NotificationRepository
	codec         *notification.PayloadCodec
	dispatcher    events.Dispatcher
	clock         domain.Clock
	ids           func() string
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	Codec            *notification.PayloadCodec
	Dispatcher       events.Dispatcher
	Clock            domain.Clock
	IDs              func() string
	Logger           *zap.Logger
}

// NotifyInput describes a system notification for one recipient.
type NotifyInput struct {
	Recipient        string
	NotificationType domain.NotificationType
	Message          string
	Payload          any
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	n := &NotificationService{
		notifications: deps.NotificationRepo,
		codec:         deps.Codec,
		dispatcher:    deps.Dispatcher,
		clock:         deps.Clock,
		ids:           deps.IDs,
		logger:        deps.Logger,
		cfg:           cfg,
	}
	if n.codec == nil {
		n.codec = notification.NewPayloadCodec(nil, nil)
	}
	if n.clock == nil {
		n.clock = domain.SystemClock{}
	}
	if n.ids == nil {
		n.ids = uuid.NewString
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if strings.TrimSpace(n.cfg.SystemSender) == "" {
		n.cfg.SystemSender = "system"
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCommunicationCreated, n.handleCommunicationCreated)
	n.dispatcher.Subscribe(events.EventTargetStatusChanged, n.handleTargetStatusChanged)
	n.dispatcher.Subscribe(events.EventCommunicationStatusChanged, n.handleCommunicationStatusChanged)
}

// Notify stores a notification with its payload serialized by the codec.
func (n *NotificationService) Notify(ctx context.Context, input NotifyInput) (*domain.SystemNotification, error) {
	if !input.NotificationType.IsValid() {
		return nil, apperrors.NewConfigurationError("unknown notification type", map[string]any{"notification_type": input.NotificationType})
	}
	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		return nil, apperrors.NewValidationError("recipient required", nil)
	}

	now := n.clock.Now()
	sn, err := domain.NewSystemNotification(n.cfg.SystemSender, input.NotificationType, input.Message, now)
	if err != nil {
		return nil, err
	}
	if _, err := sn.AddRecipient(recipient, now); err != nil {
		return nil, err
	}
	if err := n.codec.Attach(sn, input.Payload); err != nil {
		return nil, apperrors.NewValidationError("payload cannot be encoded", map[string]any{"error": err.Error()})
	}
	sn.AssignID(n.ids())
	sn.ThreadID = sn.ID
	sn.Latest = true

	if err := n.notifications.Create(ctx, sn); err != nil {
		return nil, apperrors.MapError(err)
	}
	n.logger.Info("notification created",
		zap.String("notification_id", sn.ID),
		zap.String("notification_type", string(sn.NotificationType)),
		zap.String("recipient", recipient))
	return sn, nil
}

// GetNotification loads a stored notification.
func (n *NotificationService) GetNotification(ctx context.Context, id string) (*domain.SystemNotification, error) {
	sn, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "notification", id)
	}
	return sn, nil
}

// Payload decodes the typed payload of sn. Undecodable payloads are logged
// and reported as absent so notifications stay displayable.
func (n *NotificationService) Payload(sn *domain.SystemNotification) any {
	payload, err := n.codec.Payload(sn)
	if err != nil {
		n.logger.Warn("notification payload undecodable",
			zap.String("notification_id", sn.ID),
			zap.String("notification_type", string(sn.NotificationType)),
			zap.Error(err))
		return nil
	}
	return payload
}

func (n *NotificationService) handleCommunicationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CommunicationCreated", zap.String("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTargetStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TargetStatusChanged", zap.String("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handleCommunicationStatusChanged tells the originator that their request was resolved.
func (n *NotificationService) handleCommunicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommunicationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	_, err := n.Notify(ctx, NotifyInput{
		Recipient:        payload.Originator,
		NotificationType: domain.NotificationRequestStatusChange,
		Message:          fmt.Sprintf("Your request changed from %s to %s", payload.OldStatus, payload.NewStatus),
		Payload: &notification.RequestStatusChangeNotification{
			CommunicationID: event.CommunicationID,
			MessageType:     payload.MessageType,
			OldStatus:       payload.OldStatus,
			NewStatus:       payload.NewStatus,
			ChangedBy:       event.ActorID,
		},
	})
	if err != nil {
		n.logger.Warn("status change notification failed", zap.String("communication_id", event.CommunicationID), zap.Error(err))
		return err
	}
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("communication_id", event.CommunicationID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("communication_id", event.CommunicationID),
		zap.String("event_type", string(event.Type)))
}
