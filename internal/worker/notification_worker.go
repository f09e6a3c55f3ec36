package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/request-service/internal/events"
	"github.com/spec-kit/request-service/internal/service"
)

// StartNotificationWorker registers notification handlers and an audit log
// for revisions, which produce no notification of their own.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher, logger *zap.Logger) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher.Subscribe(events.EventCommunicationRevised, func(_ context.Context, event events.Event) error {
		logger.Info("CommunicationRevised",
			zap.String("communication_id", event.CommunicationID),
			zap.String("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		return nil
	})
}
