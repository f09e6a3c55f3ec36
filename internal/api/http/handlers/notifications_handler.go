package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-service/internal/api/dto"
	"github.com/spec-kit/request-service/internal/service"
)

// NotificationsHandler exposes stored system notifications.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// GetNotification GET /notifications/:id.
func (h *NotificationsHandler) GetNotification(c *fiber.Ctx) error {
	sn, err := h.service.GetNotification(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NotificationResponse{
		ID:               sn.ID,
		NotificationType: sn.NotificationType,
		Originator:       sn.Originator,
		Message:          sn.Message,
		CreatedAt:        sn.CreatedAt,
		Recipients:       targetResponses(sn.Recipients),
		Payload:          h.service.Payload(sn),
	}})
}
