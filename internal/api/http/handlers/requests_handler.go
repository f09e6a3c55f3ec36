package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-service/internal/api/dto"
	"github.com/spec-kit/request-service/internal/auth"
	"github.com/spec-kit/request-service/internal/domain"
	"github.com/spec-kit/request-service/internal/policy"
	"github.com/spec-kit/request-service/internal/service"
	apperrors "github.com/spec-kit/request-service/pkg/util/errorutil"
)

// RequestsHandler manages message and request endpoints.
type RequestsHandler struct {
	service *service.CommunicationService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(communicationService *service.CommunicationService) *RequestsHandler {
	return &RequestsHandler{service: communicationService}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.service.CreateRequest(c.UserContext(), service.RequestConfig{
		MessageType:             req.MessageType,
		Originator:              principal.ID(),
		GroupID:                 req.GroupID,
		RecordID:                req.RecordID,
		Recipients:              req.Recipients,
		Message:                 req.Message,
		RequestedCompletionDate: req.RequestedCompletionDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(created)})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	req, err := h.service.GetRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(req)})
}

// UpdateMessage PATCH /requests/:id/message.
func (h *RequestsHandler) UpdateMessage(c *fiber.Ctx) error {
	var body dto.UpdateMessageRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req, err := h.service.UpdateMessage(c.UserContext(), c.Params("id"), body.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(req)})
}

// Vote POST /requests/:id/votes. The caller votes as recipient.
func (h *RequestsHandler) Vote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var body dto.VoteRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req, err := h.service.Vote(c.UserContext(), c.Params("id"), principal.ID(), body.Status, body.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(req)})
}

// Revise POST /requests/:id/revisions.
func (h *RequestsHandler) Revise(c *fiber.Ctx) error {
	var body dto.ReviseRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req, err := h.service.Revise(c.UserContext(), c.Params("id"), service.ReviseInput{
		Message:                 body.Message,
		RequestedCompletionDate: body.RequestedCompletionDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(req)})
}

// Thread GET /threads/:id.
func (h *RequestsHandler) Thread(c *fiber.Ctx) error {
	reqs, err := h.service.Thread(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, requestResponse(req))
	}
	return c.JSON(fiber.Map{"data": items})
}

// LatestInThread GET /threads/:id/latest.
func (h *RequestsHandler) LatestInThread(c *fiber.Ctx) error {
	req, err := h.service.LatestInThread(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(req)})
}

func requestResponse(req domain.Request) dto.RequestResponse {
	base := req.Base()
	details := req.Details()
	resp := dto.RequestResponse{
		ID:                      base.ID,
		Kind:                    base.Kind,
		MessageType:             details.MessageType,
		Policy:                  policy.ForMessageType(details.MessageType).Name(),
		Originator:              base.Originator,
		Message:                 base.Message,
		Status:                  base.Status,
		CreatedAt:               base.CreatedAt,
		ThreadID:                base.ThreadID,
		PreviousID:              base.PreviousID,
		NextID:                  base.NextID,
		Latest:                  base.Latest,
		RecordID:                details.RecordID,
		RequestedCompletionDate: details.RequestedCompletionDate,
		Recipients:              targetResponses(base.Recipients),
	}
	if group, ok := req.(*domain.GroupMessageOrRequest); ok {
		resp.GroupID = &group.GroupID
	}
	return resp
}

func targetResponses(targets []*domain.CommunicationTarget) []dto.TargetResponse {
	out := make([]dto.TargetResponse, 0, len(targets))
	for _, target := range targets {
		out = append(out, dto.TargetResponse{
			Recipient:        target.Recipient,
			Status:           target.Status,
			LastStatusUpdate: target.LastStatusUpdate,
			StatusMessage:    target.StatusMessage,
		})
	}
	return out
}
