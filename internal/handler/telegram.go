package handler

import (
	"fmt"

	"quizgram/internal/domain"
	"quizgram/internal/dto"
	"quizgram/internal/service"
	"quizgram/internal/telegram"

	"github.com/gofiber/fiber/v2"
)

// TelegramHandler handles quiz delivery and identity requests coming
// from the Mini-App.
type TelegramHandler struct {
	deliveryService *service.DeliveryService
	resolver        *telegram.Resolver
	notifier        domain.AdminNotifier
}

func NewTelegramHandler(deliveryService *service.DeliveryService, resolver *telegram.Resolver, notifier domain.AdminNotifier) *TelegramHandler {
	return &TelegramHandler{
		deliveryService: deliveryService,
		resolver:        resolver,
		notifier:        notifier,
	}
}

// SendQuiz godoc
// @Summary Send a generated quiz to the user's Telegram chat
// @Description Resolves the acting user from Mini-App launch data and pushes the quiz as polls/messages
// @Tags telegram
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.SendQuizRequest true "Telegram launch data"
// @Success 200 {object} dto.DeliveryResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quiz/{id}/send [post]
func (h *TelegramHandler) SendQuiz(c *fiber.Ctx) error {
	var req dto.SendQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("body", "must be a JSON object with launch data")
	}

	user := h.resolver.Resolve(req.LaunchData)
	result, err := h.deliveryService.DeliverByID(c.UserContext(), c.Params("id"), domain.TargetTelegram, user)
	if err != nil {
		return err
	}

	return c.JSON(dto.DeliveryResponse{
		Success:   true,
		Sent:      result.Sent,
		Skipped:   result.Skipped,
		Shortfall: result.Shortfall,
		Message:   fmt.Sprintf("Sent %d questions to Telegram", result.Sent),
	})
}

// ResolveIdentity godoc
// @Summary Resolve the acting user from Telegram launch data
// @Tags telegram
// @Accept json
// @Produce json
// @Param request body telegram.LaunchData true "Launch data"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} dto.IdentityResponse
// @Router /identity [post]
func (h *TelegramHandler) ResolveIdentity(c *fiber.Ctx) error {
	var data telegram.LaunchData
	if err := c.BodyParser(&data); err != nil {
		return domain.NewInvalidInputError("body", "must be a JSON object with launch data")
	}

	info := h.resolver.Resolve(data)
	if !info.HasID() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IdentityResponse{Success: false})
	}

	return c.JSON(dto.IdentityResponse{
		Success:  true,
		UserID:   info.ID,
		Name:     info.Name,
		FullName: info.FullName,
	})
}

// NotifyAdmin godoc
// @Summary Notify the operator that the mini app was opened
// @Description Fire-and-forget; a notification failure never affects the response
// @Tags telegram
// @Accept json
// @Produce json
// @Param request body dto.NotifyAdminRequest true "Open event"
// @Success 200 {object} dto.NotifyAdminResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /notify-admin [post]
func (h *TelegramHandler) NotifyAdmin(c *fiber.Ctx) error {
	var req dto.NotifyAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("body", "must be a JSON object")
	}
	if req.UserID == "" {
		return domain.NewInvalidInputError("user_id", "must not be empty")
	}

	h.notifier.NotifyAppOpened(req.UserID, req.UserName, req.Page)
	return c.JSON(dto.NotifyAdminResponse{Success: true})
}
