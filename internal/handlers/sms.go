package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/dentline/internal/services"
)

// SMSHandler exposes the gateway trampoline endpoint.
type SMSHandler struct {
	sms *services.SMSService
}

// NewSMSHandler constructs an SMSHandler.
func NewSMSHandler(sms *services.SMSService) *SMSHandler {
	return &SMSHandler{sms: sms}
}

type dispatchRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Dispatch forwards a message to the SMS gateway. Without credentials the
// message is only logged, which still counts as success.
func (h *SMSHandler) Dispatch(c *fiber.Ctx) error {
	var req dispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.To == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number and message are required")
	}

	if err := h.sms.Send(req.To, req.Message); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send SMS via gateway")
	}

	message := "SMS sent via gateway"
	if !h.sms.Configured() {
		message = "SMS logged (gateway not fully configured)"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
