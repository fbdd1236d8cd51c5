package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/dentline/internal/config"
	"github.com/example/dentline/internal/models"
	"github.com/example/dentline/internal/phone"
	"github.com/example/dentline/internal/services"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
	sms *services.SMSService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config, sms *services.SMSService) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, sms: sms}
}

type createAppointmentRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Note        string `json:"note"`
}

// CreateAppointment creates an appointment for a phone number, creating or
// renaming the user on the way, and attempts one reminder SMS.
func (h *AdminHandler) CreateAppointment(c *fiber.Ctx) error {
	var req createAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.PhoneNumber == "" || req.Date == "" || req.Time == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number, date, and time are required")
	}

	phoneNumber := phone.Normalize(req.PhoneNumber)

	var user models.User
	err := h.db.Where("phone_number = ?", phoneNumber).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{PhoneNumber: phoneNumber, Name: req.Name}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	case req.Name != "" && user.Name != req.Name:
		if err := h.db.Model(&user).Update("name", req.Name).Error; err != nil {
			return err
		}
	}

	appointment := models.Appointment{
		UserID: user.ID,
		Date:   req.Date,
		Time:   req.Time,
		Note:   req.Note,
		Status: models.AppointmentScheduled,
	}
	if err := h.db.Create(&appointment).Error; err != nil {
		return err
	}

	userName := req.Name
	if userName == "" {
		userName = "Patient"
	}
	// The appointment exists either way; a failed reminder is only logged.
	if err := h.sms.Send(phoneNumber, services.FormatAppointmentSMS(userName, req.Date, req.Time)); err != nil {
		log.Printf("appointment reminder SMS to %s failed: %v", phoneNumber, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"appointment": appointment,
	})
}

// ListAppointments returns every appointment joined with user identity,
// soonest first.
func (h *AdminHandler) ListAppointments(c *fiber.Ctx) error {
	appointments := []appointmentRow{}
	err := h.db.Model(&models.Appointment{}).
		Select("appointments.id, appointments.user_id, appointments.date, appointments.time, appointments.note, appointments.status, appointments.created_at, users.name AS user_name, users.phone_number").
		Joins("JOIN users ON users.id = appointments.user_id").
		Order("appointments.date asc, appointments.time asc").
		Scan(&appointments).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"appointments": appointments})
}

// SMSSettings returns the configured gateway values.
func (h *AdminHandler) SMSSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"apiKey":          h.cfg.TextBeeAPIKey,
		"deviceId":        h.cfg.TextBeeDeviceID,
		"webhookEndpoint": h.cfg.TextBeeWebhookURL,
		"signingSecret":   h.cfg.TextBeeSignSecret,
	})
}
