package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/dentline/internal/middleware"
	"github.com/example/dentline/internal/models"
)

// AppointmentHandler serves the patient-facing appointment endpoints.
type AppointmentHandler struct {
	db *gorm.DB
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{db: db}
}

// appointmentRow is an appointment joined with its owner's identity.
type appointmentRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UserName    string    `json:"user_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

// ListAppointments returns the caller's own appointments, soonest first.
func (h *AppointmentHandler) ListAppointments(c *fiber.Ctx) error {
	phoneNumber, ok := middleware.GetCurrentPhone(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	appointments := []appointmentRow{}
	err := h.db.Model(&models.Appointment{}).
		Select("appointments.id, appointments.user_id, appointments.date, appointments.time, appointments.note, appointments.status, appointments.created_at, users.name AS user_name").
		Joins("JOIN users ON users.id = appointments.user_id").
		Where("users.phone_number = ?", phoneNumber).
		Order("appointments.date asc, appointments.time asc").
		Scan(&appointments).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"appointments": appointments})
}
