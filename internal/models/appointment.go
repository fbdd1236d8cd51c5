package models

import "github.com/google/uuid"

// Appointment statuses. Status is set at creation and currently never
// transitions; the constants exist so a future mutation endpoint has a
// shared vocabulary.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment belongs to exactly one user. Date and time are kept as the
// ISO strings the clients submit ("2025-01-31", "14:30"); lexical order on
// them is chronological order.
type Appointment struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Date   string    `gorm:"index" json:"date"`
	Time   string    `json:"time"`
	Note   string    `json:"note"`
	Status string    `gorm:"default:scheduled" json:"status"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}
