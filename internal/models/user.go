package models

// User is a patient identified by their phone number in international form.
type User struct {
	BaseModel
	PhoneNumber  string        `gorm:"uniqueIndex" json:"phone_number"`
	Name         string        `json:"name"`
	Appointments []Appointment `json:"appointments,omitempty"`
}
