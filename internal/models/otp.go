package models

import "time"

// OTPCode is a one-time passcode sent to a phone number. A phone may have
// several outstanding codes; each is single-use and expires on its own.
type OTPCode struct {
	BaseModel
	PhoneNumber string    `gorm:"index" json:"phone_number"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
	Used        bool      `json:"used"`
}
