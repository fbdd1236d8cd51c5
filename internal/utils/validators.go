package utils

import (
	"github.com/go-playground/validator/v10"

	"github.com/example/dentline/internal/phone"
)

// NewValidator returns a validator with the custom tags used by request
// payloads registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("nlphone", nlPhone)
	return validate
}

// nlPhone accepts national-format Dutch mobile numbers (06xxxxxxxx).
func nlPhone(fl validator.FieldLevel) bool {
	return phone.Validate(fl.Field().String())
}
