package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/dentline/internal/config"
	"github.com/example/dentline/internal/middleware"
	"github.com/example/dentline/internal/models"
	"github.com/example/dentline/internal/phone"
	"github.com/example/dentline/internal/services"
	"github.com/example/dentline/internal/utils"
)

// AuthHandler bundles dependencies for the OTP login endpoints.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	validate *validator.Validate
	otp      *services.OTPService
	sms      *services.SMSService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, validate *validator.Validate, otp *services.OTPService, sms *services.SMSService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, validate: validate, otp: otp, sms: sms}
}

type requestOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,nlphone"`
}

// RequestOTP issues a one-time code for the phone number and sends it by SMS.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req requestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "valid phone number (e.g. 0612345678) is required")
	}

	phoneNumber := phone.Normalize(req.PhoneNumber)

	code, err := h.otp.Issue(phoneNumber)
	if err != nil {
		return err
	}

	if err := h.sms.Send(phoneNumber, services.FormatOTPSMS(code)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to send SMS")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,nlphone"`
	Code        string `json:"code" validate:"required"`
}

// VerifyOTP consumes a valid code, creates the user on first login and sets
// the session cookie.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "phone number and code are required")
	}

	phoneNumber := phone.Normalize(req.PhoneNumber)

	ok, err := h.otp.Verify(phoneNumber, req.Code)
	if err != nil {
		return err
	}
	// One message for wrong, expired and consumed codes alike.
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
	}

	var user models.User
	err = h.db.Where("phone_number = ?", phoneNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{PhoneNumber: phoneNumber}
		err = h.db.Create(&user).Error
	}
	if err != nil {
		return err
	}

	token, err := utils.GenerateSessionToken(h.cfg.JWTSecret, phoneNumber, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(h.cfg.TokenExpires.Seconds()),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"message": "Authentication successful",
	})
}

// Logout expires the session cookie. Sessions are stateless, so this touches
// no server-side state; a token captured elsewhere stays valid until expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})

	return c.JSON(fiber.Map{"success": true})
}

// Me returns the authenticated caller's user record.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	phoneNumber, ok := middleware.GetCurrentPhone(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Where("phone_number = ?", phoneNumber).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
