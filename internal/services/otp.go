package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/example/dentline/internal/models"
)

// OTPService issues and verifies one-time passcodes.
type OTPService struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewOTPService constructs an OTPService with the given code lifetime.
func NewOTPService(db *gorm.DB, ttl time.Duration) *OTPService {
	return &OTPService{db: db, ttl: ttl}
}

// Issue generates a fresh 6-digit code for the phone number and persists it
// with an expiry. Previously issued codes stay valid until they expire or are
// consumed. Sending the SMS is the caller's job.
func (s *OTPService) Issue(phoneNumber string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	record := models.OTPCode{
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   time.Now().Add(s.ttl),
		Used:        false,
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks the most recent unconsumed, unexpired code for the phone
// number and consumes it. The consumption is a single conditional UPDATE so
// that concurrent verifications of the same code succeed at most once.
func (s *OTPService) Verify(phoneNumber, code string) (bool, error) {
	var record models.OTPCode
	err := s.db.Where("phone_number = ? AND code = ? AND used = ? AND expires_at > ?",
		phoneNumber, code, false, time.Now()).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	res := s.db.Model(&models.OTPCode{}).
		Where("id = ? AND used = ?", record.ID, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

// generateCode draws a uniformly random code in [100000, 999999], so the
// rendered value is always exactly six digits.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
