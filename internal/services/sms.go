package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/dentline/internal/config"
)

// SMSService sends text messages through the TextBee gateway. Without
// credentials it degrades to logging the outbound message, which keeps
// development setups working end to end.
type SMSService struct {
	apiKey   string
	deviceID string
	baseURL  string
	client   *http.Client
}

// NewSMSService constructs an SMSService from configuration.
func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		apiKey:   cfg.TextBeeAPIKey,
		deviceID: cfg.TextBeeDeviceID,
		baseURL:  strings.TrimRight(cfg.TextBeeBaseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether gateway credentials are present.
func (s *SMSService) Configured() bool {
	return s.apiKey != "" && s.deviceID != ""
}

type smsSendRequest struct {
	DeviceID    string `json:"device_id"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// Send delivers a message to the phone number. With no credentials the send
// is a logged no-op and counts as success. Gateway failures are returned to
// the caller; there is no retry.
func (s *SMSService) Send(to, message string) error {
	if !s.Configured() {
		log.Printf("[SMS] gateway not configured, logging only. To %s: %s", to, message)
		return nil
	}

	payload, err := json.Marshal(smsSendRequest{
		DeviceID:    s.deviceID,
		PhoneNumber: to,
		Message:     message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/sms/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sms request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[SMS] send to %s failed: %v", to, err)
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[SMS] gateway returned status %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// FormatAppointmentSMS renders the appointment reminder message.
func FormatAppointmentSMS(name, date, timeOfDay string) string {
	return fmt.Sprintf("Hi %s, you have a dental appointment on %s at %s. Please confirm or call if you need to reschedule.", name, date, timeOfDay)
}

// FormatOTPSMS renders the verification-code message.
func FormatOTPSMS(code string) string {
	return fmt.Sprintf("Your appointment system verification code is: %s. This code expires in 10 minutes.", code)
}
