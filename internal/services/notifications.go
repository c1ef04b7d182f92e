package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/hospital-api/internal/models"
)

const textbeltURL = "https://textbelt.com/text"

// NotificationService texts patients about their appointments through
// Textbelt. Without an API key it only logs.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *logrus.Logger
}

func NewNotificationService(apiKey string, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// AppointmentStatusChanged sends the SMS in the background so the API
// response is not held up.
func (s *NotificationService) AppointmentStatusChanged(apt *models.Appointment) {
	if apt.Phone == "" {
		s.log.WithField("appointmentId", apt.ID.Hex()).Info("SMS not sent: appointment has no phone number.")
		return
	}
	if s.apiKey == "" {
		s.log.WithField("appointmentId", apt.ID.Hex()).Info("SMS not sent: TEXTBELT_API_KEY is not set.")
		return
	}
	go func(phone, body string) {
		if err := s.send(phone, body); err != nil {
			s.log.WithError(err).WithField("phone", phone).Warn("Failed to send SMS via Textbelt")
		}
	}(apt.Phone, statusMessage(apt))
}

func statusMessage(apt *models.Appointment) string {
	return fmt.Sprintf(
		"Appointment %s: %s %s with Dr. %s %s (%s) on %s.",
		apt.Status,
		apt.FirstName,
		apt.LastName,
		apt.Doctor.FirstName,
		apt.Doctor.LastName,
		apt.Department,
		apt.AppointmentDate,
	)
}

func (s *NotificationService) send(phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	s.log.WithField("phone", phone).Info("Successfully sent SMS via Textbelt")
	return nil
}
