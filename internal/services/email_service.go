package services

import (
	"fmt"

	"cobfacil_backend/internal/email"
)

// EmailService is the high-level email collaborator used by other services.
type EmailService struct {
	provider email.Provider
	baseURL  string
}

func NewEmailService(provider email.Provider, baseURL string) *EmailService {
	return &EmailService{
		provider: provider,
		baseURL:  baseURL,
	}
}

func (s *EmailService) SendNotificationEmail(to, title, message string) error {
	return s.provider.SendWithTemplate("notification", email.TemplateData{
		"Title":   title,
		"Message": message,
	}, &email.Email{
		To:      []string{to},
		Subject: title,
	})
}

func (s *EmailService) SendPasswordResetEmail(to, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, resetToken)

	return s.provider.SendWithTemplate("password_reset", email.TemplateData{
		"ResetURL":  resetURL,
		"ExpiresIn": "1 hora",
	}, &email.Email{
		To:      []string{to},
		Subject: "Recuperação de senha",
	})
}

func (s *EmailService) SendChargeOverdueEmail(to, message, amount, dueDate string) error {
	return s.provider.SendWithTemplate("charge_overdue", email.TemplateData{
		"Message": message,
		"Amount":  amount,
		"DueDate": dueDate,
	}, &email.Email{
		To:      []string{to},
		Subject: "Cobrança vencida",
	})
}

func (s *EmailService) Close() error {
	return s.provider.Close()
}
