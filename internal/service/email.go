package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService sends account notices through Resend.
// In development it only logs what would be sent.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	profileURL := fmt.Sprintf("%s/profile", s.appURL)
	subject, body := welcomeEmailTemplate(name, profileURL, s.appName)

	return s.send(ctx, "welcome", email, subject, body, "url", profileURL)
}

// SendEmailChangeNotification tells the previous address that the account moved.
func (s *EmailService) SendEmailChangeNotification(ctx context.Context, oldEmail, newEmail, name string) error {
	subject, body := emailChangeNotificationTemplate(name, newEmail, s.appName)

	return s.send(ctx, "email_change_notification", oldEmail, subject, body, "new_email", newEmail)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string, logArgs ...any) error {
	if s.isDev {
		args := append([]any{"type", kind, "to", to, "subject", subject}, logArgs...)
		slog.Info("email sent (dev mode)", args...)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
