// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/StoryNest/storynest-go/internal/infrastructure/email/templates"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendWelcomeEmail(toEmail, role, tempPassword string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client     *resend.Client
	from       string
	consoleURL string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:     resend.NewClient(config.ResendAPIKey),
		from:       config.EmailFrom,
		consoleURL: config.ConsoleURL,
	}, nil
}

// SendWelcomeEmail composes and sends the invite email for an admin-created account.
func (c *ResendClient) SendWelcomeEmail(toEmail, role, tempPassword string) error {
	subject := "Your StoryNest account is ready"

	content := templates.GetParagraph("Hi there,") +
		templates.GetParagraph(fmt.Sprintf("An account with the %s role has been created for you on the StoryNest console.", role)) +
		templates.GetParagraph(fmt.Sprintf("Your temporary password is: %s", tempPassword)) +
		templates.GetParagraph("Please sign in and change it right away.") +
		templates.GetButton(templates.ButtonProps{
			Text: "Open the console",
			URL:  c.consoleURL,
		})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send welcome email via Resend: %w", err)
	}

	return nil
}
