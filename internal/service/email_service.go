package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional mail via Amazon SES. With no sender
// address configured it runs disabled and logs instead of sending,
// which keeps local development working without AWS credentials.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// SendPinResetEmail mails the parent a single-use code that clears the
// parental PIN
func (s *EmailService) SendPinResetEmail(ctx context.Context, toEmail, toName, code string) error {
	subject := "Reset your SpellMaster parent PIN"
	resetURL := fmt.Sprintf("%s/pin/reset?code=%s", s.appBaseURL, code)

	textBody := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Someone asked to reset the parent PIN on your SpellMaster account. "+
			"Open the link below to choose a new one:\n\n%s\n\n"+
			"The link works once and expires in 30 minutes. "+
			"If you did not ask for this, you can ignore this email.\n",
		toName, resetURL)

	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Someone asked to reset the parent PIN on your SpellMaster account. "+
			"Click the button below to choose a new one:</p>"+
			"<p><a href=\"%s\" style=\"background:#4ECDC4;color:#fff;padding:10px 20px;"+
			"border-radius:6px;text-decoration:none\">Reset PIN</a></p>"+
			"<p>The link works once and expires in 30 minutes. "+
			"If you did not ask for this, you can ignore this email.</p>",
		toName, resetURL)

	return s.send(ctx, toEmail, subject, textBody, htmlBody)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, textBody, htmlBody string) error {
	if !s.enabled {
		log.Printf("Email service disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
