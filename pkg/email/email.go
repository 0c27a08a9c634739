package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	textTemplate "text/template"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/pkg/metrics"
)

var ErrNotConfigured = errors.New("email service is not configured")

// EmailService renders and sends the two contact form emails
type EmailService struct {
	sender        Sender
	fromEmail     string
	autoReplyFrom string
	toEmail       string
	ownerName     string
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
	OwnerName   string
}

// Options configures an EmailService built around an explicit Sender.
type Options struct {
	From          string
	AutoReplyFrom string
	To            string
	OwnerName     string
}

// NewEmailService picks Resend when an API key is present, SMTP otherwise.
func NewEmailService(cfg *config.Config) *EmailService {
	var sender Sender
	switch {
	case cfg.ResendAPIKey != "":
		sender = NewResendSender(cfg.ResendAPIKey)
	case cfg.SMTPHost != "" && cfg.SMTPUsername != "" && cfg.SMTPPassword != "":
		sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	return NewEmailServiceWithSender(sender, Options{
		From:          cfg.ContactFrom,
		AutoReplyFrom: cfg.AutoReplyFrom,
		To:            cfg.ContactEmailTo,
		OwnerName:     cfg.OwnerName,
	})
}

func NewEmailServiceWithSender(sender Sender, opts Options) *EmailService {
	autoReplyFrom := opts.AutoReplyFrom
	if autoReplyFrom == "" {
		autoReplyFrom = opts.From
	}
	return &EmailService{
		sender:        sender,
		fromEmail:     opts.From,
		autoReplyFrom: autoReplyFrom,
		toEmail:       opts.To,
		ownerName:     opts.OwnerName,
	}
}

// contactEmailTemplate is the HTML template for contact form emails
const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #2563eb; margin-top: 10px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Portfolio Message</h1>
        </div>
        <div class="content">
            <p><span class="label">Name:</span> {{.SenderName}}</p>
            <p><span class="label">Email:</span> {{.SenderEmail}}</p>
            <p><span class="label">Subject:</span> {{.Subject}}</p>
            <div class="label">Message:</div>
            <div class="message-box">{{.Message}}</div>
        </div>
    </div>
</body>
</html>`

const contactTextTemplate = `Name: {{.SenderName}}
Email: {{.SenderEmail}}

Message:
{{.Message}}
`

const autoReplyTextTemplate = `Hi {{.SenderName}},

Thank you for contacting me through my portfolio website.
I have received your message and will get back to you shortly.

Best regards,
{{.OwnerName}}
`

var (
	contactHTML   = template.Must(template.New("contact").Parse(contactEmailTemplate))
	contactText   = textTemplate.Must(textTemplate.New("contact_text").Parse(contactTextTemplate))
	autoReplyText = textTemplate.Must(textTemplate.New("auto_reply").Parse(autoReplyTextTemplate))
)

// SendContactEmail sends the submission to the site owner, reply-to set to the submitter
func (s *EmailService) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	var html bytes.Buffer
	if err := contactHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	var text bytes.Buffer
	if err := contactText.Execute(&text, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	return s.send(ctx, "notification", Message{
		From:    s.fromEmail,
		To:      s.toEmail,
		ReplyTo: data.SenderEmail,
		Subject: fmt.Sprintf("New Message from %s - %s", data.SenderName, data.Subject),
		Text:    text.String(),
		HTML:    html.String(),
	})
}

// SendAutoReply sends the courtesy acknowledgement back to the submitter
func (s *EmailService) SendAutoReply(ctx context.Context, data ContactEmailData) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	if data.OwnerName == "" {
		data.OwnerName = s.ownerName
	}
	var text bytes.Buffer
	if err := autoReplyText.Execute(&text, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	return s.send(ctx, "auto_reply", Message{
		From:    s.autoReplyFrom,
		To:      data.SenderEmail,
		Subject: "Thank you for reaching out!",
		Text:    text.String(),
	})
}

func (s *EmailService) send(ctx context.Context, kind string, msg Message) error {
	start := time.Now()
	err := s.sender.Send(ctx, msg)
	metrics.ObserveEmailSend(kind, err, time.Since(start))
	return err
}

// IsConfigured checks if the email service has a provider and a recipient
func (s *EmailService) IsConfigured() bool {
	return s != nil && s.sender != nil && s.toEmail != "" && s.fromEmail != ""
}

// Provider names the configured sender, or "none".
func (s *EmailService) Provider() string {
	if s == nil || s.sender == nil {
		return "none"
	}
	return s.sender.Name()
}
