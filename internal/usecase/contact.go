package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
)

// ContactMailer is the slice of email.EmailService the contact flow needs.
type ContactMailer interface {
	IsConfigured() bool
	SendContactEmail(ctx context.Context, data email.ContactEmailData) error
	SendAutoReply(ctx context.Context, data email.ContactEmailData) error
}

type contactUsecase struct {
	mailer ContactMailer
	log    *slog.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer ContactMailer, log *slog.Logger) domain.ContactUsecase {
	return &contactUsecase{
		mailer: mailer,
		log:    log.With("component", "contact_usecase"),
	}
}

// SendContactMessage validates the contact request and sends both emails
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	data, err := normalize(req)
	if err != nil {
		return err
	}

	if !uc.mailer.IsConfigured() {
		return domain.ErrEmailNotConfigured
	}

	if err := uc.mailer.SendContactEmail(ctx, data); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return domain.ErrEmailNotConfigured
		}
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	if err := uc.mailer.SendAutoReply(ctx, data); err != nil {
		return fmt.Errorf("failed to send auto-reply: %w", err)
	}

	uc.log.InfoContext(ctx, "contact message relayed", "subject", data.Subject)
	return nil
}

// RecordMockMessage logs the submission and reports success without sending anything
func (uc *contactUsecase) RecordMockMessage(ctx context.Context, req *domain.ContactRequest) error {
	data, err := normalize(req)
	if err != nil {
		return err
	}

	uc.log.InfoContext(ctx, "received contact form submission",
		"name", data.SenderName,
		"email", data.SenderEmail,
		"subject", data.Subject,
		"message", data.Message,
	)
	return nil
}

func normalize(req *domain.ContactRequest) (email.ContactEmailData, error) {
	data := email.ContactEmailData{
		SenderName:  strings.TrimSpace(req.Name),
		SenderEmail: strings.TrimSpace(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
	}
	if data.SenderName == "" || data.SenderEmail == "" || data.Subject == "" || data.Message == "" {
		return email.ContactEmailData{}, domain.ErrMissingFields
	}
	return data, nil
}
