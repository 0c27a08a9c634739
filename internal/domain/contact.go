package domain

import (
	"context"
	"errors"
)

var (
	// ErrMissingFields is returned when any of the four fields is blank
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmailNotConfigured is returned when no email provider is set up
	ErrEmailNotConfigured = errors.New("email service is not configured")
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"not_blank,max=100,single_line"`
	Email   string `json:"email" binding:"not_blank,email,max=254"`
	Subject string `json:"subject" binding:"not_blank,max=200,single_line"`
	Message string `json:"message" binding:"not_blank,max=5000"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the request, notifies the owner and auto-replies to the sender
	SendContactMessage(ctx context.Context, req *ContactRequest) error
	// RecordMockMessage validates and logs the request without delivering anything
	RecordMockMessage(ctx context.Context, req *ContactRequest) error
}
