package api

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgMissingFields = "Missing required fields"
	msgSendFailed    = "Server error sending email"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the relay and mock contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", handler.SubmitContact)
	public.POST("/send-email", handler.SendEmail)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays the message to the site owner and sends an auto-reply to the sender.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ContactSubmissions.WithLabelValues("contact", "invalid").Inc()
		_ = c.Error(bindError(err))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			metrics.ContactSubmissions.WithLabelValues("contact", "invalid").Inc()
			_ = c.Error(apperror.BadRequest(msgMissingFields))
			return
		}
		metrics.ContactSubmissions.WithLabelValues("contact", "failed").Inc()
		_ = c.Error(apperror.New(http.StatusInternalServerError, msgSendFailed, err))
		return
	}

	metrics.ContactSubmissions.WithLabelValues("contact", "succeeded").Inc()
	response.Success(c, http.StatusOK, "Message sent successfully", nil)
}

// SendEmail godoc
// @Summary      Submit Contact Form (mock)
// @Description  Validates and logs the message without delivering it. Useful for testing the form.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ContactSubmissions.WithLabelValues("send_email", "invalid").Inc()
		_ = c.Error(bindError(err))
		return
	}

	if err := h.contactUC.RecordMockMessage(c.Request.Context(), &req); err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			metrics.ContactSubmissions.WithLabelValues("send_email", "invalid").Inc()
			_ = c.Error(apperror.BadRequest(msgMissingFields))
			return
		}
		_ = c.Error(apperror.New(http.StatusInternalServerError, "Unable to process request", err))
		return
	}

	metrics.ContactSubmissions.WithLabelValues("send_email", "succeeded").Inc()
	response.Success(c, http.StatusOK, "Email sent successfully", nil)
}

// bindError maps binding failures onto the contact error envelope.
func bindError(err error) *apperror.AppError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.BadRequest("Invalid request body")
	}
	details := validation.FormatValidationErrors(err)
	if validation.HasMissingField(err) {
		return apperror.BadRequest(msgMissingFields).WithDetails(details)
	}
	return apperror.BadRequest("Invalid contact form fields").WithDetails(details)
}
