// Package contactform holds the contact form's draft and submission lifecycle,
// and dispatches a submission to one of the interchangeable relay backends.
package contactform

// Field names a draft field, matching the JSON keys of the contact payload.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields lists the draft fields in form order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Draft is the in-progress message. Every field is required before submit.
type Draft struct {
	Name    string `json:"name" validate:"not_blank"`
	Email   string `json:"email" validate:"not_blank"`
	Subject string `json:"subject" validate:"not_blank"`
	Message string `json:"message" validate:"not_blank"`
}

// Get returns the value of field, or "" for an unknown field.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldSubject:
		return d.Subject
	case FieldMessage:
		return d.Message
	}
	return ""
}

// set reports false for unknown fields.
func (d *Draft) set(f Field, value string) bool {
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldSubject:
		d.Subject = value
	case FieldMessage:
		d.Message = value
	default:
		return false
	}
	return true
}

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ErrorKind classifies a failed submission. It is used for logs and metrics;
// users only ever see the ErrorDetail string.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindValidation    ErrorKind = "validation_error"
	KindConfiguration ErrorKind = "configuration_error"
	KindNetwork       ErrorKind = "network_error"
	KindBackend       ErrorKind = "backend_error"
)

// User-facing messages.
const (
	MsgMissingFields = "Please fill in all required fields."
	MsgNotConfigured = "Contact form is not configured. Please try again later."
	MsgNetworkError  = "Network error while sending message."
	MsgSendFailed    = "Failed to send message."
)

// State is a snapshot of the controller.
type State struct {
	Draft       Draft
	Status      Status
	ErrorDetail string
	ErrorKind   ErrorKind
}
