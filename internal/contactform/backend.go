package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Backend is one submission strategy: where the draft is posted and how the
// response is judged.
type Backend interface {
	// Name is a short label for logs and metrics.
	Name() string
	// Preflight checks configuration before any network call.
	Preflight() error
	// Send performs exactly one POST. It returns nil on success, a
	// *RejectedError when the backend answered with a failure, and any other
	// error when no usable response was received.
	Send(ctx context.Context, draft Draft) error
}

// ErrMissingAccessKey is returned by Preflight when the relay key is absent.
var ErrMissingAccessKey = errors.New("contactform: relay access key is not configured")

// RejectedError is a received response that the backend judged unsuccessful.
type RejectedError struct {
	StatusCode int
	// Message is the backend's own error text, possibly empty.
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contactform: backend rejected submission (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("contactform: backend rejected submission (status %d): %s", e.StatusCode, e.Message)
}

// envelope covers the response bodies of all three backends.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 10

// poster issues the single POST and returns status and raw body.
type poster struct {
	client *http.Client
	log    *slog.Logger
}

func newPoster(client *http.Client, log *slog.Logger) poster {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return poster{client: client, log: log}
}

// post sends payload as JSON. logged is what gets written to the debug log,
// so callers can strip credentials from it.
func (p poster) post(ctx context.Context, backend, url string, payload, logged interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("contactform: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("contactform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	p.log.DebugContext(ctx, "contact submission outbound", "backend", backend, "url", url, "payload", logged)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("contactform: post to %s: %w", backend, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("contactform: read response: %w", err)
	}

	p.log.DebugContext(ctx, "contact submission response", "backend", backend, "status", resp.StatusCode, "body", string(raw))
	return resp.StatusCode, raw, nil
}

func isOK(status int) bool { return status >= 200 && status < 300 }

// EmailRelay posts to the backend's own /api/contact relay, which forwards
// the message to the email provider. Success is the body's success flag.
type EmailRelay struct {
	URL string
	p   poster
}

func NewEmailRelay(baseURL string, client *http.Client, log *slog.Logger) *EmailRelay {
	return &EmailRelay{
		URL: strings.TrimRight(baseURL, "/") + "/api/contact",
		p:   newPoster(client, log),
	}
}

func (b *EmailRelay) Name() string     { return "relay" }
func (b *EmailRelay) Preflight() error { return nil }

func (b *EmailRelay) Send(ctx context.Context, draft Draft) error {
	status, raw, err := b.p.post(ctx, b.Name(), b.URL, draft, draft)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("contactform: decode relay response: %w", err)
	}
	if env.Success != nil && *env.Success {
		return nil
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	return &RejectedError{StatusCode: status, Message: msg}
}

// MockRelay posts to /api/send-email, which logs and acknowledges without
// delivering. Success is any 2xx status.
type MockRelay struct {
	URL string
	p   poster
}

func NewMockRelay(baseURL string, client *http.Client, log *slog.Logger) *MockRelay {
	return &MockRelay{
		URL: strings.TrimRight(baseURL, "/") + "/api/send-email",
		p:   newPoster(client, log),
	}
}

func (b *MockRelay) Name() string     { return "mock" }
func (b *MockRelay) Preflight() error { return nil }

func (b *MockRelay) Send(ctx context.Context, draft Draft) error {
	status, raw, err := b.p.post(ctx, b.Name(), b.URL, draft, draft)
	if err != nil {
		return err
	}
	if isOK(status) {
		return nil
	}

	var env envelope
	_ = json.Unmarshal(raw, &env) // body is optional on failure
	msg := env.Error
	if msg == "" {
		msg = fmt.Sprintf("Request failed (%d)", status)
	}
	return &RejectedError{StatusCode: status, Message: msg}
}

// DefaultThirdPartyURL is the hosted form relay endpoint.
const DefaultThirdPartyURL = "https://api.web3forms.com/submit"

// ThirdPartyRelay posts straight to a hosted form relay service. It needs a
// public access key; success is any 2xx status.
type ThirdPartyRelay struct {
	URL       string
	AccessKey string
	FromName  string
	ToEmail   string
	p         poster
}

type thirdPartyPayload struct {
	AccessKey string `json:"access_key,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	FromName  string `json:"from_name"`
	ReplyTo   string `json:"reply_to"`
	ToEmail   string `json:"to_email,omitempty"`
}

func NewThirdPartyRelay(url, accessKey, fromName, toEmail string, client *http.Client, log *slog.Logger) *ThirdPartyRelay {
	if url == "" {
		url = DefaultThirdPartyURL
	}
	if fromName == "" {
		fromName = "Portfolio Contact Form"
	}
	return &ThirdPartyRelay{
		URL:       url,
		AccessKey: accessKey,
		FromName:  fromName,
		ToEmail:   toEmail,
		p:         newPoster(client, log),
	}
}

func (b *ThirdPartyRelay) Name() string { return "web3forms" }

func (b *ThirdPartyRelay) Preflight() error {
	if strings.TrimSpace(b.AccessKey) == "" {
		return ErrMissingAccessKey
	}
	return nil
}

func (b *ThirdPartyRelay) Send(ctx context.Context, draft Draft) error {
	payload := thirdPartyPayload{
		AccessKey: b.AccessKey,
		Name:      draft.Name,
		Email:     draft.Email,
		Subject:   draft.Subject,
		Message:   draft.Message,
		FromName:  b.FromName,
		ReplyTo:   draft.Email,
		ToEmail:   b.ToEmail,
	}
	logged := payload
	logged.AccessKey = ""

	status, raw, err := b.p.post(ctx, b.Name(), b.URL, payload, logged)
	if err != nil {
		return err
	}
	if isOK(status) {
		return nil
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	return &RejectedError{StatusCode: status, Message: msg}
}

// BackendConfig selects and configures a backend. Values are passed in
// explicitly so tests never depend on process environment.
type BackendConfig struct {
	Kind       string // relay, mock or web3forms
	BaseURL    string // this backend, for relay and mock
	RelayURL   string // hosted relay endpoint, for web3forms
	AccessKey  string
	FromName   string
	ToEmail    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewBackend builds the strategy named by cfg.Kind.
func NewBackend(cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "relay":
		return NewEmailRelay(cfg.BaseURL, cfg.HTTPClient, cfg.Logger), nil
	case "mock":
		return NewMockRelay(cfg.BaseURL, cfg.HTTPClient, cfg.Logger), nil
	case "web3forms", "thirdparty":
		return NewThirdPartyRelay(cfg.RelayURL, cfg.AccessKey, cfg.FromName, cfg.ToEmail, cfg.HTTPClient, cfg.Logger), nil
	}
	return nil, fmt.Errorf("contactform: unknown backend %q", cfg.Kind)
}
