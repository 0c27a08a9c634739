package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

func newTestService(sender Sender) *EmailService {
	return NewEmailServiceWithSender(sender, Options{
		From:      "Portfolio Contact <onboarding@resend.dev>",
		To:        "owner@example.com",
		OwnerName: "Jordan Lee",
	})
}

func sampleData() ContactEmailData {
	return ContactEmailData{
		SenderName:  "Asha",
		SenderEmail: "asha@example.com",
		Subject:     "Hi",
		Message:     "Hello <there>",
	}
}

func TestSendContactEmail(t *testing.T) {
	sender := new(mockSender)
	var got Message
	sender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(Message)
	}).Return(nil)

	svc := newTestService(sender)
	require.NoError(t, svc.SendContactEmail(context.Background(), sampleData()))

	assert.Equal(t, "owner@example.com", got.To)
	assert.Equal(t, "asha@example.com", got.ReplyTo)
	assert.Equal(t, "New Message from Asha - Hi", got.Subject)
	assert.Contains(t, got.Text, "Email: asha@example.com")
	assert.Contains(t, got.HTML, "Hello &lt;there&gt;")
}

func TestSendAutoReply(t *testing.T) {
	sender := new(mockSender)
	var got Message
	sender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(Message)
	}).Return(nil)

	svc := newTestService(sender)
	require.NoError(t, svc.SendAutoReply(context.Background(), sampleData()))

	assert.Equal(t, "asha@example.com", got.To)
	assert.Equal(t, "Portfolio Contact <onboarding@resend.dev>", got.From)
	assert.Equal(t, "Thank you for reaching out!", got.Subject)
	assert.Contains(t, got.Text, "Hi Asha,")
	assert.Contains(t, got.Text, "Jordan Lee")
}

func TestSenderErrorPropagates(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("rate limited"))

	svc := newTestService(sender)
	assert.EqualError(t, svc.SendContactEmail(context.Background(), sampleData()), "rate limited")
}

func TestNotConfigured(t *testing.T) {
	svc := NewEmailServiceWithSender(nil, Options{From: "a@example.com", To: "b@example.com"})
	assert.False(t, svc.IsConfigured())
	assert.Equal(t, "none", svc.Provider())
	assert.ErrorIs(t, svc.SendContactEmail(context.Background(), sampleData()), ErrNotConfigured)
	assert.ErrorIs(t, svc.SendAutoReply(context.Background(), sampleData()), ErrNotConfigured)

	assert.Equal(t, "mock", newTestService(new(mockSender)).Provider())
}
