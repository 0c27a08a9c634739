package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer answers every POST with status/body and counts calls.
type stubServer struct {
	*httptest.Server
	calls atomic.Int32

	mu       sync.Mutex
	lastBody map[string]string
}

func newStub(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		var got map[string]string
		_ = json.NewDecoder(r.Body).Decode(&got)
		s.mu.Lock()
		s.lastBody = got
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) body() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fill(c *Controller, d Draft) {
	c.OnFieldChange(FieldName, d.Name)
	c.OnFieldChange(FieldEmail, d.Email)
	c.OnFieldChange(FieldSubject, d.Subject)
	c.OnFieldChange(FieldMessage, d.Message)
}

var asha = Draft{Name: "Asha", Email: "asha@example.com", Subject: "Hi", Message: "Hello there"}

func TestSubmitRejectsEachMissingField(t *testing.T) {
	for _, field := range Fields {
		t.Run(string(field), func(t *testing.T) {
			stub := newStub(t, http.StatusOK, `{"success":true}`)
			c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
			fill(c, asha)
			c.OnFieldChange(field, "")

			var seen []Status
			c.Subscribe(func(s State) { seen = append(seen, s.Status) })

			require.NoError(t, c.Submit(context.Background()))

			st := c.State()
			assert.Equal(t, StatusFailed, st.Status)
			assert.Equal(t, MsgMissingFields, st.ErrorDetail)
			assert.Equal(t, KindValidation, st.ErrorKind)
			assert.Equal(t, int32(0), stub.calls.Load())
			assert.NotContains(t, seen, StatusPending)
		})
	}
}

func TestSubmitRejectsWhitespaceOnlyField(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
	fill(c, asha)
	c.OnFieldChange(FieldSubject, "   ")

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, StatusFailed, c.State().Status)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestSubmitEmptyEmailScenario(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
	fill(c, Draft{Name: "Asha", Email: "", Subject: "Hi", Message: "Hello there"})

	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, "failed", st.Status.String())
	assert.Equal(t, "Please fill in all required fields.", st.ErrorDetail)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestSubmitRelaySuccessScenario(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
	fill(c, asha)

	var seen []Status
	c.Subscribe(func(s State) { seen = append(seen, s.Status) })

	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Equal(t, Draft{}, st.Draft)
	assert.Empty(t, st.ErrorDetail)
	assert.Equal(t, []Status{StatusPending, StatusSucceeded}, seen)
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, map[string]string{
		"name": "Asha", "email": "asha@example.com", "subject": "Hi", "message": "Hello there",
	}, stub.body())
}

func TestSubmitRelayRejection(t *testing.T) {
	t.Run("uses the backend error", func(t *testing.T) {
		stub := newStub(t, http.StatusBadRequest, `{"success":false,"error":"Missing required fields"}`)
		c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))

		st := c.State()
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, KindBackend, st.ErrorKind)
		assert.Equal(t, "Missing required fields", st.ErrorDetail)
		assert.Equal(t, asha, st.Draft, "draft survives a failed attempt")
	})

	t.Run("falls back to a generic message", func(t *testing.T) {
		stub := newStub(t, http.StatusOK, `{"success":false}`)
		c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, MsgSendFailed, c.State().ErrorDetail)
		assert.Equal(t, asha, c.State().Draft)
	})

	t.Run("uses the backend message when error is absent", func(t *testing.T) {
		stub := newStub(t, http.StatusInternalServerError, `{"success":false,"message":"Mailbox unavailable"}`)
		c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, KindBackend, c.State().ErrorKind)
		assert.Equal(t, "Mailbox unavailable", c.State().ErrorDetail)
	})

	t.Run("treats a non-JSON body as a network error", func(t *testing.T) {
		stub := newStub(t, http.StatusBadGateway, `<html>Bad Gateway</html>`)
		c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, KindNetwork, c.State().ErrorKind)
		assert.Equal(t, MsgNetworkError, c.State().ErrorDetail)
	})
}

func TestSubmitTransportFailure(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	url := stub.URL
	stub.Close()

	c := NewController(NewEmailRelay(url, nil, quietLogger()), WithLogger(quietLogger()))
	fill(c, asha)

	require.NoError(t, c.Submit(context.Background()))

	st := c.State()
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, KindNetwork, st.ErrorKind)
	assert.Equal(t, MsgNetworkError, st.ErrorDetail)
	assert.NotEqual(t, MsgSendFailed, st.ErrorDetail)
	assert.Equal(t, asha, st.Draft)
}

func TestOnFieldChangeIsIdempotent(t *testing.T) {
	c := NewController(NewMockRelay("http://unused", nil, nil), WithLogger(quietLogger()))

	c.OnFieldChange(FieldName, "Asha")
	once := c.State().Draft
	c.OnFieldChange(FieldName, "Asha")
	assert.Equal(t, once, c.State().Draft)

	c.OnFieldChange(Field("phone"), "555")
	assert.Equal(t, once, c.State().Draft)
	assert.Equal(t, StatusIdle, c.State().Status)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := NewController(NewEmailRelay(srv.URL, srv.Client(), quietLogger()), WithLogger(quietLogger()))
	fill(c, asha)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return c.State().Status == StatusPending }, 2*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.Submit(context.Background()), ErrSubmissionInFlight)
	assert.Equal(t, StatusPending, c.State().Status)

	// Typing while pending still works
	c.OnFieldChange(FieldSubject, "Hi again")
	assert.Equal(t, "Hi again", c.State().Draft.Subject)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusSucceeded, c.State().Status)
	assert.Equal(t, int32(1), calls.Load())
}

// gatedBackend blocks in Send until released.
type gatedBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (b *gatedBackend) Name() string     { return "gated" }
func (b *gatedBackend) Preflight() error { return nil }

func (b *gatedBackend) Send(ctx context.Context, _ Draft) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestSubscribersNeverSeeStaleSnapshot(t *testing.T) {
	backend := &gatedBackend{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(backend, WithLogger(quietLogger()))
	fill(c, asha)

	var mu sync.Mutex
	var last State
	slow := make(chan struct{}, 1)
	c.Subscribe(func(s State) {
		if s.Status == StatusPending && s.Draft.Message == "edited" {
			slow <- struct{}{}
			time.Sleep(100 * time.Millisecond)
		}
		mu.Lock()
		last = s
		mu.Unlock()
	})

	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		_ = c.Submit(context.Background())
	}()
	<-backend.entered

	edited := make(chan struct{})
	go func() {
		defer close(edited)
		c.OnFieldChange(FieldMessage, "edited")
	}()
	<-slow
	close(backend.release)

	<-submitted
	<-edited

	assert.Equal(t, StatusSucceeded, c.State().Status)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, StatusSucceeded, last.Status, "last delivered snapshot matches the controller")
	assert.Equal(t, Draft{}, last.Draft)
}

func TestMockRelay(t *testing.T) {
	t.Run("succeeds on 2xx", func(t *testing.T) {
		stub := newStub(t, http.StatusOK, `{"success":true,"message":"Email sent successfully"}`)
		c := NewController(NewMockRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, StatusSucceeded, c.State().Status)
	})

	t.Run("reports status when the body has no error", func(t *testing.T) {
		stub := newStub(t, http.StatusInternalServerError, ``)
		c := NewController(NewMockRelay(stub.URL, stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, KindBackend, c.State().ErrorKind)
		assert.Equal(t, "Request failed (500)", c.State().ErrorDetail)
	})
}

func TestThirdPartyRelay(t *testing.T) {
	t.Run("short-circuits without an access key", func(t *testing.T) {
		stub := newStub(t, http.StatusOK, `{"success":true}`)
		c := NewController(NewThirdPartyRelay(stub.URL, "", "", "", stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))

		st := c.State()
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, KindConfiguration, st.ErrorKind)
		assert.Equal(t, MsgNotConfigured, st.ErrorDetail)
		assert.Equal(t, int32(0), stub.calls.Load())
	})

	t.Run("shapes the payload for the relay", func(t *testing.T) {
		stub := newStub(t, http.StatusOK, `{"success":true,"message":"Email sent successfully!"}`)
		relay := NewThirdPartyRelay(stub.URL, "key-123", "Portfolio", "owner@example.com", stub.Client(), quietLogger())
		c := NewController(relay, WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, StatusSucceeded, c.State().Status)
		assert.Equal(t, map[string]string{
			"access_key": "key-123",
			"name":       "Asha",
			"email":      "asha@example.com",
			"subject":    "Hi",
			"message":    "Hello there",
			"from_name":  "Portfolio",
			"reply_to":   "asha@example.com",
			"to_email":   "owner@example.com",
		}, stub.body())
	})

	t.Run("surfaces the relay message on failure", func(t *testing.T) {
		stub := newStub(t, http.StatusForbidden, `{"success":false,"message":"Invalid access key"}`)
		c := NewController(NewThirdPartyRelay(stub.URL, "bad", "", "", stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, "Invalid access key", c.State().ErrorDetail)
		assert.Equal(t, asha, c.State().Draft)
	})

	t.Run("falls back to a generic message for a non-JSON failure", func(t *testing.T) {
		stub := newStub(t, http.StatusServiceUnavailable, `upstream unavailable`)
		c := NewController(NewThirdPartyRelay(stub.URL, "key-123", "", "", stub.Client(), quietLogger()), WithLogger(quietLogger()))
		fill(c, asha)

		require.NoError(t, c.Submit(context.Background()))

		st := c.State()
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, KindBackend, st.ErrorKind)
		assert.Equal(t, MsgSendFailed, st.ErrorDetail)
		assert.Equal(t, asha, st.Draft)
	})
}

func TestAccessKeyIsNeverLogged(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewThirdPartyRelay(stub.URL, "super-secret-key", "", "", stub.Client(), log), WithLogger(log))
	fill(c, asha)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, "super-secret-key", stub.body()["access_key"])
	assert.Contains(t, buf.String(), "contact submission outbound")
	assert.NotContains(t, buf.String(), "super-secret-key")
}

func TestAutoReset(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()),
		WithLogger(quietLogger()),
		WithAutoReset(20*time.Millisecond, 20*time.Millisecond),
	)
	defer c.Close()

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, StatusFailed, c.State().Status)
	require.Eventually(t, func() bool { return c.State().Status == StatusIdle }, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.State().ErrorDetail)

	fill(c, asha)
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, StatusSucceeded, c.State().Status)
	require.Eventually(t, func() bool { return c.State().Status == StatusIdle }, time.Second, 5*time.Millisecond)
}

func TestAutoResetIgnoresStaleTimer(t *testing.T) {
	stub := newStub(t, http.StatusOK, `{"success":true}`)
	c := NewController(NewEmailRelay(stub.URL, stub.Client(), quietLogger()),
		WithLogger(quietLogger()),
		WithAutoReset(0, 30*time.Millisecond),
	)
	defer c.Close()

	// First attempt fails validation and arms a reset; the second succeeds
	// and must not be reset by the first attempt's timer.
	require.NoError(t, c.Submit(context.Background()))
	fill(c, asha)
	require.NoError(t, c.Submit(context.Background()))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StatusSucceeded, c.State().Status)
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(BackendConfig{Kind: "relay", BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/contact", b.(*EmailRelay).URL)

	b, err = NewBackend(BackendConfig{Kind: "mock", BaseURL: "http://localhost:8080"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/send-email", b.(*MockRelay).URL)

	b, err = NewBackend(BackendConfig{Kind: "web3forms"})
	require.NoError(t, err)
	assert.Equal(t, DefaultThirdPartyURL, b.(*ThirdPartyRelay).URL)
	assert.ErrorIs(t, b.Preflight(), ErrMissingAccessKey)

	_, err = NewBackend(BackendConfig{Kind: "carrier-pigeon"})
	assert.Error(t, err)
}
