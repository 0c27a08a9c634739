package contactform

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ErrSubmissionInFlight is returned by Submit while a previous submission is pending.
var ErrSubmissionInFlight = errors.New("contactform: a submission is already in flight")

// Controller owns the draft and the submission lifecycle. It is safe for
// concurrent use; the network call runs without holding the lock so field
// changes keep working while a submission is pending.
type Controller struct {
	backend  Backend
	validate *validator.Validate
	log      *slog.Logger

	successReset time.Duration
	failureReset time.Duration

	mu         sync.Mutex
	state      State
	listeners  []func(State)
	attempt    uint64
	version    uint64
	resetTimer *time.Timer

	// deliverMu orders notifications; delivered is the newest version sent.
	deliverMu sync.Mutex
	delivered uint64
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithValidator(v *validator.Validate) Option {
	return func(c *Controller) { c.validate = v }
}

// WithAutoReset returns the status to idle after a terminal outcome. Zero
// disables the reset for that outcome.
func WithAutoReset(success, failure time.Duration) Option {
	return func(c *Controller) {
		c.successReset = success
		c.failureReset = failure
	}
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validate == nil {
		c.validate = validation.New()
	}
	c.log = c.log.With("component", "contact_form", "backend", backend.Name())
	return c
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive a snapshot after every change.
// Snapshots arrive in order and a snapshot older than one already delivered
// is skipped. fn runs synchronously and must not call back into the
// Controller.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// OnFieldChange sets one draft field. Unknown fields are ignored.
func (c *Controller) OnFieldChange(field Field, value string) {
	c.mu.Lock()
	if !c.state.Draft.set(field, value) {
		c.mu.Unlock()
		return
	}
	snap, v := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap, v)
}

// Submit validates the draft and sends it through the backend. The outcome is
// recorded in the state; the only error returned is ErrSubmissionInFlight.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status == StatusPending {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.attempt++
	attempt := c.attempt
	c.stopResetLocked()

	if err := c.validate.Struct(c.state.Draft); err != nil {
		c.failLocked(attempt, KindValidation, MsgMissingFields)
		snap, v := c.snapshotLocked()
		c.mu.Unlock()

		c.log.InfoContext(ctx, "contact form incomplete", "fields", validation.FormatValidationErrors(err))
		c.finish(snap, v)
		return nil
	}

	if err := c.backend.Preflight(); err != nil {
		c.failLocked(attempt, KindConfiguration, MsgNotConfigured)
		snap, v := c.snapshotLocked()
		c.mu.Unlock()

		c.log.ErrorContext(ctx, "contact form backend misconfigured", "error", err)
		c.finish(snap, v)
		return nil
	}

	c.state.Status = StatusPending
	c.state.ErrorDetail = ""
	c.state.ErrorKind = KindNone
	draft := c.state.Draft
	snap, v := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap, v)

	err := c.backend.Send(ctx, draft)

	c.mu.Lock()
	if err == nil {
		c.state.Status = StatusSucceeded
		c.state.Draft = Draft{}
		c.scheduleResetLocked(attempt, c.successReset)
	} else {
		kind, detail := classify(err)
		c.failLocked(attempt, kind, detail)
	}
	snap, v = c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.log.WarnContext(ctx, "contact submission failed", "kind", snap.ErrorKind, "error", err)
	} else {
		c.log.InfoContext(ctx, "contact submission sent")
	}
	c.finish(snap, v)
	return nil
}

// Close stops any pending auto-reset.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopResetLocked()
	c.mu.Unlock()
}

func classify(err error) (ErrorKind, string) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message == "" {
			return KindBackend, MsgSendFailed
		}
		return KindBackend, rejected.Message
	}
	return KindNetwork, MsgNetworkError
}

func (c *Controller) failLocked(attempt uint64, kind ErrorKind, detail string) {
	c.state.Status = StatusFailed
	c.state.ErrorKind = kind
	c.state.ErrorDetail = detail
	c.scheduleResetLocked(attempt, c.failureReset)
}

func (c *Controller) scheduleResetLocked(attempt uint64, d time.Duration) {
	if d <= 0 {
		return
	}
	c.resetTimer = time.AfterFunc(d, func() {
		c.mu.Lock()
		// A newer submit owns the state now.
		if c.attempt != attempt || (c.state.Status != StatusSucceeded && c.state.Status != StatusFailed) {
			c.mu.Unlock()
			return
		}
		c.state.Status = StatusIdle
		c.state.ErrorDetail = ""
		c.state.ErrorKind = KindNone
		snap, v := c.snapshotLocked()
		c.mu.Unlock()

		c.notify(snap, v)
	})
}

func (c *Controller) stopResetLocked() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// finish records the terminal outcome and notifies subscribers.
func (c *Controller) finish(snap State, version uint64) {
	outcome := string(snap.ErrorKind)
	if snap.Status == StatusSucceeded {
		outcome = "succeeded"
	}
	metrics.ClientSubmissions.WithLabelValues(c.backend.Name(), outcome).Inc()
	c.notify(snap, version)
}

// snapshotLocked copies the state and stamps it with the next version.
func (c *Controller) snapshotLocked() (State, uint64) {
	c.version++
	return c.state, c.version
}

func (c *Controller) notify(snap State, version uint64) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	if version <= c.delivered {
		return
	}
	c.delivered = version

	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
