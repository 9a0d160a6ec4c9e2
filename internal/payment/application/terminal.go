package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmafacil/ordering/internal/payment/domain"
)

const (
	terminalApproveRate = 0.95
	terminalDecline     = "Pago rechazado por el banco"

	defaultChargeDelay = 3 * time.Second
	defaultSuccessHold = 1500 * time.Millisecond
)

type TerminalState string

const (
	TerminalWaiting    TerminalState = "waiting"
	TerminalProcessing TerminalState = "processing"
	TerminalSuccess    TerminalState = "success"
)

// Terminal models the in-person card terminal used by the kiosk: a
// three-state machine waiting / processing / success. The approval rate is
// higher than the card-on-file path. A charge in flight cannot be abandoned:
// Cancel is only honored from waiting, and the settlement wait is detached
// from caller cancellation.
type Terminal struct {
	log         *slog.Logger
	tracer      trace.Tracer
	outcome     Outcome
	chargeDelay time.Duration
	successHold time.Duration
	onApproved  func()

	mu    sync.Mutex
	state TerminalState
}

type TerminalOption func(*Terminal)

func WithTerminalOutcome(o Outcome) TerminalOption {
	return func(t *Terminal) { t.outcome = o }
}

func WithTerminalDelays(charge, hold time.Duration) TerminalOption {
	return func(t *Terminal) {
		t.chargeDelay = charge
		t.successHold = hold
	}
}

// WithOnApproved registers a hook signaled exactly once per approved charge,
// after the success hold.
func WithOnApproved(fn func()) TerminalOption {
	return func(t *Terminal) { t.onApproved = fn }
}

func NewTerminal(log *slog.Logger, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		log:         log,
		tracer:      otel.Tracer("payment-terminal"),
		outcome:     RandomOutcome(),
		chargeDelay: defaultChargeDelay,
		successHold: defaultSuccessHold,
		state:       TerminalWaiting,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) State() TerminalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// CanCancel reports whether dismissing the terminal is allowed. It is false
// while a charge is processing or showing its approval.
func (t *Terminal) CanCancel() bool {
	return t.State() == TerminalWaiting
}

// Cancel returns control to the caller with no side effect. Only valid from
// waiting; a transaction in flight must run to settlement.
func (t *Terminal) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TerminalWaiting {
		return fmt.Errorf("%w: cannot cancel while %s", domain.ErrInvalidState, t.state)
	}
	return nil
}

// Charge runs one in-person transaction to settlement. Only valid from
// waiting. On approval the terminal holds in success briefly, signals the
// approved hook once and returns to waiting. On decline it returns to
// waiting immediately with ErrDeclined.
func (t *Terminal) Charge(ctx context.Context, amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amountCents)
	}

	t.mu.Lock()
	if t.state != TerminalWaiting {
		t.mu.Unlock()
		return fmt.Errorf("%w: charge already %s", domain.ErrInvalidState, t.state)
	}
	t.state = TerminalProcessing
	t.mu.Unlock()

	ctx, span := t.tracer.Start(ctx, "TerminalCharge")
	defer span.End()

	// The bank round trip must not be interrupted client-side.
	settle := context.WithoutCancel(ctx)
	_ = sleep(settle, t.chargeDelay)

	if !t.outcome.Approve(terminalApproveRate) {
		t.setState(TerminalWaiting)
		t.log.Info("terminal charge declined", "amount_cents", amountCents)
		return fmt.Errorf("%w: %s", domain.ErrDeclined, terminalDecline)
	}

	t.setState(TerminalSuccess)
	t.log.Info("terminal charge approved", "amount_cents", amountCents)
	_ = sleep(settle, t.successHold)

	if t.onApproved != nil {
		t.onApproved()
	}
	t.setState(TerminalWaiting)
	return nil
}

func (t *Terminal) setState(s TerminalState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}
