package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmafacil/ordering/internal/payment/domain"
)

const (
	gatewayApproveRate = 0.9
	gatewayDecline     = "Pago rechazado. Por favor, verifica tus datos."

	defaultIntentDelay    = time.Second
	defaultAuthorizeDelay = 2 * time.Second
)

// Gateway simulates the card-on-file authorization round trip of an external
// payment provider. Intents settle at most once; a decline leaves the intent
// retryable. The gateway never retries on its own.
type Gateway struct {
	log            *slog.Logger
	tracer         trace.Tracer
	outcome        Outcome
	intentDelay    time.Duration
	authorizeDelay time.Duration

	mu       sync.Mutex
	intents  map[string]*domain.PaymentIntent
	inFlight map[string]bool
}

type GatewayOption func(*Gateway)

func WithGatewayOutcome(o Outcome) GatewayOption {
	return func(g *Gateway) { g.outcome = o }
}

func WithGatewayDelays(intent, authorize time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.intentDelay = intent
		g.authorizeDelay = authorize
	}
}

func NewGateway(log *slog.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		log:            log,
		tracer:         otel.Tracer("payment-gateway"),
		outcome:        RandomOutcome(),
		intentDelay:    defaultIntentDelay,
		authorizeDelay: defaultAuthorizeDelay,
		intents:        make(map[string]*domain.PaymentIntent),
		inFlight:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateIntent registers a fresh pending intent for the given amount.
func (g *Gateway) CreateIntent(ctx context.Context, amountCents int64) (domain.PaymentIntent, error) {
	if amountCents <= 0 {
		return domain.PaymentIntent{}, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amountCents)
	}

	ctx, span := g.tracer.Start(ctx, "CreateIntent")
	defer span.End()

	if err := sleep(ctx, g.intentDelay); err != nil {
		return domain.PaymentIntent{}, err
	}

	intent := &domain.PaymentIntent{
		ID:          newIntentID(),
		AmountCents: amountCents,
		Status:      domain.IntentPending,
		CreatedAt:   time.Now().UTC(),
	}
	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()

	g.log.Info("payment intent created", "intent_id", intent.ID, "amount_cents", amountCents)
	return *intent, nil
}

// Authorize applies a payment method to a pending intent and settles the
// attempt. A successful attempt is final: re-invoking on a settled intent
// fails with ErrAlreadySettled. At most one authorization may be in flight
// per intent. Cancellation through ctx is honored until the simulated
// settlement completes; after that the outcome stands.
func (g *Gateway) Authorize(ctx context.Context, intentID, methodID string) (domain.AuthorizationResult, error) {
	if methodID == "" {
		return domain.AuthorizationResult{}, domain.ErrMissingPaymentMethod
	}

	g.mu.Lock()
	intent, ok := g.intents[intentID]
	if !ok {
		g.mu.Unlock()
		return domain.AuthorizationResult{}, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidState, intentID)
	}
	if intent.Status == domain.IntentSucceeded {
		g.mu.Unlock()
		return domain.AuthorizationResult{}, fmt.Errorf("%w: %s", domain.ErrAlreadySettled, intentID)
	}
	if g.inFlight[intentID] {
		g.mu.Unlock()
		return domain.AuthorizationResult{}, fmt.Errorf("%w: authorization in flight for %s", domain.ErrInvalidState, intentID)
	}
	g.inFlight[intentID] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, intentID)
		g.mu.Unlock()
	}()

	ctx, span := g.tracer.Start(ctx, "Authorize")
	defer span.End()

	if err := sleep(ctx, g.authorizeDelay); err != nil {
		return domain.AuthorizationResult{}, err
	}

	if !g.outcome.Approve(gatewayApproveRate) {
		g.log.Info("authorization declined", "intent_id", intentID)
		return domain.AuthorizationResult{IntentID: intentID, Success: false, Reason: gatewayDecline}, nil
	}

	g.mu.Lock()
	intent.Status = domain.IntentSucceeded
	intent.PaymentMethodID = methodID
	g.mu.Unlock()

	g.log.Info("authorization succeeded", "intent_id", intentID, "method_id", methodID)
	return domain.AuthorizationResult{IntentID: intentID, Success: true}, nil
}

// Intent returns a snapshot of a known intent.
func (g *Gateway) Intent(intentID string) (domain.PaymentIntent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return domain.PaymentIntent{}, false
	}
	return *intent, true
}

func newIntentID() string {
	return "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
