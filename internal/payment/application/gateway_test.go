package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmafacil/ordering/internal/payment/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(approve bool) *Gateway {
	return NewGateway(testLogger(),
		WithGatewayOutcome(FixedOutcome(approve)),
		WithGatewayDelays(0, 0),
	)
}

func TestCreateIntent(t *testing.T) {
	g := newTestGateway(true)

	intent, err := g.CreateIntent(context.Background(), 4640)
	require.NoError(t, err)

	assert.Regexp(t, `^pi_[0-9a-f]{9}$`, intent.ID)
	assert.Equal(t, int64(4640), intent.AmountCents)
	assert.Equal(t, domain.IntentPending, intent.Status)
}

func TestCreateIntentInvalidAmount(t *testing.T) {
	g := newTestGateway(true)

	for _, amount := range []int64{0, -1, -4640} {
		_, err := g.CreateIntent(context.Background(), amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %d", amount)
	}
}

func TestAuthorizeSucceeds(t *testing.T) {
	g := newTestGateway(true)
	intent, err := g.CreateIntent(context.Background(), 1000)
	require.NoError(t, err)

	res, err := g.Authorize(context.Background(), intent.ID, "pm_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Reason)

	settled, ok := g.Intent(intent.ID)
	require.True(t, ok)
	assert.Equal(t, domain.IntentSucceeded, settled.Status)
	assert.Equal(t, "pm_1", settled.PaymentMethodID)
}

func TestAuthorizeDeclinedIsRetryable(t *testing.T) {
	g := newTestGateway(false)
	intent, err := g.CreateIntent(context.Background(), 1000)
	require.NoError(t, err)

	res, err := g.Authorize(context.Background(), intent.ID, "pm_1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Reason)

	// The intent did not settle: a second attempt is the caller's call.
	pending, ok := g.Intent(intent.ID)
	require.True(t, ok)
	assert.Equal(t, domain.IntentPending, pending.Status)

	g.outcome = FixedOutcome(true)
	res, err = g.Authorize(context.Background(), intent.ID, "pm_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestAuthorizeAlreadySettled(t *testing.T) {
	g := newTestGateway(true)
	intent, err := g.CreateIntent(context.Background(), 1000)
	require.NoError(t, err)

	_, err = g.Authorize(context.Background(), intent.ID, "pm_1")
	require.NoError(t, err)

	_, err = g.Authorize(context.Background(), intent.ID, "pm_1")
	assert.ErrorIs(t, err, domain.ErrAlreadySettled)
}

func TestAuthorizeContractErrors(t *testing.T) {
	g := newTestGateway(true)
	intent, err := g.CreateIntent(context.Background(), 1000)
	require.NoError(t, err)

	tests := []struct {
		name     string
		intentID string
		methodID string
		want     error
	}{
		{name: "missing method", intentID: intent.ID, methodID: "", want: domain.ErrMissingPaymentMethod},
		{name: "unknown intent", intentID: "pi_nope", methodID: "pm_1", want: domain.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Authorize(context.Background(), tt.intentID, tt.methodID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorizeCancelledBeforeSettlement(t *testing.T) {
	g := NewGateway(testLogger(),
		WithGatewayOutcome(FixedOutcome(true)),
		WithGatewayDelays(0, 50*time.Millisecond),
	)
	intent, err := g.CreateIntent(context.Background(), 1000)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Authorize(ctx, intent.ID, "pm_1")
	require.ErrorIs(t, err, context.Canceled)

	// Cancellation pre-settlement leaves the intent usable.
	res, err := g.Authorize(context.Background(), intent.ID, "pm_1")
	require.NoError(t, err)
	assert.True(t, res.Success)
}
