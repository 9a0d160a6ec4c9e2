package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmafacil/ordering/internal/order/domain"
	ordermem "github.com/farmafacil/ordering/internal/order/infrastructure/memory"
	payapp "github.com/farmafacil/ordering/internal/payment/application"
	paydomain "github.com/farmafacil/ordering/internal/payment/domain"
)

type stubStock struct{ ok bool }

func (s stubStock) CheckStock(ctx context.Context, productID, quantity int) (bool, error) {
	return s.ok, nil
}

type countingGateway struct{ createCalls, authorizeCalls int }

func (g *countingGateway) CreateIntent(ctx context.Context, amountCents int64) (paydomain.PaymentIntent, error) {
	g.createCalls++
	return paydomain.PaymentIntent{ID: "pi_test00000", AmountCents: amountCents}, nil
}

func (g *countingGateway) Authorize(ctx context.Context, intentID, methodID string) (paydomain.AuthorizationResult, error) {
	g.authorizeCalls++
	return paydomain.AuthorizationResult{IntentID: intentID, Success: true}, nil
}

type recordingOutbox struct{ orders []string }

func (r *recordingOutbox) EnqueueConfirmation(ctx context.Context, phone string, o domain.Order) error {
	r.orders = append(r.orders, o.ID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, approve bool) (*Service, *ordermem.Repository, *recordingOutbox) {
	t.Helper()
	log := testLogger()
	gateway := payapp.NewGateway(log,
		payapp.WithGatewayOutcome(payapp.FixedOutcome(approve)),
		payapp.WithGatewayDelays(0, 0),
	)
	repo := ordermem.NewRepository()
	outbox := &recordingOutbox{}
	svc := NewService(log, repo, stubStock{ok: true}, gateway, outbox, WithFinalizeDelay(0))
	return svc, repo, outbox
}

var cartFixture = []domain.LineItem{
	{ProductID: 1, Name: "Arkobiotics Íntima 20 cápsulas", PriceCents: 1695, Quantity: 2},
	{ProductID: 2, Name: "Arkolevura 50 cápsulas", PriceCents: 1250, Quantity: 1},
}

func TestFinalizePaid(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	o, err := svc.Finalize(context.Background(), cartFixture, domain.PaymentPaid)
	require.NoError(t, err)

	assert.Equal(t, int64(4640), o.TotalCents)
	assert.Equal(t, domain.StatusReadyForPickup, o.Status)
	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
	require.NotNil(t, o.PaidAt)
	assert.False(t, o.PaidAt.Before(o.CreatedAt))
	assert.Regexp(t, `^ORD-[0-9A-F]{9}$`, o.ID)
}

func TestFinalizePending(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	o, err := svc.Finalize(context.Background(), cartFixture, domain.PaymentPending)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingPayment, o.Status)
	assert.Nil(t, o.PaidAt)
}

func TestFinalizeEmptyCart(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	_, err := svc.Finalize(context.Background(), nil, domain.PaymentPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
}

func TestFinalizeUniqueIDs(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	seen := make(map[string]bool)
	for range 50 {
		o, err := svc.Finalize(context.Background(), cartFixture, domain.PaymentPending)
		require.NoError(t, err)
		assert.False(t, seen[o.ID], "duplicate order id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestPlaceStoresOrderAndQueuesConfirmation(t *testing.T) {
	svc, repo, outbox := newTestService(t, true)

	o, err := svc.Place(context.Background(), cartFixture, domain.PaymentPending, "+34654321987")
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
	assert.Equal(t, []string{o.ID}, outbox.orders)
}

func TestPlaceStockUnavailable(t *testing.T) {
	log := testLogger()
	gateway := payapp.NewGateway(log, payapp.WithGatewayDelays(0, 0))
	svc := NewService(log, ordermem.NewRepository(), stubStock{ok: false}, gateway, &recordingOutbox{}, WithFinalizeDelay(0))

	_, err := svc.Place(context.Background(), cartFixture, domain.PaymentPending, "")
	assert.ErrorIs(t, err, ErrStockUnavailable)
}

func TestCheckoutCardApproved(t *testing.T) {
	svc, repo, outbox := newTestService(t, true)

	o, err := svc.CheckoutCard(context.Background(), cartFixture, "pm_1", "+34654321987")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, domain.StatusReadyForPickup, o.Status)

	_, err = repo.Get(context.Background(), o.ID)
	assert.NoError(t, err)
	assert.Len(t, outbox.orders, 1)
}

func TestCheckoutCardRejectedProducesNoOrder(t *testing.T) {
	svc, repo, outbox := newTestService(t, false)

	_, err := svc.CheckoutCard(context.Background(), cartFixture, "pm_1", "+34654321987")
	require.ErrorIs(t, err, ErrPaymentRejected)
	assert.NotEmpty(t, err.Error())

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, outbox.orders)
}

func TestCheckoutCardStockUnavailableChargesNothing(t *testing.T) {
	gateway := &countingGateway{}
	repo := ordermem.NewRepository()
	svc := NewService(testLogger(), repo, stubStock{ok: false}, gateway, &recordingOutbox{}, WithFinalizeDelay(0))

	_, err := svc.CheckoutCard(context.Background(), cartFixture, "pm_1", "")
	require.ErrorIs(t, err, ErrStockUnavailable)

	// The gateway was never touched: no intent, no settled charge.
	assert.Zero(t, gateway.createCalls)
	assert.Zero(t, gateway.authorizeCalls)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutCardMissingMethod(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	_, err := svc.CheckoutCard(context.Background(), cartFixture, "", "")
	assert.Error(t, err)
}
