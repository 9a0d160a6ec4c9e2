package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/farmafacil/ordering/internal/order/domain"
	"github.com/farmafacil/ordering/pkg/idempotency"
)

type recordingChannel struct {
	sent []string
	fail error
}

func (c *recordingChannel) Send(ctx context.Context, phone, message string) error {
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, phone+"|"+message)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder(id string, paid bool) orderdomain.Order {
	disposition := orderdomain.PaymentPending
	if paid {
		disposition = orderdomain.PaymentPaid
	}
	o, err := orderdomain.NewOrder(id, []orderdomain.LineItem{
		{ProductID: 1, Name: "Arkolevura", PriceCents: 1250, Quantity: 1},
	}, disposition, time.Now().UTC())
	if err != nil {
		panic(err)
	}
	return o
}

func TestRelayDeliversQueuedConfirmation(t *testing.T) {
	store := NewMemoryStore()
	channel := &recordingChannel{}
	relay := NewRelay(testLogger(), store, NewDispatcher(testLogger(), channel, idempotency.NewMemoryStore(0)), "test-relay")

	outbox := NewOutbox(store)
	require.NoError(t, outbox.EnqueueConfirmation(context.Background(), "+34654321987", testOrder("ORD-AAA111222", true)))

	require.NoError(t, relay.Drain(context.Background()))

	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0], "+34654321987")
	assert.Contains(t, channel.sent[0], "ORD-AAA111222")
	assert.Contains(t, channel.sent[0], "€12.50")

	c, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, StatusSent, c.Status)

	// Nothing left to deliver.
	require.NoError(t, relay.Drain(context.Background()))
	assert.Len(t, channel.sent, 1)
}

func TestRelayRetriesFailedDelivery(t *testing.T) {
	store := NewMemoryStore()
	channel := &recordingChannel{fail: errors.New("channel down")}
	relay := NewRelay(testLogger(), store, NewDispatcher(testLogger(), channel, idempotency.NewMemoryStore(0)), "test-relay")

	_, err := store.Enqueue(context.Background(), Confirmation{OrderID: "ORD-BBB", Phone: "+34600000000", Message: "hola"})
	require.NoError(t, err)

	require.NoError(t, relay.Drain(context.Background()))
	c, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, c.Status)
	assert.Equal(t, 1, c.RetryCount)
	assert.Equal(t, "channel down", c.LastError)

	channel.fail = nil
	require.NoError(t, relay.Drain(context.Background()))
	c, _ = store.Get(1)
	assert.Equal(t, StatusSent, c.Status)
	assert.Len(t, channel.sent, 1)
}

func TestDispatcherDedupesByOrderID(t *testing.T) {
	channel := &recordingChannel{}
	d := NewDispatcher(testLogger(), channel, idempotency.NewMemoryStore(0))

	c := Confirmation{ID: 1, OrderID: "ORD-CCC", Phone: "+34600000000", Message: "hola"}
	require.NoError(t, d.Dispatch(context.Background(), c))
	require.NoError(t, d.Dispatch(context.Background(), c))

	assert.Len(t, channel.sent, 1, "a redelivered confirmation reaches the recipient at most once")
}

func TestDispatcherFailedSendStaysDeliverable(t *testing.T) {
	channel := &recordingChannel{fail: errors.New("channel down")}
	d := NewDispatcher(testLogger(), channel, idempotency.NewMemoryStore(0))

	// The failed attempt must not consume the dedup key.
	c := Confirmation{ID: 1, OrderID: "ORD-GGG", Phone: "+34600000000", Message: "hola"}
	require.Error(t, d.Dispatch(context.Background(), c))
	assert.Empty(t, channel.sent)

	channel.fail = nil
	require.NoError(t, d.Dispatch(context.Background(), c))
	assert.Len(t, channel.sent, 1)
}

func TestLockBatchReclaimsExpiredLease(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Enqueue(context.Background(), Confirmation{OrderID: "ORD-DDD", Phone: "p", Message: "m"})
	require.NoError(t, err)

	locked, err := store.LockBatch(context.Background(), "relay-a", 10, time.Millisecond)
	require.NoError(t, err)
	require.Len(t, locked, 1)

	// Still leased: invisible to a second relay.
	locked2, err := store.LockBatch(context.Background(), "relay-b", 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, locked2)

	time.Sleep(5 * time.Millisecond)
	locked3, err := store.LockBatch(context.Background(), "relay-b", 10, time.Minute)
	require.NoError(t, err)
	assert.Len(t, locked3, 1)
}

func TestConfirmationMessage(t *testing.T) {
	paid := ConfirmationMessage(testOrder("ORD-EEE", true))
	assert.Contains(t, paid, "listo para recoger")

	pending := ConfirmationMessage(testOrder("ORD-FFF", false))
	assert.Contains(t, pending, "pendiente de pago")
}
