package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	orderdomain "github.com/farmafacil/ordering/internal/order/domain"
)

// Channel delivers a message to a recipient. The caller consumes nothing
// beyond completion.
type Channel interface {
	Send(ctx context.Context, phone, message string) error
}

// WhatsApp simulates the WhatsApp business channel: a fixed delay, then
// success. A real channel replaces this without touching the relay.
type WhatsApp struct {
	log   *slog.Logger
	delay time.Duration
}

func NewWhatsApp(log *slog.Logger, delay time.Duration) *WhatsApp {
	return &WhatsApp{log: log, delay: delay}
}

func (w *WhatsApp) Send(ctx context.Context, phone, message string) error {
	if w.delay > 0 {
		t := time.NewTimer(w.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	w.log.Info("whatsapp notification sent", "to", phone, "message", message)
	return nil
}

// Outbox is the enqueue side handed to the checkout flow.
type Outbox struct {
	store Store
}

func NewOutbox(store Store) *Outbox {
	return &Outbox{store: store}
}

func (o *Outbox) EnqueueConfirmation(ctx context.Context, phone string, ord orderdomain.Order) error {
	_, err := o.store.Enqueue(ctx, Confirmation{
		OrderID: ord.ID,
		Phone:   phone,
		Message: ConfirmationMessage(ord),
	})
	return err
}

func ConfirmationMessage(o orderdomain.Order) string {
	state := "pendiente de pago en farmacia"
	if o.PaymentStatus == orderdomain.PaymentPaid {
		state = "pagado, listo para recoger"
	}
	return fmt.Sprintf("FarmaFácil - Pedido %s confirmado. Total: %s. Estado: %s.",
		o.ID, orderdomain.FormatPrice(o.TotalCents), state)
}
