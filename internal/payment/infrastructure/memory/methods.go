package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/farmafacil/ordering/internal/payment/domain"
)

// MethodDirectory serves the demo's stored cards. Every payer sees the same
// two fixtures; lookups carry a small simulated latency like the rest of the
// simulation.
type MethodDirectory struct {
	log   *slog.Logger
	delay time.Duration
}

func NewMethodDirectory(log *slog.Logger, delay time.Duration) *MethodDirectory {
	return &MethodDirectory{log: log, delay: delay}
}

func (d *MethodDirectory) Methods(ctx context.Context, payerID string) ([]domain.PaymentMethod, error) {
	if d.delay > 0 {
		t := time.NewTimer(d.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	d.log.Debug("payment methods served", "payer", payerID)
	return []domain.PaymentMethod{
		{
			ID:          "pm_1",
			Type:        "card",
			Brand:       "VISA",
			Last4:       "4532",
			ExpiryMonth: "12",
			ExpiryYear:  "26",
			Default:     true,
		},
		{
			ID:          "pm_2",
			Type:        "card",
			Brand:       "Mastercard",
			Last4:       "8920",
			ExpiryMonth: "08",
			ExpiryYear:  "25",
		},
	}, nil
}
