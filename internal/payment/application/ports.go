package application

import (
	"context"

	"github.com/farmafacil/ordering/internal/payment/domain"
)

// MethodDirectory returns the stored payment methods available to a payer.
// At most one returned method carries the default flag.
type MethodDirectory interface {
	Methods(ctx context.Context, payerID string) ([]domain.PaymentMethod, error)
}
