package application

import (
	"context"

	"github.com/farmafacil/ordering/internal/order/domain"
	paydomain "github.com/farmafacil/ordering/internal/payment/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type StockChecker interface {
	CheckStock(ctx context.Context, productID, quantity int) (bool, error)
}

// CardGateway is the card-on-file flow consumed by checkout.
type CardGateway interface {
	CreateIntent(ctx context.Context, amountCents int64) (paydomain.PaymentIntent, error)
	Authorize(ctx context.Context, intentID, methodID string) (paydomain.AuthorizationResult, error)
}

type ConfirmationOutbox interface {
	EnqueueConfirmation(ctx context.Context, phone string, o domain.Order) error
}
