package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmafacil/ordering/internal/order/domain"
)

var (
	ErrStockUnavailable = errors.New("stock unavailable")

	// ErrPaymentRejected wraps the gateway's human-readable decline reason.
	ErrPaymentRejected = errors.New("payment rejected")
)

const defaultFinalizeDelay = 500 * time.Millisecond

type Service struct {
	log     *slog.Logger
	repo    OrderRepository
	stock   StockChecker
	gateway CardGateway
	outbox  ConfirmationOutbox
	delay   time.Duration
}

type Option func(*Service)

// WithFinalizeDelay overrides the simulated order-creation latency.
func WithFinalizeDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

func NewService(log *slog.Logger, repo OrderRepository, stock StockChecker, gateway CardGateway, outbox ConfirmationOutbox, opts ...Option) *Service {
	s := &Service{
		log:     log,
		repo:    repo,
		stock:   stock,
		gateway: gateway,
		outbox:  outbox,
		delay:   defaultFinalizeDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Finalize converts a finalized cart snapshot plus a payment disposition into
// an immutable Order. It is pure given its inputs except for identifier and
// timestamp generation. Nothing is stored or dispatched here.
func (s *Service) Finalize(ctx context.Context, items []domain.LineItem, disposition domain.PaymentStatus) (domain.Order, error) {
	if err := domain.ValidateItems(items); err != nil {
		return domain.Order{}, err
	}
	if err := s.wait(ctx); err != nil {
		return domain.Order{}, err
	}
	return domain.NewOrder(newOrderID(), items, disposition, time.Now().UTC())
}

// Place runs the checkout pipeline for an already-decided disposition: stock
// check, finalize, store, confirmation enqueue. The kiosk calls it after the
// terminal settles; the customer app calls it directly for pay-at-pharmacy.
func (s *Service) Place(ctx context.Context, items []domain.LineItem, disposition domain.PaymentStatus, phone string) (domain.Order, error) {
	if err := domain.ValidateItems(items); err != nil {
		return domain.Order{}, err
	}
	if err := s.checkStock(ctx, items); err != nil {
		return domain.Order{}, err
	}

	o, err := s.Finalize(ctx, items, disposition)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return domain.Order{}, err
	}

	if phone != "" {
		if err := s.outbox.EnqueueConfirmation(ctx, phone, o); err != nil {
			// Confirmation is fire-and-forget from the order's point of view.
			s.log.Error("confirmation enqueue failed", "order_id", o.ID, "err", err)
		}
	}
	s.log.Info("order placed", "order_id", o.ID, "status", o.Status, "total_cents", o.TotalCents)
	return o, nil
}

// CheckoutCard settles the cart through the card-on-file gateway and, only on
// success, materializes the paid order. A decline produces no Order and
// leaves re-attempting to the caller. Stock is verified before the gateway
// is touched: a cart that cannot be fulfilled never charges the customer.
func (s *Service) CheckoutCard(ctx context.Context, items []domain.LineItem, methodID, phone string) (domain.Order, error) {
	if err := domain.ValidateItems(items); err != nil {
		return domain.Order{}, err
	}
	if err := s.checkStock(ctx, items); err != nil {
		return domain.Order{}, err
	}

	intent, err := s.gateway.CreateIntent(ctx, domain.Total(items))
	if err != nil {
		return domain.Order{}, err
	}
	res, err := s.gateway.Authorize(ctx, intent.ID, methodID)
	if err != nil {
		return domain.Order{}, err
	}
	if !res.Success {
		return domain.Order{}, fmt.Errorf("%w: %s", ErrPaymentRejected, res.Reason)
	}

	return s.Place(ctx, items, domain.PaymentPaid, phone)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) checkStock(ctx context.Context, items []domain.LineItem) error {
	for _, item := range items {
		ok, err := s.stock.CheckStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrStockUnavailable, item.Name)
		}
	}
	return nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
}
