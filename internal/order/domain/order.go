package domain

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusCompleted      Status = "completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

var (
	ErrInvalidLineItem = errors.New("invalid line item")
	ErrNotFound        = errors.New("order not found")
)

// LineItem is a finalized cart line. Immutable once part of an Order.
type LineItem struct {
	ProductID  int    `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Order is created exactly once from a finalized cart snapshot and never
// mutated item-wise afterward. PaidAt is set iff PaymentStatus is paid.
type Order struct {
	ID            string        `json:"id"`
	Items         []LineItem    `json:"items"`
	TotalCents    int64         `json:"total_cents"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// NewOrder builds an Order from a cart snapshot. disposition says whether the
// order was already settled upstream (paid) or will be paid at the pharmacy
// (pending). For a paid order the payment timestamp equals the creation
// instant: settlement happened in the payment or terminal flow, not here.
func NewOrder(id string, items []LineItem, disposition PaymentStatus, now time.Time) (Order, error) {
	if err := ValidateItems(items); err != nil {
		return Order{}, err
	}

	o := Order{
		ID:            id,
		Items:         items,
		TotalCents:    Total(items),
		Status:        StatusPendingPayment,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
	}
	if disposition == PaymentPaid {
		o.Status = StatusReadyForPickup
		o.PaymentStatus = PaymentPaid
		paidAt := now
		o.PaidAt = &paidAt
	}
	return o, nil
}

func ValidateItems(items []LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: empty order", ErrInvalidLineItem)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive (%s)", ErrInvalidLineItem, item.Name)
		}
		if item.PriceCents < 0 {
			return fmt.Errorf("%w: negative price (%s)", ErrInvalidLineItem, item.Name)
		}
	}
	return nil
}

func Total(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.PriceCents
	}
	return total
}

// FormatPrice renders euro cents for tickets and notifications, e.g. "€46.40".
func FormatPrice(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
