package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidState         = errors.New("invalid state")
	ErrMissingPaymentMethod = errors.New("missing payment method")
	ErrAlreadySettled       = errors.New("intent already settled")
	ErrDeclined             = errors.New("payment declined")
)

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
)

// PaymentIntent is an authorization request for a given amount, created before
// a payment method is applied. An intent settles at most once: a successful
// authorization is final, a declined one leaves the intent retryable.
type PaymentIntent struct {
	ID              string       `json:"id"`
	AmountCents     int64        `json:"amount_cents"`
	Status          IntentStatus `json:"status"`
	PaymentMethodID string       `json:"payment_method_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// AuthorizationResult is the discriminated outcome of a single authorization
// attempt. Reason carries the human-readable gateway message on decline.
type AuthorizationResult struct {
	IntentID string `json:"intent_id"`
	Success  bool   `json:"success"`
	Reason   string `json:"reason,omitempty"`
}

// PaymentMethod is a stored card returned by the method directory. At most
// one method per payer carries the default flag.
type PaymentMethod struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Brand       string `json:"brand,omitempty"`
	Last4       string `json:"last4,omitempty"`
	ExpiryMonth string `json:"expiry_month,omitempty"`
	ExpiryYear  string `json:"expiry_year,omitempty"`
	Default     bool   `json:"default"`
}
