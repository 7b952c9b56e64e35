package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// CheckoutOrder carries everything the payment provider needs to describe
// the purchase on its hosted page.
type CheckoutOrder struct {
	ID          string
	MovieName   string
	VenueName   string
	StartTime   time.Time
	Seats       []Seat
	TotalAmount decimal.Decimal
}

type PaymentProvider interface {
	CreateCheckoutSession(user *User, order CheckoutOrder) (*stripe.CheckoutSession, error)
}
