package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PendingCheckout is the caller-scoped record of which seats a payment
// session was opened for. It lives in an expiring key-value store keyed by
// user id, with the same TTL discipline as seat holds, so the gateway's
// return leg can be resumed without re-supplying seat ids.
type PendingCheckout struct {
	ID          string          `json:"id"`
	UserID      int             `json:"user_id"`
	ScreeningID int             `json:"screening_id"`
	SeatIDs     []int           `json:"seat_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PendingCheckoutStore interface {
	// Put stores the pending checkout under the owning user, replacing any
	// previous one, expiring after ttl.
	Put(ctx context.Context, checkout PendingCheckout, ttl time.Duration) error

	// Get returns the user's pending checkout, or ErrNoPendingCheckout.
	Get(ctx context.Context, userID int) (*PendingCheckout, error)

	// Delete removes the user's pending checkout. Deleting an absent entry
	// is not an error.
	Delete(ctx context.Context, userID int) error
}
