// Package reservation enforces the time-boxed soft-lock protocol over the
// seat ledger: seats are held for a bounded window while the buyer completes
// an external payment redirect, and only an unexpired hold owned by the same
// user can be converted into a permanent booking.
package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldTTL is how long a seat hold remains valid without renewal.
const HoldTTL = 5 * time.Minute

type Manager struct {
	ledger domain.SeatLedger
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

// WithHoldTTL overrides the default hold window.
func WithHoldTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithClock overrides the time source, used by tests to cross the expiry
// boundary deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(ledger domain.SeatLedger, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		ledger: ledger,
		logger: logger,
		ttl:    HoldTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// HoldTTL returns the hold window the manager operates with.
func (m *Manager) HoldTTL() time.Duration {
	return m.ttl
}

// Acquire soft-locks every requested seat for userID, all-or-nothing.
// Contention is resolved immediately by rejection with
// domain.ErrSeatAlreadyBooked or domain.ErrSeatHeldByAnother; there is no
// queueing, and a rejected request leaves no locks behind.
func (m *Manager) Acquire(ctx context.Context, screeningID int, seatIDs []int, userID int) ([]int, error) {
	now := m.now()

	err := m.ledger.AcquireSeats(ctx, screeningID, seatIDs, userID, now, now.Add(-m.ttl))
	if err != nil {
		return nil, err
	}

	m.logger.Info("seats acquired",
		"screening_id", screeningID,
		"user_id", userID,
		"seat_count", len(seatIDs),
	)

	return seatIDs, nil
}

// SweepExpired clears stale holds for a screening. It is idempotent and runs
// lazily whenever the seat map is viewed, so expired locks are invisible to
// new browsers before they attempt to acquire.
func (m *Manager) SweepExpired(ctx context.Context, screeningID int) (int, error) {
	swept, err := m.ledger.SweepExpired(ctx, screeningID, m.now().Add(-m.ttl))
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		m.logger.Info("expired seat holds swept", "screening_id", screeningID, "count", swept)
	}

	return swept, nil
}

// Release clears every unbooked hold userID has on the screening. Used on
// explicit cancel; passive expiry covers the rest.
func (m *Manager) Release(ctx context.Context, screeningID, userID int) error {
	return m.ledger.ReleaseByUser(ctx, screeningID, userID)
}

// Confirm is the commit path: it re-checks that the seat is still held by
// userID and the hold has not expired at this very moment, since the external
// redirect may have taken arbitrarily long. On success the seat is booked
// permanently and a Booking draft is returned for the recorder to persist.
// On rejection (domain.ErrSeatAlreadyBooked or domain.ErrSeatHoldExpired)
// nothing is mutated.
func (m *Manager) Confirm(ctx context.Context, seatID, userID int, amount decimal.Decimal) (*domain.Booking, error) {
	now := m.now()

	seat, err := m.ledger.ConfirmSeat(ctx, seatID, userID, now.Add(-m.ttl))
	if err != nil {
		return nil, err
	}

	return &domain.Booking{
		Reference:     uuid.New().String(),
		UserID:        userID,
		SeatID:        seat.ID,
		SeatNumber:    seat.SeatNumber,
		ScreeningID:   seat.ScreeningID,
		TotalAmount:   amount,
		PaymentStatus: domain.PaymentStatusSuccess,
		BookedAt:      now,
	}, nil
}
