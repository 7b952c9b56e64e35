package domain

import (
	"context"
	"time"
)

// Seat is a single durable seat row of a screening. IsBooked is terminal:
// once true the lock fields are always nil.
type Seat struct {
	ID          int
	ScreeningID int
	SeatNumber  string
	IsBooked    bool
	ReservedBy  *int
	ReservedAt  *time.Time
}

// HeldBy reports whether the seat carries an unexpired hold owned by userID.
// cutoff is the oldest ReservedAt still considered valid (now - hold TTL).
func (s Seat) HeldBy(userID int, cutoff time.Time) bool {
	return !s.IsBooked &&
		s.ReservedBy != nil && *s.ReservedBy == userID &&
		s.ReservedAt != nil && s.ReservedAt.After(cutoff)
}

// AvailableTo reports whether userID may acquire the seat: not booked, and
// not under another user's unexpired hold.
func (s Seat) AvailableTo(userID int, cutoff time.Time) bool {
	if s.IsBooked {
		return false
	}
	if s.ReservedBy == nil || *s.ReservedBy == userID {
		return true
	}
	return s.ReservedAt == nil || !s.ReservedAt.After(cutoff)
}

// SeatLedger is the durable record of seat state for screenings. Implementations
// must make AcquireSeats and ConfirmSeat atomic check-and-set operations: no
// seat may ever observe two concurrent calls both succeeding, and a failing
// AcquireSeats must leave no partial locks behind.
type SeatLedger interface {
	// GetSeatsByScreening returns the full seat map of a screening ordered
	// by seat number.
	GetSeatsByScreening(ctx context.Context, screeningID int) ([]Seat, error)

	// AcquireSeats places a soft lock owned by userID on every listed seat,
	// all-or-nothing. A seat can be locked when it is not booked and is
	// either unlocked, already held by userID, or held by a hold that
	// started before cutoff. Returns ErrSeatAlreadyBooked or
	// ErrSeatHeldByAnother on rejection.
	AcquireSeats(ctx context.Context, screeningID int, seatIDs []int, userID int, now, cutoff time.Time) error

	// SweepExpired clears lock fields on unbooked seats whose hold started
	// before cutoff and reports how many rows it touched. Safe to run
	// concurrently with AcquireSeats and ConfirmSeat.
	SweepExpired(ctx context.Context, screeningID int, cutoff time.Time) (int, error)

	// ReleaseByUser clears every unbooked hold owned by userID for the
	// screening.
	ReleaseByUser(ctx context.Context, screeningID, userID int) error

	// ConfirmSeat permanently books a seat still held by userID with a hold
	// no older than cutoff, clearing the lock fields in the same atomic
	// update. Returns the booked seat, or ErrSeatAlreadyBooked /
	// ErrSeatHoldExpired without mutating anything.
	ConfirmSeat(ctx context.Context, seatID, userID int, cutoff time.Time) (*Seat, error)
}
