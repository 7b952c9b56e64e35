package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
)

// MemorySeatLedger is an in-memory domain.SeatLedger with the same atomicity
// guarantees as the Postgres implementation: a single mutex serializes every
// check-and-set, so concurrent acquires and confirms can never both win.
type MemorySeatLedger struct {
	mu    sync.Mutex
	seats map[int]*domain.Seat
}

func NewMemorySeatLedger(seats ...domain.Seat) *MemorySeatLedger {
	ledger := &MemorySeatLedger{
		seats: make(map[int]*domain.Seat, len(seats)),
	}

	for _, seat := range seats {
		s := seat
		ledger.seats[s.ID] = &s
	}

	return ledger
}

func (l *MemorySeatLedger) GetSeatsByScreening(_ context.Context, screeningID int) ([]domain.Seat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats := make([]domain.Seat, 0)

	for _, seat := range l.seats {
		if seat.ScreeningID == screeningID {
			seats = append(seats, *seat)
		}
	}

	sort.Slice(seats, func(i, j int) bool {
		return seats[i].SeatNumber < seats[j].SeatNumber
	})

	return seats, nil
}

func (l *MemorySeatLedger) AcquireSeats(
	_ context.Context,
	screeningID int,
	seatIDs []int,
	userID int,
	now, cutoff time.Time) error {

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range seatIDs {
		seat, ok := l.seats[id]
		if !ok || seat.ScreeningID != screeningID {
			return domain.ErrRecordNotFound
		}

		if seat.IsBooked {
			return domain.ErrSeatAlreadyBooked
		}

		if !seat.AvailableTo(userID, cutoff) {
			return domain.ErrSeatHeldByAnother
		}
	}

	for _, id := range seatIDs {
		seat := l.seats[id]
		reservedAt := now
		seat.ReservedBy = &userID
		seat.ReservedAt = &reservedAt
	}

	return nil
}

func (l *MemorySeatLedger) SweepExpired(_ context.Context, screeningID int, cutoff time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	swept := 0

	for _, seat := range l.seats {
		if seat.ScreeningID != screeningID || seat.IsBooked || seat.ReservedAt == nil {
			continue
		}

		if !seat.ReservedAt.After(cutoff) {
			seat.ReservedBy = nil
			seat.ReservedAt = nil
			swept++
		}
	}

	return swept, nil
}

func (l *MemorySeatLedger) ReleaseByUser(_ context.Context, screeningID, userID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, seat := range l.seats {
		if seat.ScreeningID != screeningID || seat.IsBooked {
			continue
		}

		if seat.ReservedBy != nil && *seat.ReservedBy == userID {
			seat.ReservedBy = nil
			seat.ReservedAt = nil
		}
	}

	return nil
}

func (l *MemorySeatLedger) ConfirmSeat(_ context.Context, seatID, userID int, cutoff time.Time) (*domain.Seat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat, ok := l.seats[seatID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	if seat.IsBooked {
		return nil, domain.ErrSeatAlreadyBooked
	}

	if !seat.HeldBy(userID, cutoff) {
		return nil, domain.ErrSeatHoldExpired
	}

	seat.IsBooked = true
	seat.ReservedBy = nil
	seat.ReservedAt = nil

	booked := *seat

	return &booked, nil
}

// Seat returns a copy of the ledger's current state for a seat.
func (l *MemorySeatLedger) Seat(id int) (domain.Seat, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat, ok := l.seats[id]
	if !ok {
		return domain.Seat{}, false
	}

	return *seat, true
}
