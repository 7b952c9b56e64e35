package reservation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/ecerdem/movie-ticket-booking/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScreeningID = 7

func newTestManager(ledger domain.SeatLedger, opts ...Option) *Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(ledger, logger, opts...)
}

func seatsForScreening(n int) []domain.Seat {
	seats := make([]domain.Seat, 0, n)
	for i := 1; i <= n; i++ {
		seats = append(seats, domain.Seat{
			ID:          i,
			ScreeningID: testScreeningID,
			SeatNumber:  fmt.Sprintf("A%d", i),
		})
	}
	return seats
}

func TestAcquireLocksAllRequestedSeats(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(4)...)
	manager := newTestManager(ledger)

	acquired, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2, 3}, 42)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, acquired)

	for _, id := range []int{1, 2, 3} {
		seat, ok := ledger.Seat(id)
		require.True(t, ok)
		require.NotNil(t, seat.ReservedBy)
		assert.Equal(t, 42, *seat.ReservedBy)
		assert.False(t, seat.IsBooked)
	}

	seat, _ := ledger.Seat(4)
	assert.Nil(t, seat.ReservedBy)
}

func TestAcquireIsAllOrNothing(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(4)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)
	require.NoError(t, err)

	_, err = manager.Acquire(context.Background(), testScreeningID, []int{2, 3}, 99)
	require.ErrorIs(t, err, domain.ErrSeatHeldByAnother)

	seat, _ := ledger.Seat(3)
	assert.Nil(t, seat.ReservedBy, "seat outside the conflict must not be locked by a rejected request")
}

func TestAcquireRejectsBookedSeat(t *testing.T) {
	seats := seatsForScreening(2)
	seats[1].IsBooked = true

	ledger := mocks.NewMemorySeatLedger(seats...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)

	require.ErrorIs(t, err, domain.ErrSeatAlreadyBooked)

	seat, _ := ledger.Seat(1)
	assert.Nil(t, seat.ReservedBy)
}

func TestAcquireUnknownSeat(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(2)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 17}, 42)

	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestAcquireIsReentrantForOwner(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(2)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)
	require.NoError(t, err)

	_, err = manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)
	require.NoError(t, err)
}

func TestAcquireTakesOverExpiredHold(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)

	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	manager := newTestManager(ledger, WithClock(clock))

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	current = current.Add(HoldTTL - time.Second)
	_, err = manager.Acquire(context.Background(), testScreeningID, []int{1}, 99)
	require.ErrorIs(t, err, domain.ErrSeatHeldByAnother, "hold still inside the window")

	current = current.Add(time.Second)
	_, err = manager.Acquire(context.Background(), testScreeningID, []int{1}, 99)
	require.NoError(t, err, "hold exactly at the window boundary is stealable")

	seat, _ := ledger.Seat(1)
	require.NotNil(t, seat.ReservedBy)
	assert.Equal(t, 99, *seat.ReservedBy)
}

func TestAcquireConcurrentSingleWinner(t *testing.T) {
	const contenders = 32

	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)
	manager := newTestManager(ledger)

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = manager.Acquire(context.Background(), testScreeningID, []int{1}, i+1)
		}(i)
	}

	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, domain.ErrSeatHeldByAnother)
		}
	}

	assert.Equal(t, 1, winners, "exactly one contender may hold the seat")
}

func TestConfirmReturnsBookingDraft(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)

	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	manager := newTestManager(ledger, WithClock(func() time.Time { return current }))

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	amount := decimal.NewFromInt(200)
	booking, err := manager.Confirm(context.Background(), 1, 42, amount)

	require.NoError(t, err)
	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, 42, booking.UserID)
	assert.Equal(t, 1, booking.SeatID)
	assert.Equal(t, "A1", booking.SeatNumber)
	assert.Equal(t, testScreeningID, booking.ScreeningID)
	assert.True(t, amount.Equal(booking.TotalAmount))
	assert.Equal(t, domain.PaymentStatusSuccess, booking.PaymentStatus)
	assert.Equal(t, current, booking.BookedAt)

	seat, _ := ledger.Seat(1)
	assert.True(t, seat.IsBooked)
	assert.Nil(t, seat.ReservedBy)
}

func TestConfirmJustInsideHoldWindow(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)

	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	manager := newTestManager(ledger, WithClock(func() time.Time { return current }))

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	current = current.Add(HoldTTL - time.Second)
	_, err = manager.Confirm(context.Background(), 1, 42, decimal.NewFromInt(200))

	require.NoError(t, err)

	seat, _ := ledger.Seat(1)
	assert.True(t, seat.IsBooked)
}

func TestConfirmRejectsExpiredHold(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)

	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	manager := newTestManager(ledger, WithClock(func() time.Time { return current }))

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	current = current.Add(HoldTTL)
	_, err = manager.Confirm(context.Background(), 1, 42, decimal.NewFromInt(200))

	require.ErrorIs(t, err, domain.ErrSeatHoldExpired)

	seat, _ := ledger.Seat(1)
	assert.False(t, seat.IsBooked, "rejected confirm must not mutate the seat")
}

func TestConfirmRejectsForeignHold(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	_, err = manager.Confirm(context.Background(), 1, 99, decimal.NewFromInt(200))

	require.ErrorIs(t, err, domain.ErrSeatHoldExpired)
}

func TestConfirmTwiceFailsWithAlreadyBooked(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(1)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1}, 42)
	require.NoError(t, err)

	_, err = manager.Confirm(context.Background(), 1, 42, decimal.NewFromInt(200))
	require.NoError(t, err)

	_, err = manager.Confirm(context.Background(), 1, 42, decimal.NewFromInt(200))
	require.ErrorIs(t, err, domain.ErrSeatAlreadyBooked)
}

func TestReleaseClearsOnlyOwnHolds(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(3)...)
	manager := newTestManager(ledger)

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)
	require.NoError(t, err)
	_, err = manager.Acquire(context.Background(), testScreeningID, []int{3}, 99)
	require.NoError(t, err)

	require.NoError(t, manager.Release(context.Background(), testScreeningID, 42))

	for _, id := range []int{1, 2} {
		seat, _ := ledger.Seat(id)
		assert.Nil(t, seat.ReservedBy)
	}

	seat, _ := ledger.Seat(3)
	require.NotNil(t, seat.ReservedBy)
	assert.Equal(t, 99, *seat.ReservedBy)
}

func TestSweepExpiredClearsOnlyStaleHolds(t *testing.T) {
	ledger := mocks.NewMemorySeatLedger(seatsForScreening(3)...)

	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	manager := newTestManager(ledger, WithClock(func() time.Time { return current }))

	_, err := manager.Acquire(context.Background(), testScreeningID, []int{1, 2}, 42)
	require.NoError(t, err)

	current = current.Add(HoldTTL)
	_, err = manager.Acquire(context.Background(), testScreeningID, []int{3}, 99)
	require.NoError(t, err)

	swept, err := manager.SweepExpired(context.Background(), testScreeningID)

	require.NoError(t, err)
	assert.Equal(t, 2, swept)

	seat, _ := ledger.Seat(1)
	assert.Nil(t, seat.ReservedBy)

	seat, _ = ledger.Seat(3)
	require.NotNil(t, seat.ReservedBy)
	assert.Equal(t, 99, *seat.ReservedBy)

	swept, err = manager.SweepExpired(context.Background(), testScreeningID)
	require.NoError(t, err)
	assert.Zero(t, swept, "sweeping again must be a no-op")
}
