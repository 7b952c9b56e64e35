// Package checkout drives the external payment gateway and maps its
// outcomes onto reservation transitions: begin opens a hosted payment
// session over freshly acquired seat holds, complete converts surviving
// holds into bookings, cancel releases everything.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/ecerdem/movie-ticket-booking/internal/mailer"
	"github.com/ecerdem/movie-ticket-booking/internal/reservation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNoSeatsSelected = errors.New("at least one seat must be selected")

// Result is the typed outcome of a completed checkout. Partial success is a
// deliberate policy: seats that lost their hold while the buyer was on the
// payment page are skipped, not retried, and reported here.
type Result struct {
	Confirmed []domain.Booking
	Skipped   []int
}

type Orchestrator struct {
	reservations *reservation.Manager
	ledger       domain.SeatLedger
	screenings   domain.ScreeningRepository
	movies       domain.MovieRepository
	bookings     domain.BookingRepository
	users        domain.UserRepository
	pending      domain.PendingCheckoutStore
	provider     domain.PaymentProvider
	pricing      domain.PricingPolicy
	mailer       mailer.Mailer
	logger       *slog.Logger
}

type Deps struct {
	Reservations *reservation.Manager
	Ledger       domain.SeatLedger
	Screenings   domain.ScreeningRepository
	Movies       domain.MovieRepository
	Bookings     domain.BookingRepository
	Users        domain.UserRepository
	Pending      domain.PendingCheckoutStore
	Provider     domain.PaymentProvider
	Pricing      domain.PricingPolicy
	Mailer       mailer.Mailer
	Logger       *slog.Logger
}

func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{
		reservations: deps.Reservations,
		ledger:       deps.Ledger,
		screenings:   deps.Screenings,
		movies:       deps.Movies,
		bookings:     deps.Bookings,
		users:        deps.Users,
		pending:      deps.Pending,
		provider:     deps.Provider,
		pricing:      deps.Pricing,
		mailer:       deps.Mailer,
		logger:       deps.Logger,
	}
}

// BeginCheckout acquires the requested seats, persists the pending-checkout
// context and opens a hosted payment session, returning its redirect URL.
// If acquisition fails no external session is created.
func (o *Orchestrator) BeginCheckout(ctx context.Context, userID, screeningID int, seatIDs []int) (string, error) {
	if len(seatIDs) == 0 {
		return "", ErrNoSeatsSelected
	}

	screening, err := o.screenings.GetById(ctx, screeningID)
	if err != nil {
		return "", err
	}

	movie, err := o.movies.GetById(ctx, screening.MovieID)
	if err != nil {
		return "", err
	}

	held, err := o.reservations.Acquire(ctx, screeningID, seatIDs, userID)
	if err != nil {
		return "", err
	}

	unitPrice := o.pricing.UnitPrice(screening, movie)
	total := unitPrice.Mul(decimal.NewFromInt(int64(len(held))))

	pending := domain.PendingCheckout{
		ID:          uuid.New().String(),
		UserID:      userID,
		ScreeningID: screeningID,
		SeatIDs:     held,
		TotalAmount: total,
	}

	err = o.pending.Put(ctx, pending, o.reservations.HoldTTL())
	if err != nil {
		return "", err
	}

	user, err := o.users.GetById(ctx, userID)
	if err != nil {
		return "", err
	}

	orderSeats, err := o.seatsForOrder(ctx, screeningID, held)
	if err != nil {
		return "", err
	}

	session, err := o.provider.CreateCheckoutSession(user, domain.CheckoutOrder{
		ID:          pending.ID,
		MovieName:   movie.Name,
		VenueName:   screening.VenueName,
		StartTime:   screening.StartTime,
		Seats:       orderSeats,
		TotalAmount: total,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}

	o.logger.Info("checkout session created",
		"user_id", userID,
		"screening_id", screeningID,
		"seat_count", len(held),
		"total_amount", total,
	)

	return session.URL, nil
}

// CompleteCheckout is the gateway's success leg. It re-confirms every seat of
// the user's pending checkout, recording one booking per surviving seat with
// the original total of the full request. Seats that lost their hold are
// skipped. With zero confirmations the pending context is kept so the caller
// can be routed back to seat selection, and ErrCheckoutFailed is returned.
func (o *Orchestrator) CompleteCheckout(ctx context.Context, userID int) (*Result, error) {
	pending, err := o.pending.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	screening, err := o.screenings.GetById(ctx, pending.ScreeningID)
	if err != nil {
		return nil, err
	}

	movie, err := o.movies.GetById(ctx, screening.MovieID)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for _, seatID := range pending.SeatIDs {
		booking, err := o.reservations.Confirm(ctx, seatID, userID, pending.TotalAmount)
		if err != nil {
			if errors.Is(err, domain.ErrSeatAlreadyBooked) || errors.Is(err, domain.ErrSeatHoldExpired) {
				o.logger.Warn("seat skipped during checkout completion",
					"seat_id", seatID,
					"user_id", userID,
					"reason", err,
				)
				result.Skipped = append(result.Skipped, seatID)
				continue
			}

			return nil, err
		}

		booking.MovieID = movie.ID

		err = o.bookings.Create(ctx, booking)
		if err != nil {
			return nil, err
		}

		result.Confirmed = append(result.Confirmed, *booking)
	}

	if len(result.Confirmed) == 0 {
		return result, domain.ErrCheckoutFailed
	}

	err = o.pending.Delete(ctx, userID)
	if err != nil {
		o.logger.Error("failed to clear pending checkout", "user_id", userID, "error", err)
	}

	user, err := o.users.GetById(ctx, userID)
	if err != nil {
		return result, err
	}

	seatNumbers := make([]string, len(result.Confirmed))
	for i, b := range result.Confirmed {
		seatNumbers[i] = b.SeatNumber
	}

	data := map[string]any{
		"userName":    user.Name,
		"movieName":   movie.Name,
		"venueName":   screening.VenueName,
		"showTime":    screening.StartTime,
		"seatNumbers": seatNumbers,
		"totalAmount": pending.TotalAmount,
	}

	err = o.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
	if err != nil {
		// The bookings are already committed at this point; the caller only
		// learns the confirmation mail did not go out.
		return result, fmt.Errorf("%w: %v", domain.ErrNotification, err)
	}

	return result, nil
}

// CancelCheckout releases all seats held for the user's pending screening and
// clears the pending context. Idempotent: cancelling with no pending checkout
// is a no-op.
func (o *Orchestrator) CancelCheckout(ctx context.Context, userID int) error {
	pending, err := o.pending.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoPendingCheckout) {
			return nil
		}
		return err
	}

	err = o.reservations.Release(ctx, pending.ScreeningID, userID)
	if err != nil {
		return err
	}

	return o.pending.Delete(ctx, userID)
}

func (o *Orchestrator) seatsForOrder(ctx context.Context, screeningID int, seatIDs []int) ([]domain.Seat, error) {
	seats, err := o.ledger.GetSeatsByScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = true
	}

	orderSeats := make([]domain.Seat, 0, len(seatIDs))
	for _, seat := range seats {
		if wanted[seat.ID] {
			orderSeats = append(orderSeats, seat)
		}
	}

	return orderSeats, nil
}
