package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/ecerdem/movie-ticket-booking/internal/reservation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func stubCheckoutCatalog(ta *testApp) {
	ta.screeningRepo.On("GetById", mock.Anything, seatTestScreeningID).Return(&domain.Screening{
		ID:        seatTestScreeningID,
		VenueName: "Grand Cinema",
		MovieID:   3,
		StartTime: time.Now().Add(24 * time.Hour),
	}, nil)

	ta.movieRepo.On("GetById", mock.Anything, 3).Return(&domain.Movie{
		ID:    3,
		Name:  "Interstellar",
		Price: decimal.NewFromInt(200),
	}, nil)
}

func TestCreateCheckoutRequiresAuthentication(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.executeRequest(t, http.MethodPost, "/screenings/7/checkout", api.CreateCheckoutRequest{
		SeatIds: []int{1},
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateCheckout(t *testing.T) {
	user := testUser(42)
	ta := newTestApplication(t, screeningSeat(1, "A1"), screeningSeat(2, "A2"))
	stubCheckoutCatalog(ta)

	ta.userRepo.On("GetById", mock.Anything, user.ID).Return(user, nil)
	ta.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&stripe.CheckoutSession{URL: "https://pay.example.com/cs_123"}, nil)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodPost, "/screenings/7/checkout", api.CreateCheckoutRequest{
		SeatIds: []int{1, 2},
	}, session)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeJSON[api.CheckoutSessionResponse](t, rr)
	assert.Equal(t, "https://pay.example.com/cs_123", resp.RedirectUrl)

	seat, _ := ta.ledger.Seat(1)
	require.NotNil(t, seat.ReservedBy)
	assert.Equal(t, user.ID, *seat.ReservedBy)
}

func TestCreateCheckoutValidatesSeatIds(t *testing.T) {
	user := testUser(42)
	ta := newTestApplication(t)
	session := ta.loginAs(t, user, "S3cret!pass")

	tests := []struct {
		name    string
		seatIds []int
	}{
		{name: "empty", seatIds: []int{}},
		{name: "too many", seatIds: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "non-positive id", seatIds: []int{1, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := ta.executeRequest(t, http.MethodPost, "/screenings/7/checkout", api.CreateCheckoutRequest{
				SeatIds: tc.seatIds,
			}, session)

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		})
	}
}

func TestCreateCheckoutConflictOnHeldSeat(t *testing.T) {
	user := testUser(42)
	otherUser := 99
	heldAt := time.Now()

	taken := screeningSeat(1, "A1")
	taken.ReservedBy = &otherUser
	taken.ReservedAt = &heldAt

	ta := newTestApplication(t, taken)
	stubCheckoutCatalog(ta)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodPost, "/screenings/7/checkout", api.CreateCheckoutRequest{
		SeatIds: []int{1},
	}, session)

	assert.Equal(t, http.StatusConflict, rr.Code)
	ta.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutUnknownScreening(t *testing.T) {
	user := testUser(42)
	ta := newTestApplication(t)

	ta.screeningRepo.On("GetById", mock.Anything, 17).Return(nil, domain.ErrRecordNotFound)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodPost, "/screenings/17/checkout", api.CreateCheckoutRequest{
		SeatIds: []int{1},
	}, session)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckoutSuccess(t *testing.T) {
	user := testUser(42)
	heldAt := time.Now()

	mine := screeningSeat(1, "A1")
	mine.ReservedBy = &user.ID
	mine.ReservedAt = &heldAt

	ta := newTestApplication(t, mine)
	stubCheckoutCatalog(ta)

	ta.userRepo.On("GetById", mock.Anything, user.ID).Return(user, nil)
	ta.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	err := ta.pending.Put(context.Background(), domain.PendingCheckout{
		ID:          "chk-test",
		UserID:      user.ID,
		ScreeningID: seatTestScreeningID,
		SeatIDs:     []int{1},
		TotalAmount: decimal.NewFromInt(200),
	}, reservation.HoldTTL)
	require.NoError(t, err)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodGet, "/checkout/success", nil, session)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeJSON[api.CheckoutCompleteResponse](t, rr)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "A1", resp.Bookings[0].SeatNumber)
	assert.Empty(t, resp.SkippedSeatIds)

	seat, _ := ta.ledger.Seat(1)
	assert.True(t, seat.IsBooked)

	require.Len(t, ta.mailer.SentEmails(), 1)
}

func TestCheckoutSuccessWithoutPendingCheckout(t *testing.T) {
	user := testUser(42)
	ta := newTestApplication(t)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodGet, "/checkout/success", nil, session)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckoutSuccessAllSeatsLost(t *testing.T) {
	user := testUser(42)
	staleAt := time.Now().Add(-reservation.HoldTTL)

	lost := screeningSeat(1, "A1")
	lost.ReservedBy = &user.ID
	lost.ReservedAt = &staleAt

	ta := newTestApplication(t, lost)
	stubCheckoutCatalog(ta)

	err := ta.pending.Put(context.Background(), domain.PendingCheckout{
		ID:          "chk-test",
		UserID:      user.ID,
		ScreeningID: seatTestScreeningID,
		SeatIDs:     []int{1},
		TotalAmount: decimal.NewFromInt(200),
	}, reservation.HoldTTL)
	require.NoError(t, err)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodGet, "/checkout/success", nil, session)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.True(t, ta.pending.Pending(user.ID))
}

func TestCheckoutCancel(t *testing.T) {
	user := testUser(42)
	heldAt := time.Now()

	mine := screeningSeat(1, "A1")
	mine.ReservedBy = &user.ID
	mine.ReservedAt = &heldAt

	ta := newTestApplication(t, mine)

	err := ta.pending.Put(context.Background(), domain.PendingCheckout{
		ID:          "chk-test",
		UserID:      user.ID,
		ScreeningID: seatTestScreeningID,
		SeatIDs:     []int{1},
		TotalAmount: decimal.NewFromInt(200),
	}, reservation.HoldTTL)
	require.NoError(t, err)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodPost, "/checkout/cancel", nil, session)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, ta.pending.Pending(user.ID))

	seat, _ := ta.ledger.Seat(1)
	assert.Nil(t, seat.ReservedBy)
}

func TestCheckoutCancelWithoutPendingCheckout(t *testing.T) {
	user := testUser(42)
	ta := newTestApplication(t)

	session := ta.loginAs(t, user, "S3cret!pass")

	rr := ta.executeRequest(t, http.MethodPost, "/checkout/cancel", nil, session)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
