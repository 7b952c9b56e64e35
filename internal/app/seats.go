package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GetSeatMap renders the seat-selection view. Expired holds are swept lazily
// on every entry, so stale locks are invisible before anyone attempts to
// acquire.
func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	screeningID, err := strconv.Atoi(chi.URLParam(r, "screeningID"))
	if err != nil || screeningID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid screening ID"))
		return
	}

	screening, err := app.screeningRepo.GetById(r.Context(), screeningID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	_, err = app.reservations.SweepExpired(r.Context(), screeningID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	seats, err := app.seatLedger.GetSeatsByScreening(r.Context(), screeningID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		logger.Warn("seat map not found for screening", "screening_id", screeningID)
		app.notFoundResponse(w, r)
		return
	}

	// Seats held by the viewer remain selectable to them; user id zero
	// means an anonymous viewer.
	userID := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
	cutoff := time.Now().Add(-app.reservations.HoldTTL())

	resp := api.SeatMapResponse{
		ScreeningId: screeningID,
		VenueName:   screening.VenueName,
		StartTime:   screening.StartTime,
		Seats:       toApiSeats(seats, userID, cutoff),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiSeats(seats []domain.Seat, userID int, cutoff time.Time) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))

	for i, seat := range seats {
		apiSeats[i] = api.Seat{
			Id:         seat.ID,
			SeatNumber: seat.SeatNumber,
			Available:  seat.AvailableTo(userID, cutoff),
		}
	}

	return apiSeats
}
