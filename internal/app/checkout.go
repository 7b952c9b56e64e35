package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/ecerdem/movie-ticket-booking/internal/checkout"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CreateCheckout soft-locks the selected seats and opens a hosted payment
// session, answering with the gateway redirect URL.
func (app *Application) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	screeningID, err := strconv.Atoi(chi.URLParam(r, "screeningID"))
	if err != nil || screeningID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid screening ID"))
		return
	}

	var input api.CreateCheckoutRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)

	redirectUrl, err := app.checkout.BeginCheckout(r.Context(), userID, screeningID, input.SeatIds)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoSeatsSelected):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrSeatAlreadyBooked), errors.Is(err, domain.ErrSeatHeldByAnother):
			logger.Warn("checkout rejected: seats unavailable", "screening_id", screeningID, "reason", err)
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrPaymentGateway):
			logger.Error("payment gateway failure", "error", err)
			app.serverErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CheckoutSessionResponse{
		RedirectUrl: redirectUrl,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CheckoutSuccess is the gateway's success return leg: it confirms every
// surviving hold of the caller's pending checkout.
func (app *Application) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userID := app.contextGetUserId(r)

	result, err := app.checkout.CompleteCheckout(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPendingCheckout):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrCheckoutFailed):
			logger.Warn("checkout completion failed: no seats confirmed", "user_id", userID)
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrNotification):
			// The bookings committed; report the partial outcome with the
			// notification failure.
			logger.Error("booking confirmed but notification failed", "user_id", userID, "error", err)
			app.serverErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.CheckoutCompleteResponse{
		Bookings:       toBookingSummaries(result.Confirmed),
		SkippedSeatIds: result.Skipped,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CheckoutCancel is the gateway's cancel return leg. Idempotent.
func (app *Application) CheckoutCancel(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserId(r)

	err := app.checkout.CancelCheckout(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
