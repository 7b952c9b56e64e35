package domain

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user already exists with this email")
	ErrRecordNotFound    = errors.New("record not found")

	ErrSeatAlreadyBooked = errors.New("seat is already booked")
	ErrSeatHeldByAnother = errors.New("seat is currently held by another user")
	ErrSeatHoldExpired   = errors.New("seat hold has expired, please select your seats again")

	ErrNoPendingCheckout = errors.New("no pending checkout found for the current user")
	ErrCheckoutFailed    = errors.New("no seats could be confirmed, checkout failed")
	ErrPaymentGateway    = errors.New("payment gateway error")
	ErrNotification      = errors.New("booking confirmation email could not be sent")
)
