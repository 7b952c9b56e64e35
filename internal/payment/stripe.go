package payment

import (
	"fmt"
	"strconv"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	cancelUrl  string
	successUrl string
}

func NewStripePaymentProvider(cancelUrl, successUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		cancelUrl:  cancelUrl,
		successUrl: successUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	user *domain.User,
	order domain.CheckoutOrder) (*stripe.CheckoutSession, error) {

	amountCents := order.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()

	seatLabels := make([]string, len(order.Seats))
	for i, seat := range order.Seats {
		seatLabels[i] = seat.SeatNumber
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyUSD)),
			UnitAmount: stripe.Int64(amountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(fmt.Sprintf("Movie Ticket - %s", order.MovieName)),
				Description: stripe.String(fmt.Sprintf(
					"Venue: %s • Showtime: %s • Seats: %d",
					order.VenueName,
					order.StartTime.Format("Jan 2, 2006 15:04"),
					len(order.Seats),
				)),
			},
		},
		Quantity: stripe.Int64(1),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.cancelUrl),
		Metadata: map[string]string{
			"checkout_id": order.ID,
			"user_id":     strconv.Itoa(user.ID),
		},
		CustomerEmail:     &user.Email,
		ClientReferenceID: stripe.String(strconv.Itoa(user.ID)),
	}

	return session.New(params)
}
