package domain

import "github.com/shopspring/decimal"

// PricingPolicy resolves the per-seat unit price of a checkout at call time.
// Every seat of a booking is charged the same unit price.
type PricingPolicy interface {
	UnitPrice(screening *Screening, movie *Movie) decimal.Decimal
}

// MoviePricePolicy charges the price attribute of the screening's movie.
type MoviePricePolicy struct{}

func (MoviePricePolicy) UnitPrice(_ *Screening, movie *Movie) decimal.Decimal {
	return movie.Price
}

// FlatPricePolicy charges a fixed amount per seat regardless of the movie.
type FlatPricePolicy struct {
	Amount decimal.Decimal
}

func (p FlatPricePolicy) UnitPrice(*Screening, *Movie) decimal.Decimal {
	return p.Amount
}
