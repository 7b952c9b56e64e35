package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
)

// Booking is one purchased seat. Rows are created exactly once at payment
// confirmation and never mutated afterwards.
type Booking struct {
	ID            int
	Reference     string
	UserID        int
	SeatID        int
	SeatNumber    string
	ScreeningID   int
	MovieID       int
	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
	BookedAt      time.Time
}

type MovieBookingCount struct {
	MovieName     string
	TotalBookings int
}

type VenueBookingCount struct {
	VenueName     string
	TotalBookings int
}

type DailyBookingCount struct {
	Day           time.Time
	TotalBookings int
}

// ReportFilter selects the date window for dashboard aggregates.
type ReportFilter string

const (
	ReportFilterAll       ReportFilter = "all"
	ReportFilterToday     ReportFilter = "today"
	ReportFilterLast7Days ReportFilter = "last7days"
)

func ParseReportFilter(s string) (ReportFilter, error) {
	switch ReportFilter(s) {
	case ReportFilterAll, ReportFilterToday, ReportFilterLast7Days:
		return ReportFilter(s), nil
	case "":
		return ReportFilterAll, nil
	}

	return "", fmt.Errorf("unknown report filter %q", s)
}

// Window returns the inclusive lower bound of the filter relative to now.
// ok is false for the unbounded "all" filter.
func (f ReportFilter) Window(now time.Time) (from time.Time, ok bool) {
	switch f {
	case ReportFilterToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case ReportFilterLast7Days:
		return now.AddDate(0, 0, -7), true
	}

	return time.Time{}, false
}

// BookingRepository is the append-only booking ledger plus the read surface
// consumed by the reporting dashboard. All aggregates cover SUCCESS bookings
// only.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByUser(ctx context.Context, userID int, pagination Pagination) ([]Booking, *Metadata, error)

	TotalRevenue(ctx context.Context, filter ReportFilter) (decimal.Decimal, error)
	CountByMovie(ctx context.Context, filter ReportFilter) ([]MovieBookingCount, error)
	CountByVenue(ctx context.Context, filter ReportFilter) ([]VenueBookingCount, error)
	CountByDay(ctx context.Context, filter ReportFilter) ([]DailyBookingCount, error)
}
