// Package api holds the request and response shapes of the HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type MovieSummary struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	PosterUrl   string          `json:"posterUrl,omitempty"`
	Rating      decimal.Decimal `json:"rating"`
	Genre       string          `json:"genre"`
	Language    string          `json:"language"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

type MovieListResponse struct {
	Movies   []MovieSummary `json:"movies"`
	Metadata *Metadata      `json:"metadata,omitempty"`
}

type ScreeningSummary struct {
	Id        int       `json:"id"`
	VenueName string    `json:"venueName"`
	StartTime time.Time `json:"startTime"`
}

type ScreeningListResponse struct {
	MovieId         int                `json:"movieId"`
	MovieName       string             `json:"movieName"`
	TrailerEmbedUrl string             `json:"trailerEmbedUrl,omitempty"`
	Screenings      []ScreeningSummary `json:"screenings"`
}

type Seat struct {
	Id         int    `json:"id"`
	SeatNumber string `json:"seatNumber"`
	Available  bool   `json:"available"`
}

type SeatMapResponse struct {
	ScreeningId int       `json:"screeningId"`
	VenueName   string    `json:"venueName"`
	StartTime   time.Time `json:"startTime"`
	Seats       []Seat    `json:"seats"`
}

type CreateCheckoutRequest struct {
	SeatIds []int `json:"seatIds" validate:"required,min=1,max=8,dive,gt=0"`
}

type CheckoutSessionResponse struct {
	RedirectUrl string `json:"redirectUrl"`
}

type BookingSummary struct {
	Id            int             `json:"id"`
	Reference     string          `json:"reference"`
	SeatNumber    string          `json:"seatNumber"`
	ScreeningId   int             `json:"screeningId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	BookedAt      time.Time       `json:"bookedAt"`
}

type CheckoutCompleteResponse struct {
	Bookings       []BookingSummary `json:"bookings"`
	SkippedSeatIds []int            `json:"skippedSeatIds,omitempty"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata *Metadata        `json:"metadata,omitempty"`
}

type MovieBookings struct {
	MovieName     string `json:"movieName"`
	TotalBookings int    `json:"totalBookings"`
}

type VenueBookings struct {
	VenueName     string `json:"venueName"`
	TotalBookings int    `json:"totalBookings"`
}

type DailyBookings struct {
	Date          string `json:"date"`
	TotalBookings int    `json:"totalBookings"`
}

type DashboardResponse struct {
	Filter        string          `json:"filter"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	PopularMovies []MovieBookings `json:"popularMovies"`
	BusiestVenues []VenueBookings `json:"busiestVenues"`
	DailyBookings []DailyBookings `json:"dailyBookings"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
