package app

import (
	"net/http"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
)

// AdminDashboard aggregates SUCCESS bookings for the reporting view:
// total revenue, bookings per movie, per venue and per day, windowed by
// the all|today|last7days filter.
func (app *Application) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseReportFilter(r.URL.Query().Get("filter"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	totalRevenue, err := app.bookingRepo.TotalRevenue(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	popularMovies, err := app.bookingRepo.CountByMovie(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	busiestVenues, err := app.bookingRepo.CountByVenue(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	dailyBookings, err := app.bookingRepo.CountByDay(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.DashboardResponse{
		Filter:        string(filter),
		TotalRevenue:  totalRevenue,
		PopularMovies: toApiMovieBookings(popularMovies),
		BusiestVenues: toApiVenueBookings(busiestVenues),
		DailyBookings: toApiDailyBookings(dailyBookings),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovieBookings(counts []domain.MovieBookingCount) []api.MovieBookings {
	result := make([]api.MovieBookings, len(counts))

	for i, c := range counts {
		result[i] = api.MovieBookings{
			MovieName:     c.MovieName,
			TotalBookings: c.TotalBookings,
		}
	}

	return result
}

func toApiVenueBookings(counts []domain.VenueBookingCount) []api.VenueBookings {
	result := make([]api.VenueBookings, len(counts))

	for i, c := range counts {
		result[i] = api.VenueBookings{
			VenueName:     c.VenueName,
			TotalBookings: c.TotalBookings,
		}
	}

	return result
}

func toApiDailyBookings(counts []domain.DailyBookingCount) []api.DailyBookings {
	result := make([]api.DailyBookings, len(counts))

	for i, c := range counts {
		result[i] = api.DailyBookings{
			Date:          c.Day.Format("2006-01-02"),
			TotalBookings: c.TotalBookings,
		}
	}

	return result
}
