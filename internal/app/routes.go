package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("ticket-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{movieID}/screenings", app.GetScreeningsOfMovie)
	r.Get("/screenings/{screeningID}/seats", app.GetSeatMap)

	r.Post("/users", app.RegisterUser)
	r.Post("/sessions", app.LoginUser)
	r.Delete("/sessions", app.LogoutUser)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/screenings/{screeningID}/checkout", app.CreateCheckout)
		r.Get("/checkout/success", app.CheckoutSuccess)
		r.Post("/checkout/cancel", app.CheckoutCancel)
		r.Get("/users/me/bookings", app.GetUserBookings)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(app.requireAdmin)

		r.Get("/admin/dashboard", app.AdminDashboard)
	})

	return r
}
