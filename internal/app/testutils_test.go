package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ecerdem/movie-ticket-booking/internal/checkout"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/ecerdem/movie-ticket-booking/internal/mailer"
	"github.com/ecerdem/movie-ticket-booking/internal/mocks"
	"github.com/ecerdem/movie-ticket-booking/internal/reservation"
	appvalidator "github.com/ecerdem/movie-ticket-booking/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*Application

	ledger        *mocks.MemorySeatLedger
	pending       *mocks.MemoryCheckoutStore
	userRepo      *mocks.MockUserRepo
	movieRepo     *mocks.MockMovieRepo
	screeningRepo *mocks.MockScreeningRepo
	bookingRepo   *mocks.MockBookingRepo
	provider      *mocks.MockPaymentProvider
	mailer        *mailer.MockMailer

	router http.Handler
}

func newTestApplication(t *testing.T, seats ...domain.Seat) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ta := &testApp{
		ledger:        mocks.NewMemorySeatLedger(seats...),
		pending:       mocks.NewMemoryCheckoutStore(),
		userRepo:      new(mocks.MockUserRepo),
		movieRepo:     new(mocks.MockMovieRepo),
		screeningRepo: new(mocks.MockScreeningRepo),
		bookingRepo:   new(mocks.MockBookingRepo),
		provider:      new(mocks.MockPaymentProvider),
		mailer:        mailer.NewMockMailer(),
	}

	sessionManager := scs.New()
	sessionManager.Cookie.Name = "session_id"
	sessionManager.IdleTimeout = 20 * time.Minute

	reservations := reservation.NewManager(ta.ledger, logger)

	orchestrator := checkout.NewOrchestrator(checkout.Deps{
		Reservations: reservations,
		Ledger:       ta.ledger,
		Screenings:   ta.screeningRepo,
		Movies:       ta.movieRepo,
		Bookings:     ta.bookingRepo,
		Users:        ta.userRepo,
		Pending:      ta.pending,
		Provider:     ta.provider,
		Pricing:      domain.MoviePricePolicy{},
		Mailer:       ta.mailer,
		Logger:       logger,
	})

	ta.Application = &Application{
		config:         config{Env: "test"},
		logger:         logger,
		validator:      appvalidator.NewValidator(),
		mailer:         ta.mailer,
		sessionManager: sessionManager,
		userRepo:       ta.userRepo,
		movieRepo:      ta.movieRepo,
		screeningRepo:  ta.screeningRepo,
		seatLedger:     ta.ledger,
		bookingRepo:    ta.bookingRepo,
		reservations:   reservations,
		checkout:       orchestrator,
	}

	ta.router = ta.routes()

	return ta
}

func (ta *testApp) executeRequest(t *testing.T, method, url string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	ta.router.ServeHTTP(rr, req)

	return rr
}

// loginAs authenticates the user through the real session stack and returns
// the session cookie for follow-up requests.
func (ta *testApp) loginAs(t *testing.T, user *domain.User, password string) *http.Cookie {
	t.Helper()

	require.NoError(t, user.Password.Set(password))
	ta.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	rr := ta.executeRequest(t, http.MethodPost, "/sessions", map[string]string{
		"email":    user.Email,
		"password": password,
	})

	require.Equal(t, http.StatusOK, rr.Code, "login must succeed: %s", rr.Body.String())

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}

	t.Fatal("no session cookie issued on login")
	return nil
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func testUser(id int) *domain.User {
	return &domain.User{
		ID:        id,
		Name:      "Jamie",
		Email:     "jamie@example.com",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testAdmin(id int) *domain.User {
	user := testUser(id)
	user.Email = "admin@example.com"
	user.IsAdmin = true
	return user
}
