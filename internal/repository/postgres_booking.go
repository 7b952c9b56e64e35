package repository

import (
	"context"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresBookingRepository is the append-only booking recorder. Rows are
// inserted once at payment confirmation and never updated.
type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			reference,
			user_id,
			seat_id,
			seat_number,
			screening_id,
			movie_id,
			total_amount,
			payment_status,
			booked_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	return p.db.QueryRow(
		ctx,
		query,
		booking.Reference,
		booking.UserID,
		booking.SeatID,
		booking.SeatNumber,
		booking.ScreeningID,
		booking.MovieID,
		booking.TotalAmount,
		booking.PaymentStatus,
		booking.BookedAt,
	).Scan(&booking.ID)
}

func (p *PostgresBookingRepository) GetByUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.Booking, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			id,
			reference,
			user_id,
			seat_id,
			seat_number,
			screening_id,
			movie_id,
			total_amount,
			payment_status,
			booked_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY booked_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&totalRecords,
			&booking.ID,
			&booking.Reference,
			&booking.UserID,
			&booking.SeatID,
			&booking.SeatNumber,
			&booking.ScreeningID,
			&booking.MovieID,
			&booking.TotalAmount,
			&booking.PaymentStatus,
			&booking.BookedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) TotalRevenue(ctx context.Context, filter domain.ReportFilter) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM bookings
		WHERE payment_status = 'SUCCESS' AND booked_at >= $1
	`

	var total decimal.Decimal

	err := p.db.QueryRow(ctx, query, filterFrom(filter)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (p *PostgresBookingRepository) CountByMovie(ctx context.Context, filter domain.ReportFilter) ([]domain.MovieBookingCount, error) {
	query := `
		SELECT m.name, COUNT(b.id) AS total_bookings
		FROM bookings b
		JOIN movies m ON b.movie_id = m.id
		WHERE b.payment_status = 'SUCCESS' AND b.booked_at >= $1
		GROUP BY m.name
		ORDER BY total_bookings DESC
	`

	rows, err := p.db.Query(ctx, query, filterFrom(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.MovieBookingCount, 0)

	for rows.Next() {
		var count domain.MovieBookingCount

		err = rows.Scan(&count.MovieName, &count.TotalBookings)
		if err != nil {
			return nil, err
		}

		counts = append(counts, count)
	}

	return counts, rows.Err()
}

func (p *PostgresBookingRepository) CountByVenue(ctx context.Context, filter domain.ReportFilter) ([]domain.VenueBookingCount, error) {
	query := `
		SELECT s.venue_name, COUNT(b.id) AS total_bookings
		FROM bookings b
		JOIN screenings s ON b.screening_id = s.id
		WHERE b.payment_status = 'SUCCESS' AND b.booked_at >= $1
		GROUP BY s.venue_name
		ORDER BY total_bookings DESC
	`

	rows, err := p.db.Query(ctx, query, filterFrom(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.VenueBookingCount, 0)

	for rows.Next() {
		var count domain.VenueBookingCount

		err = rows.Scan(&count.VenueName, &count.TotalBookings)
		if err != nil {
			return nil, err
		}

		counts = append(counts, count)
	}

	return counts, rows.Err()
}

func (p *PostgresBookingRepository) CountByDay(ctx context.Context, filter domain.ReportFilter) ([]domain.DailyBookingCount, error) {
	query := `
		SELECT DATE_TRUNC('day', booked_at)::date AS day, COUNT(id)
		FROM bookings
		WHERE payment_status = 'SUCCESS' AND booked_at >= $1
		GROUP BY day
		ORDER BY day
	`

	rows, err := p.db.Query(ctx, query, filterFrom(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.DailyBookingCount, 0)

	for rows.Next() {
		var count domain.DailyBookingCount

		err = rows.Scan(&count.Day, &count.TotalBookings)
		if err != nil {
			return nil, err
		}

		counts = append(counts, count)
	}

	return counts, rows.Err()
}

// filterFrom maps a report filter onto an inclusive lower bound usable in a
// booked_at >= $1 predicate; the unbounded filter maps to the zero time.
func filterFrom(filter domain.ReportFilter) time.Time {
	from, ok := filter.Window(time.Now())
	if !ok {
		return time.Time{}
	}

	return from
}
