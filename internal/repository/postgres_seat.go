package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSeatLedger is the durable seat ledger. Acquire and confirm are
// conditional updates whose WHERE clauses encode the full precondition, so
// two concurrent winners are impossible: the database serializes the
// read-modify-write per row.
type PostgresSeatLedger struct {
	db *pgxpool.Pool
}

func NewPostgresSeatLedger(db *pgxpool.Pool) *PostgresSeatLedger {
	return &PostgresSeatLedger{
		db: db,
	}
}

func (p *PostgresSeatLedger) GetSeatsByScreening(ctx context.Context, screeningID int) ([]domain.Seat, error) {
	query := `
		SELECT id, screening_id, seat_number, is_booked, reserved_by, reserved_at
		FROM seats
		WHERE screening_id = $1
		ORDER BY seat_number
	`

	rows, err := p.db.Query(ctx, query, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.ScreeningID,
			&seat.SeatNumber,
			&seat.IsBooked,
			&seat.ReservedBy,
			&seat.ReservedAt,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresSeatLedger) AcquireSeats(
	ctx context.Context,
	screeningID int,
	seatIDs []int,
	userID int,
	now, cutoff time.Time) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE seats
			SET reserved_by = $1, reserved_at = $2
			WHERE screening_id = $3
			  AND id = ANY($4)
			  AND is_booked = FALSE
			  AND (reserved_by IS NULL OR reserved_by = $1 OR reserved_at <= $5)
		`

		tag, err := tx.Exec(ctx, query, userID, now, screeningID, seatIDs, cutoff)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) == len(seatIDs) {
			return nil
		}

		// The batch is all-or-nothing: returning an error rolls back any
		// seats this call tentatively locked. Classify the rejection.
		var total, booked int

		query = `
			SELECT COUNT(*), COUNT(*) FILTER (WHERE is_booked)
			FROM seats
			WHERE screening_id = $1 AND id = ANY($2)
		`

		err = tx.QueryRow(ctx, query, screeningID, seatIDs).Scan(&total, &booked)
		if err != nil {
			return err
		}

		switch {
		case total < len(seatIDs):
			return domain.ErrRecordNotFound
		case booked > 0:
			return domain.ErrSeatAlreadyBooked
		default:
			return domain.ErrSeatHeldByAnother
		}
	})
}

func (p *PostgresSeatLedger) SweepExpired(ctx context.Context, screeningID int, cutoff time.Time) (int, error) {
	// Conditioning on reserved_at keeps the sweep safe against a racing
	// acquire: a just-created lock carries a timestamp past the cutoff.
	query := `
		UPDATE seats
		SET reserved_by = NULL, reserved_at = NULL
		WHERE screening_id = $1
		  AND is_booked = FALSE
		  AND reserved_at IS NOT NULL
		  AND reserved_at <= $2
	`

	tag, err := p.db.Exec(ctx, query, screeningID, cutoff)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresSeatLedger) ReleaseByUser(ctx context.Context, screeningID, userID int) error {
	query := `
		UPDATE seats
		SET reserved_by = NULL, reserved_at = NULL
		WHERE screening_id = $1
		  AND reserved_by = $2
		  AND is_booked = FALSE
	`

	_, err := p.db.Exec(ctx, query, screeningID, userID)
	return err
}

func (p *PostgresSeatLedger) ConfirmSeat(ctx context.Context, seatID, userID int, cutoff time.Time) (*domain.Seat, error) {
	query := `
		UPDATE seats
		SET is_booked = TRUE, reserved_by = NULL, reserved_at = NULL
		WHERE id = $1
		  AND is_booked = FALSE
		  AND reserved_by = $2
		  AND reserved_at > $3
		RETURNING id, screening_id, seat_number
	`

	var seat domain.Seat
	seat.IsBooked = true

	err := p.db.QueryRow(ctx, query, seatID, userID, cutoff).Scan(
		&seat.ID,
		&seat.ScreeningID,
		&seat.SeatNumber,
	)
	if err == nil {
		return &seat, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var isBooked bool

	err = p.db.QueryRow(ctx, `SELECT is_booked FROM seats WHERE id = $1`, seatID).Scan(&isBooked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	if isBooked {
		return nil, domain.ErrSeatAlreadyBooked
	}

	return nil, domain.ErrSeatHoldExpired
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
