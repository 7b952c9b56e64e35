package repository

import (
	"context"
	"errors"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) GetByMovie(ctx context.Context, movieID int) ([]domain.Screening, error) {
	query := `
		SELECT id, venue_name, movie_id, start_time
		FROM screenings
		WHERE movie_id = $1
		ORDER BY start_time
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]domain.Screening, 0)

	for rows.Next() {
		var screening domain.Screening

		err = rows.Scan(
			&screening.ID,
			&screening.VenueName,
			&screening.MovieID,
			&screening.StartTime,
		)
		if err != nil {
			return nil, err
		}

		screenings = append(screenings, screening)
	}

	return screenings, rows.Err()
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id int) (*domain.Screening, error) {
	query := `
		SELECT id, venue_name, movie_id, start_time
		FROM screenings
		WHERE id = $1
	`

	var screening domain.Screening

	err := p.db.QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.VenueName,
		&screening.MovieID,
		&screening.StartTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &screening, nil
}
