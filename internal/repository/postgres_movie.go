package repository

import (
	"context"
	"errors"

	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			id,
			name,
			poster_url,
			rating,
			cast_members,
			description,
			trailer_url,
			genre,
			language,
			price
		FROM movies
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR genre = $2)
		  AND ($3 = '' OR language = $3)
		ORDER BY id
		LIMIT $4 OFFSET $5
	`

	rows, err := p.db.Query(
		ctx,
		query,
		filters.Term,
		filters.Genre,
		filters.Language,
		filters.Limit(),
		filters.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)
	totalRecords := 0

	for rows.Next() {
		var movie domain.Movie

		err = rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Name,
			&movie.PosterUrl,
			&movie.Rating,
			&movie.CastMembers,
			&movie.Description,
			&movie.TrailerUrl,
			&movie.Genre,
			&movie.Language,
			&movie.Price,
		)
		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT id, name, poster_url, rating, cast_members, description, trailer_url, genre, language, price
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Name,
		&movie.PosterUrl,
		&movie.Rating,
		&movie.CastMembers,
		&movie.Description,
		&movie.TrailerUrl,
		&movie.Genre,
		&movie.Language,
		&movie.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &movie, nil
}
