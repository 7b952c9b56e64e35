package domain

import (
	"context"
	"time"
)

// Screening is a specific showing of a movie at a venue, the owner of a
// fixed seat map.
type Screening struct {
	ID        int
	VenueName string
	MovieID   int
	StartTime time.Time
}

type ScreeningRepository interface {
	GetByMovie(ctx context.Context, movieID int) ([]Screening, error)
	GetById(ctx context.Context, id int) (*Screening, error)
}
