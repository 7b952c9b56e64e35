package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ecerdem/movie-ticket-booking/api"
	"github.com/ecerdem/movie-ticket-booking/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := domain.MovieFilters{
		Page:     app.readInt(qs, "page", DefaultPage),
		PageSize: app.readInt(qs, "pageSize", DefaultPageSize),
		Term:     app.readString(qs, "search", ""),
		Genre:    app.readString(qs, "genre", ""),
		Language: app.readString(qs, "language", ""),
	}

	if filters.Page < 1 || filters.PageSize < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("page and pageSize must be greater than zero"))
		return
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   toMovieSummaries(movies),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreeningsOfMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid movie ID"))
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	screenings, err := app.screeningRepo.GetByMovie(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ScreeningListResponse{
		MovieId:         movie.ID,
		MovieName:       movie.Name,
		TrailerEmbedUrl: movie.TrailerEmbedUrl(),
		Screenings:      toScreeningSummaries(screenings),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieSummaries(movies []*domain.Movie) []api.MovieSummary {
	summaries := make([]api.MovieSummary, len(movies))

	for i, movie := range movies {
		summaries[i] = api.MovieSummary{
			Id:          movie.ID,
			Name:        movie.Name,
			PosterUrl:   movie.PosterUrl,
			Rating:      movie.Rating,
			Genre:       movie.Genre,
			Language:    movie.Language,
			Price:       movie.Price,
			Description: movie.Description,
		}
	}

	return summaries
}

func toScreeningSummaries(screenings []domain.Screening) []api.ScreeningSummary {
	summaries := make([]api.ScreeningSummary, len(screenings))

	for i, s := range screenings {
		summaries[i] = api.ScreeningSummary{
			Id:        s.ID,
			VenueName: s.VenueName,
			StartTime: s.StartTime,
		}
	}

	return summaries
}
