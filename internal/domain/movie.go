package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID          int
	Name        string
	PosterUrl   string
	Rating      decimal.Decimal
	CastMembers string
	Description string
	TrailerUrl  string
	Genre       string
	Language    string
	Price       decimal.Decimal
}

// TrailerEmbedUrl converts the stored YouTube watch/share link into an
// embeddable player URL. Returns an empty string when the link is not a
// recognizable YouTube URL.
func (m Movie) TrailerEmbedUrl() string {
	url := strings.TrimSpace(m.TrailerUrl)
	if url == "" {
		return ""
	}

	var videoId string

	switch {
	case strings.Contains(url, "youtu.be/"):
		videoId = url[strings.Index(url, "youtu.be/")+len("youtu.be/"):]
	case strings.Contains(url, "watch?v="):
		videoId = url[strings.Index(url, "watch?v=")+len("watch?v="):]
	default:
		return ""
	}

	videoId, _, _ = strings.Cut(videoId, "&")
	videoId, _, _ = strings.Cut(videoId, "?")

	return "https://www.youtube.com/embed/" + videoId
}

type MovieFilters struct {
	Page     int
	PageSize int
	Term     string
	Genre    string
	Language string
}

func (f MovieFilters) Limit() int {
	return f.PageSize
}

func (f MovieFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type MovieRepository interface {
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
}
