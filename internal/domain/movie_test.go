package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovieTrailerEmbedUrl(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "share link",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "watch link",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "watch link with extra params",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "share link with query",
			url:  "https://youtu.be/dQw4w9WgXcQ?si=abc123",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
		{
			name: "not a youtube link",
			url:  "https://vimeo.com/123456",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			movie := Movie{TrailerUrl: tc.url}
			assert.Equal(t, tc.want, movie.TrailerEmbedUrl())
		})
	}
}
