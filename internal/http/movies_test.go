package httpserver

import (
	"io"
	"log"
	"testing"

	"github.com/WillJkdev/API-REST-Movies/internal/domain"
)

func newValidationServer() *Server {
	return &Server{
		validate: newValidator(),
		logger:   log.New(io.Discard, "", 0),
	}
}

func validCreateRequest() movieCreateRequest {
	return movieCreateRequest{
		Title:     "Nova",
		Year:      2023,
		Extract:   "A deep space rescue goes sideways.",
		Thumbnail: "https://example.com/nova.jpg",
		Genres:    []string{"Drama"},
		Cast:      []string{"Ana Torres"},
	}
}

func TestValidateCreateRequest(t *testing.T) {
	srv := newValidationServer()

	if msg, ok := srv.validateRequest(validCreateRequest()); !ok {
		t.Fatalf("valid request rejected: %s", msg)
	}

	floatPtr := func(f float64) *float64 { return &f }
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name   string
		mutate func(req *movieCreateRequest)
	}{
		{"missing title", func(r *movieCreateRequest) { r.Title = "" }},
		{"year too early", func(r *movieCreateRequest) { r.Year = 1899 }},
		{"year too late", func(r *movieCreateRequest) { r.Year = 2026 }},
		{"rate negative", func(r *movieCreateRequest) { r.Rate = floatPtr(-1) }},
		{"rate above ten", func(r *movieCreateRequest) { r.Rate = floatPtr(10.5) }},
		{"thumbnail not a url", func(r *movieCreateRequest) { r.Thumbnail = "nova.jpg" }},
		{"thumbnail width too large", func(r *movieCreateRequest) { r.ThumbnailWidth = intPtr(1001) }},
		{"no genres", func(r *movieCreateRequest) { r.Genres = nil }},
		{"genre outside vocabulary", func(r *movieCreateRequest) { r.Genres = []string{"Telenovela"} }},
		{"no cast", func(r *movieCreateRequest) { r.Cast = nil }},
		{"blank cast entry", func(r *movieCreateRequest) { r.Cast = []string{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			if msg, ok := srv.validateRequest(req); ok {
				t.Fatalf("invalid request accepted (%s)", msg)
			}
		})
	}
}

func TestValidateUpdateRequest(t *testing.T) {
	srv := newValidationServer()

	// A fully empty patch is valid; rejecting no-op bodies is not the
	// validator's job.
	if msg, ok := srv.validateRequest(movieUpdateRequest{}); !ok {
		t.Fatalf("empty update rejected: %s", msg)
	}

	year := 1800
	if _, ok := srv.validateRequest(movieUpdateRequest{Year: &year}); ok {
		t.Fatalf("out-of-range year accepted")
	}

	if _, ok := srv.validateRequest(movieUpdateRequest{Genres: []string{"Not A Genre"}}); ok {
		t.Fatalf("unknown genre accepted on update")
	}
}

func TestGenreVocabulary(t *testing.T) {
	for _, name := range []string{"Action", "Drama", "Science Fiction", "Western"} {
		if _, ok := genreVocabulary[name]; !ok {
			t.Fatalf("expected %q in the vocabulary", name)
		}
	}
	if _, ok := genreVocabulary["drama"]; ok {
		t.Fatalf("vocabulary lookup should be case-sensitive")
	}
	if len(genreVocabulary) != 41 {
		t.Fatalf("vocabulary size = %d, want 41", len(genreVocabulary))
	}
}

func TestToMovieResponse(t *testing.T) {
	movie := domain.Movie{
		ID:              "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a",
		Title:           "Nova",
		Year:            2023,
		Extract:         "x",
		Rate:            7.5,
		Thumbnail:       "https://example.com/nova.jpg",
		ThumbnailWidth:  320,
		ThumbnailHeight: 180,
		Href:            "Nova_(2023_film)",
		Genres:          "Drama",
		Cast:            "Ana Torres",
	}

	resp := toMovieResponse(movie)
	if resp.ID != movie.ID || resp.Rate != 7.5 || resp.Genres != "Drama" || resp.Cast != "Ana Torres" {
		t.Fatalf("toMovieResponse = %+v", resp)
	}
	if resp.ThumbnailHeight != 180 {
		t.Fatalf("thumbnail height not carried: %+v", resp)
	}
}
