package httpserver

import (
	"net/url"
	"testing"
)

func TestBuildMovieFilters(t *testing.T) {
	values, _ := url.ParseQuery("genre= Drama &cast= Ana Torres &title=harbor&year=2021&rate=7.5&page=2&limit=10")

	filters, err := buildMovieFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Genre == nil || *filters.Genre != "Drama" {
		t.Fatalf("genre not trimmed: %+v", filters.Genre)
	}
	if filters.Cast == nil || *filters.Cast != "Ana Torres" {
		t.Fatalf("cast parse failed: %+v", filters.Cast)
	}
	if filters.Title == nil || *filters.Title != "harbor" {
		t.Fatalf("title parse failed: %+v", filters.Title)
	}
	if filters.Year == nil || *filters.Year != 2021 {
		t.Fatalf("year parse failed: %+v", filters.Year)
	}
	if filters.Rate == nil || *filters.Rate != 7.5 {
		t.Fatalf("rate parse failed: %+v", filters.Rate)
	}
	if filters.Page != 2 || filters.Limit != 10 {
		t.Fatalf("pagination parse failed: page=%d limit=%d", filters.Page, filters.Limit)
	}
}

func TestBuildMovieFilters_Defaults(t *testing.T) {
	filters, err := buildMovieFilters(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Page != 1 || filters.Limit != 30 {
		t.Fatalf("defaults = page %d limit %d, want 1/30", filters.Page, filters.Limit)
	}
	if filters.Genre != nil || filters.Cast != nil || filters.Title != nil || filters.Year != nil || filters.Rate != nil {
		t.Fatalf("absent filters should stay nil: %+v", filters)
	}

	// Whitespace-only values count as absent.
	values, _ := url.ParseQuery("genre=%20%20&title=%20")
	filters, err = buildMovieFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Genre != nil || filters.Title != nil {
		t.Fatalf("blank filters should stay nil: %+v", filters)
	}
}

func TestBuildMovieFilters_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"year not a number", "year=abc"},
		{"rate not a number", "rate=high"},
		{"page zero", "page=0"},
		{"page negative", "page=-2"},
		{"page not a number", "page=first"},
		{"limit zero", "limit=0"},
		{"limit above cap", "limit=101"},
		{"limit not a number", "limit=all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			if _, err := buildMovieFilters(values); err == nil {
				t.Fatalf("query %q parsed without error", tt.query)
			}
		})
	}
}
