package repository

import (
	"strings"
	"testing"
)

func TestDefaultHref(t *testing.T) {
	tests := []struct {
		title string
		year  int
		want  string
	}{
		{"Nova", 2023, "Nova_(2023_film)"},
		{"Quiet Harbor", 2021, "Quiet_Harbor_(2021_film)"},
		{"The  Long\tNight", 1999, "The_Long_Night_(1999_film)"},
	}
	for _, tt := range tests {
		if got := defaultHref(tt.title, tt.year); got != tt.want {
			t.Errorf("defaultHref(%q, %d) = %q, want %q", tt.title, tt.year, got, tt.want)
		}
	}
}

func TestJoinNames(t *testing.T) {
	if got := joinNames(nil); got != "" {
		t.Errorf("joinNames(nil) = %q, want empty", got)
	}
	if got := joinNames([]string{"Drama", "Comedy", "Action"}); got != "Action, Comedy, Drama" {
		t.Errorf("joinNames = %q, want sorted aggregate", got)
	}
}

func TestBuildMovieWhere(t *testing.T) {
	clause, args := buildMovieWhere(MovieListFilters{})
	if clause != "" || len(args) != 0 {
		t.Fatalf("empty filters produced clause %q with %d args", clause, len(args))
	}

	genre := " Drama "
	cast := "Ana Torres"
	year := 2021
	title := "harbor"
	rate := 7.5
	clause, args = buildMovieWhere(MovieListFilters{
		Genre: &genre,
		Cast:  &cast,
		Year:  &year,
		Title: &title,
		Rate:  &rate,
	})
	if len(args) != 5 {
		t.Fatalf("args = %v, want 5 bound values", args)
	}
	if args[0] != "drama" {
		t.Errorf("genre arg = %v, want lowercased trimmed name", args[0])
	}
	if args[3] != "%harbor%" {
		t.Errorf("title arg = %v, want wrapped pattern", args[3])
	}
	for _, fragment := range []string{"m.year = $3", "m.title ILIKE $4", "m.rate >= $5"} {
		if !strings.Contains(clause, fragment) {
			t.Errorf("clause missing %q: %s", fragment, clause)
		}
	}

	blank := "   "
	clause, args = buildMovieWhere(MovieListFilters{Genre: &blank, Title: &blank})
	if clause != "" || len(args) != 0 {
		t.Fatalf("blank filters produced clause %q with %d args", clause, len(args))
	}
}
