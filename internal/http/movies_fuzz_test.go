package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildMovieFilters(f *testing.F) {
	seeds := []string{
		"genre=Drama&cast=Ana+Torres&year=2021",
		"title=harbor&rate=7.5",
		"year=abc",
		"page=0&limit=200",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildMovieFilters(values)
		if err != nil {
			return
		}
		if filters.Page < 1 {
			t.Fatalf("accepted page %d", filters.Page)
		}
		if filters.Limit < 1 || filters.Limit > 100 {
			t.Fatalf("accepted limit %d", filters.Limit)
		}
	})
}
