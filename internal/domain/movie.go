package domain

// Movie represents the canonical movie entity in the database/service.
// Genres and Cast carry the denormalized relation names: comma-space
// separated, alphabetical, empty when the movie has no relations.
type Movie struct {
	ID              string
	Title           string
	Year            int
	Extract         string
	Rate            float64
	Thumbnail       string
	ThumbnailWidth  int
	ThumbnailHeight int
	Href            string
	Genres          string
	Cast            string
}
