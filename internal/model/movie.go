package model

// Movie is one movie-search hit trimmed to the rendered fields.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterURL     string  `json:"poster_url"`
	VoteAverage   float64 `json:"vote_average"`
	ReleaseDate   string  `json:"release_date"`
}

// MovieSearch is a paged movie search response.
type MovieSearch struct {
	TotalResults int     `json:"total_results"`
	Movies       []Movie `json:"movies"`
}

// MovieDetail extends Movie with the fields only the detail endpoint returns.
type MovieDetail struct {
	Movie
	Runtime int      `json:"runtime"`
	Genres  []string `json:"genres"`
	Tagline string   `json:"tagline"`
}
