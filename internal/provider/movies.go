package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mveraz/citypulse/internal/apperror"
	"github.com/mveraz/citypulse/internal/model"
)

const (
	tmdbBaseURL   = "https://api.themoviedb.org/3"
	tmdbPosterURL = "https://image.tmdb.org/t/p/w500"
)

// MovieClient wraps the TMDB search, popular, and detail APIs.
type MovieClient struct {
	key     string
	baseURL string
	http    *http.Client
}

// NewMovieClient creates a MovieClient. An empty key produces a client
// whose calls answer apperror.Unavailable.
func NewMovieClient(key string) *MovieClient {
	return &MovieClient{
		key:     key,
		baseURL: tmdbBaseURL,
		http:    newHTTPClient(),
	}
}

type tmdbMovie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	ReleaseDate   string  `json:"release_date"`
}

func (m tmdbMovie) toModel() model.Movie {
	out := model.Movie{
		ID:            m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Overview:      m.Overview,
		VoteAverage:   m.VoteAverage,
		ReleaseDate:   m.ReleaseDate,
	}
	if m.PosterPath != "" {
		out.PosterURL = tmdbPosterURL + m.PosterPath
	}
	return out
}

type tmdbPage struct {
	TotalResults int         `json:"total_results"`
	Results      []tmdbMovie `json:"results"`
}

// Search finds movies matching a free-text query (typically a city name).
func (c *MovieClient) Search(ctx context.Context, query string, page int) (*model.MovieSearch, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("movies")
	}
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("api_key", c.key)
	q.Set("query", query)
	q.Set("page", fmt.Sprint(page))

	var raw tmdbPage
	if err := getJSON(ctx, c.http, "tmdb", c.baseURL+"/search/movie?"+q.Encode(), &raw); err != nil {
		return nil, err
	}
	return pageToModel(raw), nil
}

// Popular returns the current popular-movies page.
func (c *MovieClient) Popular(ctx context.Context, page int) (*model.MovieSearch, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("movies")
	}
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("api_key", c.key)
	q.Set("page", fmt.Sprint(page))

	var raw tmdbPage
	if err := getJSON(ctx, c.http, "tmdb", c.baseURL+"/movie/popular?"+q.Encode(), &raw); err != nil {
		return nil, err
	}
	return pageToModel(raw), nil
}

// Detail fetches a single movie by TMDB id.
func (c *MovieClient) Detail(ctx context.Context, movieID int64) (*model.MovieDetail, error) {
	if c.key == "" {
		return nil, apperror.Unavailable("movies")
	}

	q := url.Values{}
	q.Set("api_key", c.key)

	var raw struct {
		tmdbMovie
		Runtime int `json:"runtime"`
		Genres  []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Tagline string `json:"tagline"`
	}
	endpoint := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, movieID, q.Encode())
	if err := getJSON(ctx, c.http, "tmdb", endpoint, &raw); err != nil {
		return nil, err
	}

	detail := &model.MovieDetail{
		Movie:   raw.tmdbMovie.toModel(),
		Runtime: raw.Runtime,
		Tagline: raw.Tagline,
	}
	for _, g := range raw.Genres {
		detail.Genres = append(detail.Genres, g.Name)
	}
	return detail, nil
}

func pageToModel(raw tmdbPage) *model.MovieSearch {
	out := &model.MovieSearch{
		TotalResults: raw.TotalResults,
		Movies:       make([]model.Movie, 0, len(raw.Results)),
	}
	for _, m := range raw.Results {
		out.Movies = append(out.Movies, m.toModel())
	}
	return out
}
