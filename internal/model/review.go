package model

import "time"

// CityReview is a user's written review of a city.
// Rating is 1–5; Tags keeps its insertion order.
type CityReview struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"`
	City       string    `json:"city"       db:"city"`
	Country    string    `json:"country"    db:"country"`
	Title      string    `json:"title"      db:"title"`
	Rating     int       `json:"rating"     db:"rating"`
	ReviewText string    `json:"reviewText" db:"review_text"`
	Tags       []string  `json:"tags"       db:"tags"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}

// CityReviewWithAuthor joins a review with its author's public profile,
// used by the per-city review listing.
type CityReviewWithAuthor struct {
	CityReview
	AuthorUsername    string `json:"authorUsername"`
	AuthorDisplayName string `json:"authorDisplayName"`
	AuthorAvatarURL   string `json:"authorAvatarUrl"`
}
