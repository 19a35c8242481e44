package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mveraz/citypulse/internal/model"
	"github.com/mveraz/citypulse/internal/repository"
)

var _ repository.ReviewRepository = (*DB)(nil)

// CreateReview inserts a city review. Tags are stored as a JSON array so
// their order survives the round trip.
func (db *DB) CreateReview(ctx context.Context, r *model.CityReview) error {
	r.ID = xid.New().String()
	r.CreatedAt = time.Now()

	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encoding review tags: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO city_reviews (id, user_id, city, country, title, rating, review_text, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.City, r.Country, r.Title, r.Rating, r.ReviewText,
		string(tags), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating review: %w", err)
	}
	return nil
}

// ListReviewsByUser returns a user's reviews, newest first.
func (db *DB) ListReviewsByUser(ctx context.Context, userID string) ([]model.CityReview, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, city, country, title, rating, review_text, tags, created_at
		 FROM city_reviews
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews by user: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.CityReview, 0)
	for rows.Next() {
		var r model.CityReview
		var tags string
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.City, &r.Country, &r.Title,
			&r.Rating, &r.ReviewText, &tags, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding review tags: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reviews: %w", err)
	}
	return reviews, nil
}

// ListReviewsByCity returns all reviews for a city joined with the
// reviewer's public profile, newest first.
func (db *DB) ListReviewsByCity(ctx context.Context, city string) ([]model.CityReviewWithAuthor, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.city, r.country, r.title, r.rating, r.review_text, r.tags, r.created_at,
		        p.username, p.display_name, p.avatar_url
		 FROM city_reviews r
		 JOIN profiles p ON p.id = r.user_id
		 WHERE r.city = ?
		 ORDER BY r.created_at DESC`,
		city,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews by city: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.CityReviewWithAuthor, 0)
	for rows.Next() {
		var r model.CityReviewWithAuthor
		var tags string
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.City, &r.Country, &r.Title,
			&r.Rating, &r.ReviewText, &tags, &r.CreatedAt,
			&r.AuthorUsername, &r.AuthorDisplayName, &r.AuthorAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning city review: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding review tags: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating city reviews: %w", err)
	}
	return reviews, nil
}

// DeleteReview removes a review owned by userID.
func (db *DB) DeleteReview(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM city_reviews WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting review %s: %w", id, err)
	}
	return checkAffected(result, "review", id)
}
