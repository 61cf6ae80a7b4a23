// Package reviews stores user ratings and publishes change events.
package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"mediashelf/models"
)

var (
	ErrConflict         = errors.New("media already reviewed by this user")
	ErrNotFound         = errors.New("review not found")
	ErrScoreOutOfRange  = errors.New("score must be between 1 and 10")
	ErrTextTooLong      = errors.New("review text exceeds 500 characters")
	ErrMediaIDRequired  = errors.New("media id is required")
	ErrTitleRequired    = errors.New("media title is required")
	ErrInvalidMediaType = errors.New("invalid media type")
)

// maxTextLength caps the free-text portion of a review.
const maxTextLength = 500

// Service persists reviews in SQLite. One review per (user, media) pair;
// duplicates are rejected, the caller offers delete-then-recreate instead.
type Service struct {
	db     *sql.DB
	events *broadcaster
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, events: newBroadcaster()}
}

// Subscribe registers a listener for review change events. The returned
// channel is closed by Unsubscribe.
func (s *Service) Subscribe() chan Event {
	return s.events.subscribe()
}

func (s *Service) Unsubscribe(ch chan Event) {
	s.events.unsubscribe(ch)
}

// Create stores a new review for userID. The score keeps one decimal of
// precision. Returns ErrConflict if the user already reviewed this media.
func (s *Service) Create(ctx context.Context, userID string, input models.ReviewInput) (models.Review, error) {
	review := models.Review{
		UserID:     userID,
		MediaID:    strings.TrimSpace(input.MediaID),
		MediaType:  input.MediaType,
		MediaTitle: strings.TrimSpace(input.MediaTitle),
		PosterURL:  strings.TrimSpace(input.PosterURL),
		Score:      math.Round(input.Score*10) / 10,
		Text:       strings.TrimSpace(input.Text),
		CreatedAt:  time.Now().UTC(),
	}

	if review.MediaID == "" {
		return models.Review{}, ErrMediaIDRequired
	}
	if review.MediaTitle == "" {
		return models.Review{}, ErrTitleRequired
	}
	if !models.ValidMediaType(review.MediaType) {
		return models.Review{}, ErrInvalidMediaType
	}
	if review.Score < 1 || review.Score > 10 {
		return models.Review{}, ErrScoreOutOfRange
	}
	if len([]rune(review.Text)) > maxTextLength {
		return models.Review{}, ErrTextTooLong
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, media_id, media_type, media_title, poster_url, score, review_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		review.UserID, review.MediaID, string(review.MediaType), review.MediaTitle,
		review.PosterURL, review.Score, review.Text, review.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.Review{}, ErrConflict
		}
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}

	review.ID, err = res.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}

	log.Printf("[reviews] user %s reviewed %s/%s: %.1f", userID, review.MediaType, review.MediaID, review.Score)
	s.events.publish(Event{Type: EventReviewCreated, UserID: userID, Review: review})
	return review, nil
}

// FindForMedia returns the user's review of one media item, if any. The
// stored score comes back as written, one decimal intact.
func (s *Service) FindForMedia(ctx context.Context, userID, mediaID string, mediaType models.MediaType) (models.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, media_id, media_type, media_title, poster_url, score, review_text, created_at
		 FROM reviews WHERE user_id = ? AND media_id = ? AND media_type = ?`,
		userID, mediaID, string(mediaType))
	return scanReview(row)
}

// ListForUser returns the user's reviews, newest first. mediaType narrows
// the list to one source when non-empty.
func (s *Service) ListForUser(ctx context.Context, userID string, mediaType models.MediaType) ([]models.Review, error) {
	query := `SELECT id, user_id, media_id, media_type, media_title, poster_url, score, review_text, created_at
		 FROM reviews WHERE user_id = ?`
	args := []any{userID}
	if mediaType != "" {
		if !models.ValidMediaType(mediaType) {
			return nil, ErrInvalidMediaType
		}
		query += ` AND media_type = ?`
		args = append(args, string(mediaType))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Delete removes one of the user's reviews and publishes a deletion event
// so any open review list can refresh. Returns ErrNotFound when the review
// does not exist or belongs to someone else.
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, media_id, media_type, media_title, poster_url, score, review_text, created_at
		 FROM reviews WHERE id = ? AND user_id = ?`, id, userID)
	review, err := scanReview(row)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	log.Printf("[reviews] user %s deleted review %d (%s/%s)", userID, id, review.MediaType, review.MediaID)
	s.events.publish(Event{Type: EventReviewDeleted, UserID: userID, Review: review})
	return nil
}

// Ranking aggregates every user's reviews per media item, best average
// first. mediaType narrows the ranking to one source when non-empty.
func (s *Service) Ranking(ctx context.Context, mediaType models.MediaType, limit int) ([]models.RankingEntry, error) {
	if limit < 1 {
		limit = 20
	}

	query := `SELECT media_id, media_type, media_title, poster_url, AVG(score), COUNT(*)
		 FROM reviews`
	args := []any{}
	if mediaType != "" {
		if !models.ValidMediaType(mediaType) {
			return nil, ErrInvalidMediaType
		}
		query += ` WHERE media_type = ?`
		args = append(args, string(mediaType))
	}
	query += ` GROUP BY media_id, media_type ORDER BY AVG(score) DESC, COUNT(*) DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}
	defer rows.Close()

	entries := make([]models.RankingEntry, 0)
	for rows.Next() {
		var entry models.RankingEntry
		var mediaType string
		if err := rows.Scan(&entry.MediaID, &mediaType, &entry.MediaTitle, &entry.PosterURL, &entry.AverageScore, &entry.ReviewCount); err != nil {
			return nil, err
		}
		entry.MediaType = models.MediaType(mediaType)
		entry.AverageScore = math.Round(entry.AverageScore*10) / 10
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// recommendationThreshold is the minimum score a review must carry to seed
// recommendations.
const recommendationThreshold = 8.0

// Recommendations returns the user's highest-rated media, capped at limit.
func (s *Service) Recommendations(ctx context.Context, userID string, limit int) ([]models.Review, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, media_id, media_type, media_title, poster_url, score, review_text, created_at
		 FROM reviews WHERE user_id = ? AND score >= ?
		 ORDER BY score DESC, created_at DESC LIMIT ?`,
		userID, recommendationThreshold, limit)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (models.Review, error) {
	var review models.Review
	var mediaType string
	err := row.Scan(&review.ID, &review.UserID, &review.MediaID, &mediaType,
		&review.MediaTitle, &review.PosterURL, &review.Score, &review.Text, &review.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("scan review: %w", err)
	}
	review.MediaType = models.MediaType(mediaType)
	return review, nil
}
