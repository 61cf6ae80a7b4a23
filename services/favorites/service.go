// Package favorites stores the media items a user has saved.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"mediashelf/models"
)

var (
	ErrConflict         = errors.New("media already in favorites")
	ErrNotFound         = errors.New("favorite not found")
	ErrMediaIDRequired  = errors.New("media id is required")
	ErrTitleRequired    = errors.New("media title is required")
	ErrInvalidMediaType = errors.New("invalid media type")
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Add saves a media item to the user's favorites. Saving the same item
// twice returns ErrConflict.
func (s *Service) Add(ctx context.Context, userID string, input models.FavoriteInput) (models.Favorite, error) {
	fav := models.Favorite{
		UserID:     userID,
		MediaID:    strings.TrimSpace(input.MediaID),
		MediaType:  input.MediaType,
		MediaTitle: strings.TrimSpace(input.MediaTitle),
		PosterURL:  strings.TrimSpace(input.PosterURL),
		CreatedAt:  time.Now().UTC(),
	}

	if fav.MediaID == "" {
		return models.Favorite{}, ErrMediaIDRequired
	}
	if fav.MediaTitle == "" {
		return models.Favorite{}, ErrTitleRequired
	}
	if !models.ValidMediaType(fav.MediaType) {
		return models.Favorite{}, ErrInvalidMediaType
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, media_id, media_type, media_title, poster_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fav.UserID, fav.MediaID, string(fav.MediaType), fav.MediaTitle, fav.PosterURL, fav.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.Favorite{}, ErrConflict
		}
		return models.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}

	fav.ID, err = res.LastInsertId()
	if err != nil {
		return models.Favorite{}, err
	}

	log.Printf("[favorites] user %s saved %s/%s", userID, fav.MediaType, fav.MediaID)
	return fav, nil
}

// ListForUser returns the user's favorites, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, media_id, media_type, media_title, poster_url, created_at
		 FROM favorites WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		var fav models.Favorite
		var mediaType string
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.MediaID, &mediaType, &fav.MediaTitle, &fav.PosterURL, &fav.CreatedAt); err != nil {
			return nil, err
		}
		fav.MediaType = models.MediaType(mediaType)
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// Remove deletes one of the user's favorites. Returns ErrNotFound when it
// does not exist or belongs to someone else.
func (s *Service) Remove(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
