package models

import "time"

// Favorite marks a media item saved by a user.
type Favorite struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	MediaID    string    `json:"mediaId"`
	MediaType  MediaType `json:"mediaType"`
	MediaTitle string    `json:"mediaTitle"`
	PosterURL  string    `json:"posterUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FavoriteInput is the payload for saving a favorite.
type FavoriteInput struct {
	MediaID    string    `json:"mediaId"`
	MediaType  MediaType `json:"mediaType"`
	MediaTitle string    `json:"mediaTitle"`
	PosterURL  string    `json:"posterUrl"`
}
