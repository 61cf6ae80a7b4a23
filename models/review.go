package models

import "time"

// Review is a single user's rating of a media item. Score is on a 0-10 scale
// with one decimal of precision, matching the normalized catalog ratings.
type Review struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	MediaID    string    `json:"mediaId"`
	MediaType  MediaType `json:"mediaType"`
	MediaTitle string    `json:"mediaTitle"`
	PosterURL  string    `json:"posterUrl,omitempty"`
	Score      float64   `json:"score"`
	Text       string    `json:"text,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewInput is the payload for creating a review.
type ReviewInput struct {
	MediaID    string    `json:"mediaId"`
	MediaType  MediaType `json:"mediaType"`
	MediaTitle string    `json:"mediaTitle"`
	PosterURL  string    `json:"posterUrl"`
	Score      float64   `json:"score"`
	Text       string    `json:"text"`
}

// RankingEntry aggregates all reviews for one media item.
type RankingEntry struct {
	MediaID      string    `json:"mediaId"`
	MediaType    MediaType `json:"mediaType"`
	MediaTitle   string    `json:"mediaTitle"`
	PosterURL    string    `json:"posterUrl,omitempty"`
	AverageScore float64   `json:"averageScore"`
	ReviewCount  int       `json:"reviewCount"`
}
