package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"mediashelf/models"
)

const (
	// placeholderTitle stands in for records whose source omits a name.
	placeholderTitle = "Untitled"
	// placeholderPosterURL is shown for records without cover art.
	placeholderPosterURL = "https://placehold.co/500x750/cccccc/333333?text=No+Poster"
	// overviewLimit is the character budget for card synopses.
	overviewLimit = 150
)

type tmdbRecord struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type bookVolumeInfo struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	PublishedDate string            `json:"publishedDate"`
	AverageRating float64           `json:"averageRating"`
	ImageLinks    map[string]string `json:"imageLinks"`
}

type bookRecord struct {
	ID         string         `json:"id"`
	VolumeInfo bookVolumeInfo `json:"volumeInfo"`
}

// normalizeTMDB flattens one TMDB result into the canonical item shape.
// mediaType distinguishes movies from series: the source uses different
// field names for titles and release dates between the two. Missing fields
// degrade to placeholders, never to an error.
func normalizeTMDB(raw json.RawMessage, mediaType models.MediaType) models.MediaItem {
	var r tmdbRecord
	_ = json.Unmarshal(raw, &r)

	title := r.Title
	if mediaType == models.MediaTypeTV || title == "" {
		if r.Name != "" {
			title = r.Name
		}
	}
	if strings.TrimSpace(title) == "" {
		title = placeholderTitle
	}

	poster := placeholderPosterURL
	if p := strings.TrimSpace(r.PosterPath); p != "" {
		poster = tmdbImageBaseURL + "/" + tmdbPosterSize + "/" + strings.TrimPrefix(p, "/")
	}

	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}

	return models.MediaItem{
		ID:        strconv.FormatInt(r.ID, 10),
		MediaType: mediaType,
		Title:     title,
		Year:      parseYear(date),
		Rating:    clampRating(r.VoteAverage),
		PosterURL: poster,
		Overview:  truncateOverview(r.Overview),
		Raw:       raw,
	}
}

// normalizeBook flattens one Google Books volume. The source rates on a 0-5
// scale, so the rating is doubled to line up with the 0-10 TMDB scale.
func normalizeBook(raw json.RawMessage) models.MediaItem {
	var r bookRecord
	_ = json.Unmarshal(raw, &r)

	title := strings.TrimSpace(r.VolumeInfo.Title)
	if title == "" {
		title = placeholderTitle
	}

	poster := placeholderPosterURL
	if link := bookPoster(r.VolumeInfo.ImageLinks); link != "" {
		poster = link
	}

	return models.MediaItem{
		ID:        r.ID,
		MediaType: models.MediaTypeBook,
		Title:     title,
		Year:      parseYear(r.VolumeInfo.PublishedDate),
		Rating:    clampRating(r.VolumeInfo.AverageRating * 2),
		PosterURL: poster,
		Overview:  truncateOverview(r.VolumeInfo.Description),
		Raw:       raw,
	}
}

// InferMediaType guesses the source of a raw record from its shape. Book
// volumes carry volumeInfo, series use name/first_air_date, movies use
// title/release_date. Unrecognizable records default to movie.
func InferMediaType(raw json.RawMessage) models.MediaType {
	var probe struct {
		MediaType    string          `json:"media_type"`
		VolumeInfo   json.RawMessage `json:"volumeInfo"`
		Name         string          `json:"name"`
		FirstAirDate string          `json:"first_air_date"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.MediaTypeMovie
	}
	switch probe.MediaType {
	case "movie":
		return models.MediaTypeMovie
	case "tv":
		return models.MediaTypeTV
	}
	if len(probe.VolumeInfo) > 0 {
		return models.MediaTypeBook
	}
	if probe.Name != "" || probe.FirstAirDate != "" {
		return models.MediaTypeTV
	}
	return models.MediaTypeMovie
}

// parseYear pulls the four-digit year off a source date string. Sources emit
// either full dates ("2006-01-02") or bare years ("2006"); anything shorter
// or non-numeric maps to the zero sentinel for "unknown".
func parseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func truncateOverview(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= overviewLimit {
		return s
	}
	return strings.TrimSpace(string(runes[:overviewLimit])) + "…"
}

// bookPoster picks the best available cover link. Thumbnail is preferred;
// the links arrive as plain http and are upgraded so pages served over TLS
// do not mix content.
func bookPoster(links map[string]string) string {
	if len(links) == 0 {
		return ""
	}
	link := links["thumbnail"]
	if link == "" {
		link = links["smallThumbnail"]
	}
	if strings.HasPrefix(link, "http://") {
		link = "https://" + strings.TrimPrefix(link, "http://")
	}
	return link
}
