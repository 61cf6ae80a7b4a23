package reviews

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediashelf/internal/database"
	"mediashelf/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func validInput() models.ReviewInput {
	return models.ReviewInput{
		MediaID:    "603",
		MediaType:  models.MediaTypeMovie,
		MediaTitle: "The Matrix",
		PosterURL:  "https://image.tmdb.org/t/p/w500/matrix.jpg",
		Score:      8.7,
		Text:       "Still holds up.",
	}
}

func TestCreateAndFindKeepsDecimal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 8.7, created.Score)

	found, err := svc.FindForMedia(ctx, "user-1", "603", models.MediaTypeMovie)
	require.NoError(t, err)
	// The decimal survives the round trip; no flooring on reopen.
	assert.Equal(t, 8.7, found.Score)
	assert.Equal(t, "The Matrix", found.MediaTitle)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", validInput())
	assert.ErrorIs(t, err, ErrConflict)

	// Same media, different user is fine.
	_, err = svc.Create(ctx, "user-2", validInput())
	assert.NoError(t, err)

	// Same ID under a different media type is a different item.
	input := validInput()
	input.MediaType = models.MediaTypeTV
	_, err = svc.Create(ctx, "user-1", input)
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.Score = 0.4
	_, err := svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	input = validInput()
	input.Score = 10.5
	_, err = svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	input = validInput()
	input.MediaID = "   "
	_, err = svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrMediaIDRequired)

	input = validInput()
	input.MediaTitle = ""
	_, err = svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrTitleRequired)

	input = validInput()
	input.MediaType = "vinyl"
	_, err = svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrInvalidMediaType)

	input = validInput()
	for len(input.Text) <= maxTextLength {
		input.Text += "is this review too long yet? "
	}
	_, err = svc.Create(ctx, "user-1", input)
	assert.ErrorIs(t, err, ErrTextTooLong)
}

func TestCreateRoundsScoreToOneDecimal(t *testing.T) {
	svc := newTestService(t)

	input := validInput()
	input.Score = 7.84
	created, err := svc.Create(context.Background(), "user-1", input)
	require.NoError(t, err)
	assert.Equal(t, 7.8, created.Score)
}

func TestListForUserFiltersByType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	movie := validInput()
	_, err := svc.Create(ctx, "user-1", movie)
	require.NoError(t, err)

	book := models.ReviewInput{MediaID: "vol1", MediaType: models.MediaTypeBook, MediaTitle: "Neuromancer", Score: 9}
	_, err = svc.Create(ctx, "user-1", book)
	require.NoError(t, err)

	all, err := svc.ListForUser(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	books, err := svc.ListForUser(ctx, "user-1", models.MediaTypeBook)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Neuromancer", books[0].MediaTitle)

	_, err = svc.ListForUser(ctx, "user-1", "vinyl")
	assert.ErrorIs(t, err, ErrInvalidMediaType)

	none, err := svc.ListForUser(ctx, "user-2", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeletePublishesEvent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validInput())
	require.NoError(t, err)

	events := svc.Subscribe()
	defer svc.Unsubscribe(events)

	require.NoError(t, svc.Delete(ctx, created.ID, "user-1"))

	select {
	case ev := <-events:
		assert.Equal(t, EventReviewDeleted, ev.Type)
		assert.Equal(t, "user-1", ev.UserID)
		assert.Equal(t, created.ID, ev.Review.ID)
	case <-time.After(time.Second):
		t.Fatal("no deletion event published")
	}

	_, err = svc.FindForMedia(ctx, "user-1", "603", models.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "user-2"), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 9999, "user-1"), ErrNotFound)

	// Owner delete still works afterwards.
	assert.NoError(t, svc.Delete(ctx, created.ID, "user-1"))
}

func TestRankingAveragesAcrossUsers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := validInput()
	a.Score = 9
	_, err := svc.Create(ctx, "user-1", a)
	require.NoError(t, err)
	b := validInput()
	b.Score = 8
	_, err = svc.Create(ctx, "user-2", b)
	require.NoError(t, err)

	other := models.ReviewInput{MediaID: "vol1", MediaType: models.MediaTypeBook, MediaTitle: "Neuromancer", Score: 7}
	_, err = svc.Create(ctx, "user-1", other)
	require.NoError(t, err)

	entries, err := svc.Ranking(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "603", entries[0].MediaID)
	assert.Equal(t, 8.5, entries[0].AverageScore)
	assert.Equal(t, 2, entries[0].ReviewCount)

	booksOnly, err := svc.Ranking(ctx, models.MediaTypeBook, 0)
	require.NoError(t, err)
	require.Len(t, booksOnly, 1)
	assert.Equal(t, "vol1", booksOnly[0].MediaID)
}

func TestRecommendationsThreshold(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	high := validInput()
	high.Score = 9.5
	_, err := svc.Create(ctx, "user-1", high)
	require.NoError(t, err)

	low := models.ReviewInput{MediaID: "vol1", MediaType: models.MediaTypeBook, MediaTitle: "Meh", Score: 6}
	_, err = svc.Create(ctx, "user-1", low)
	require.NoError(t, err)

	edge := models.ReviewInput{MediaID: "1396", MediaType: models.MediaTypeTV, MediaTitle: "Breaking Bad", Score: 8}
	_, err = svc.Create(ctx, "user-1", edge)
	require.NoError(t, err)

	recs, err := svc.Recommendations(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Best score first; the threshold is inclusive at 8.
	assert.Equal(t, 9.5, recs[0].Score)
	assert.Equal(t, 8.0, recs[1].Score)
}
