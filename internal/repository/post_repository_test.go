package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{"id", "user_id", "image_url", "image_key", "caption", "hashtags", "platform",
	"scheduled_at", "status", "platform_post_id", "error", "published_at", "created_at"}

func newMockPostRepo(t *testing.T) (PostRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostRepository(db), mock
}

func TestListDueSelectsPendingUpToNow(t *testing.T) {
	repo, mock := newMockPostRepo(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	rows := sqlmock.NewRows(postRowColumns).
		AddRow(int64(1), int64(7), "https://example.com/a.jpg", "", "hello", "{#a,#b}", "instagram",
			due, "pending", "", nil, nil, due).
		AddRow(int64(2), nil, "https://example.com/b.jpg", "temp/x.jpg", "", "{}", "instagram",
			due, "pending", "", nil, nil, due)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND scheduled_at <= $2")).
		WithArgs(models.PostStatusPending, now).
		WillReturnRows(rows)

	posts, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(1), posts[0].ID)
	require.NotNil(t, posts[0].UserID)
	assert.Equal(t, int64(7), *posts[0].UserID)
	assert.Equal(t, []string{"#a", "#b"}, posts[0].Hashtags)
	assert.Nil(t, posts[0].PublishedAt)

	assert.Nil(t, posts[1].UserID)
	assert.Equal(t, []string{}, posts[1].Hashtags)
	assert.Equal(t, "temp/x.jpg", posts[1].ImageKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDuePropagatesErrors(t *testing.T) {
	repo, mock := newMockPostRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := repo.ListDue(context.Background(), time.Now())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPublishedIsConditional(t *testing.T) {
	repo, mock := newMockPostRepo(t)
	at := time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC)
	query := regexp.QuoteMeta("WHERE id = $4 AND status = $5")

	mock.ExpectExec(query).
		WithArgs(models.PostStatusPublished, at, "p1", int64(1), models.PostStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs(models.PostStatusPublished, at, "p1", int64(1), models.PostStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.MarkPublished(context.Background(), 1, at, "p1")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.MarkPublished(context.Background(), 1, at, "p1")
	require.NoError(t, err)
	assert.False(t, applied, "a post no longer pending is left untouched")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailedIsConditional(t *testing.T) {
	repo, mock := newMockPostRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = $4")).
		WithArgs(models.PostStatusFailed, `{"error":"x"}`, int64(5), models.PostStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.MarkFailed(context.Background(), 5, `{"error":"x"}`)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissing(t *testing.T) {
	repo, mock := newMockPostRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	post, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}
