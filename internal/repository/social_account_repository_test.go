package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTokenRequiresUnchangedToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSocialAccountRepository(db)
	expires := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("WHERE id = $1 AND access_token = $2")

	mock.ExpectExec(query).WithArgs(int64(4), "old", "new", expires).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(int64(4), "old", "new", expires).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetToken(context.Background(), 4, "old", "new", expires))
	assert.Error(t, repo.SetToken(context.Background(), 4, "old", "new", expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}
