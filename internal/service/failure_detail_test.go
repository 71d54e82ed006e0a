package service

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A 2 MiB HTML error page with invalid UTF-8 and a NUL byte up front.
var hostileBody = "\xff\xfe<html>\x00" + strings.Repeat("a", 2<<20)

func TestGraphPublisherCleansFailureBody(t *testing.T) {
	stub := &graphStub{
		create:  respond(http.StatusBadGateway, hostileBody),
		publish: respond(http.StatusOK, `{"id":"p1"}`),
	}

	_, err := newStubPublisher(t, stub).Publish(context.Background(), graphPost)
	require.Error(t, err)

	var gerr *GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, StepCreate, gerr.Step)
	assert.LessOrEqual(t, len(gerr.Body), maxGraphBody)
	assert.True(t, utf8.ValidString(gerr.Body))
	assert.NotContains(t, gerr.Body, "\x00")
	assert.True(t, strings.HasPrefix(gerr.Body, "�<html>aaa"))
	assert.Len(t, stub.calls, 1, "confirm must not run after a failed create")
}

func TestFailureDetail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"error":{"message":"bad"}}`, `{"error":{"message":"bad"}}`},
		{"nul bytes", "a\x00b\x00", "ab"},
		{"invalid utf8", "ok\xc3\x28", "ok�("},
		{"whitespace", "  body \n", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureDetail(tt.in))
		})
	}

	long := strings.Repeat("é", maxGraphBody)
	got := failureDetail(long)
	assert.LessOrEqual(t, len(got), maxGraphBody)
	assert.True(t, utf8.ValidString(got))
}

func TestSweepStoresCleanedFailureDetail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	due := sweepNow.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND scheduled_at <= $2")).
		WithArgs(models.PostStatusPending, sweepNow).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "image_url", "image_key", "caption", "hashtags",
			"platform", "scheduled_at", "status", "platform_post_id", "error", "published_at", "created_at"}).
			AddRow(int64(1), nil, "https://example.com/a.jpg", "", "hello", "{}", "instagram",
				due, "pending", "", nil, nil, due))

	want := "�<html>" + strings.Repeat("a", maxGraphBody-len("\xff\xfe<html>\x00"))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = $4")).
		WithArgs(models.PostStatusFailed, want, int64(1), models.PostStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stub := &graphStub{
		create:  respond(http.StatusBadGateway, hostileBody),
		publish: respond(http.StatusOK, `{"id":"p1"}`),
	}
	s := NewSweepService(repository.NewPostRepository(db),
		map[string]Publisher{models.PlatformInstagram: newStubPublisher(t, stub)}, 1).(*sweepService)
	s.now = func() time.Time { return sweepNow }

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
