package job

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepEndpoint(t *testing.T, status int, body string, gotSecret *string) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/run-cron", r.URL.Path)
		if gotSecret != nil {
			*gotSecret = r.Header.Get(CronSecretHeader)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSweepTriggerSendsSecret(t *testing.T) {
	var secret string
	url := sweepEndpoint(t, http.StatusOK, `{"success":true,"published":[4,9],"count":2}`, &secret)

	result, err := NewSweepTriggerJob(url+"/", "s3cret", time.Second).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.Equal(t, []int64{4, 9}, result.Published)
	assert.Equal(t, 2, result.Count)
}

func TestSweepTriggerOmitsEmptySecret(t *testing.T) {
	secret := "unset"
	url := sweepEndpoint(t, http.StatusOK, `{"success":true,"published":[],"count":0}`, &secret)

	_, err := NewSweepTriggerJob(url, "", time.Second).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, secret)
}

func TestSweepTriggerReportsSweepFailure(t *testing.T) {
	url := sweepEndpoint(t, http.StatusOK, `{"success":false,"error":"failed to select due posts: connection refused"}`, nil)

	_, err := NewSweepTriggerJob(url, "", time.Second).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSweepTriggerRejectedSecret(t *testing.T) {
	url := sweepEndpoint(t, http.StatusUnauthorized, `{"error":"Unauthorized"}`, nil)

	_, err := NewSweepTriggerJob(url, "wrong", time.Second).Run(context.Background())
	assert.Error(t, err)
}
