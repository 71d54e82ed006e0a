package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSocialRepo struct {
	upserted []*models.SocialAccount
	setCalls []setTokenCall
}

type setTokenCall struct {
	id       int64
	oldToken string
	newToken string
	expires  time.Time
}

func (m *memSocialRepo) Upsert(ctx context.Context, sa *models.SocialAccount) error {
	m.upserted = append(m.upserted, sa)
	return nil
}

func (m *memSocialRepo) Unlink(ctx context.Context, userID int64, platform string) error { return nil }

func (m *memSocialRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return m.upserted, nil
}

func (m *memSocialRepo) ListByTimeInterval(ctx context.Context, from, to time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (m *memSocialRepo) SetToken(ctx context.Context, id int64, oldToken, newToken string, expiresAt time.Time) error {
	m.setCalls = append(m.setCalls, setTokenCall{id, oldToken, newToken, expiresAt})
	return nil
}

func newTestInstagram(t *testing.T, graphURL string) (*instagramService, *memSocialRepo, *utils.Cipher) {
	t.Helper()
	cipher, err := utils.NewCipher("test-secret")
	require.NoError(t, err)

	repo := &memSocialRepo{}
	cfg := config.Config{
		FacebookAppID:     "app",
		FacebookAppSecret: "shh",
		Instagram: config.Instagram{
			BusinessID:      "17841400000000000",
			SystemUserToken: "system-token",
			GraphAPIURL:     graphURL,
		},
	}
	ig := NewInstagramService(cfg, repo, cipher).(*instagramService)
	ig.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return ig, repo, cipher
}

func TestRefreshInstagramToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/access_token", r.URL.Path)
		assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "old-token", r.URL.Query().Get("fb_exchange_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	ig, repo, cipher := newTestInstagram(t, srv.URL)
	sealedOld, err := cipher.Seal("old-token")
	require.NoError(t, err)

	err = ig.RefreshInstagramToken(context.Background(), &models.SocialAccount{ID: 3, AccessToken: sealedOld})
	require.NoError(t, err)

	require.Len(t, repo.setCalls, 1)
	call := repo.setCalls[0]
	assert.Equal(t, int64(3), call.id)
	assert.Equal(t, sealedOld, call.oldToken)
	assert.Equal(t, time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC), call.expires)

	plain, err := cipher.Open(call.newToken)
	require.NoError(t, err)
	assert.Equal(t, "new-token", plain)
}

func TestRefreshInstagramTokenGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	ig, repo, cipher := newTestInstagram(t, srv.URL)
	sealed, err := cipher.Seal("old-token")
	require.NoError(t, err)

	err = ig.RefreshInstagramToken(context.Background(), &models.SocialAccount{ID: 3, AccessToken: sealed})
	assert.Error(t, err)
	assert.Empty(t, repo.setCalls)
}

func TestConnectSystemAccount(t *testing.T) {
	ig, repo, cipher := newTestInstagram(t, "http://unused")

	require.NoError(t, ig.ConnectSystemAccount(context.Background(), 11))
	require.Len(t, repo.upserted, 1)
	acct := repo.upserted[0]
	assert.Equal(t, int64(11), acct.UserID)
	assert.Equal(t, models.PlatformInstagram, acct.Platform)
	assert.True(t, acct.Connected)

	plain, err := cipher.Open(acct.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "system-token", plain)

	ig.cfg.Instagram.SystemUserToken = ""
	assert.ErrorIs(t, ig.ConnectSystemAccount(context.Background(), 11), ErrInvalidInput)
}

func TestInstagramCallbackRejectsMissingCode(t *testing.T) {
	ig, _, _ := newTestInstagram(t, "http://unused")
	assert.ErrorIs(t, ig.InstagramCallback(context.Background(), "", 1), ErrInvalidInput)
	assert.ErrorIs(t, ig.InstagramCallback(context.Background(), "code", 0), ErrUnauthorized)
}
