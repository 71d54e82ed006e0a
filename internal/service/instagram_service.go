package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"github.com/maheshrc27/brandpost/pkg/utils"
)

type InstagramService interface {
	ConnectSystemAccount(ctx context.Context, userID int64) error
	InstagramCallback(ctx context.Context, code string, userID int64) error
	RefreshInstagramToken(ctx context.Context, account *models.SocialAccount) error
}

type instagramService struct {
	cfg    config.Config
	sa     repository.SocialAccountRepository
	cipher *utils.Cipher
	now    func() time.Time
}

func NewInstagramService(cfg config.Config, sa repository.SocialAccountRepository, cipher *utils.Cipher) InstagramService {
	return &instagramService{
		cfg:    cfg,
		sa:     sa,
		cipher: cipher,
		now:    time.Now,
	}
}

// ConnectSystemAccount links the user to the process-wide business account
// and system user token.
func (ig *instagramService) ConnectSystemAccount(ctx context.Context, userID int64) error {
	if ig.cfg.Instagram.BusinessID == "" || ig.cfg.Instagram.SystemUserToken == "" {
		return invalid("Instagram is not configured")
	}

	sealed, err := ig.cipher.Seal(ig.cfg.Instagram.SystemUserToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	return ig.sa.Upsert(ctx, &models.SocialAccount{
		UserID:      userID,
		Platform:    models.PlatformInstagram,
		BusinessID:  ig.cfg.Instagram.BusinessID,
		AccessToken: sealed,
		Connected:   true,
	})
}

func (ig *instagramService) InstagramCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := invalid("code or state is empty")
		slog.Info(err.Error())
		return err
	}

	if userID == 0 {
		err := unauthorized("User not found")
		slog.Info(err.Error())
		return err
	}

	short, err := ig.exchangeCode(ctx, code)
	if err != nil {
		return err
	}

	token, err := ig.exchangeLongLived(ctx, short.AccessToken)
	if err != nil {
		return err
	}

	sealed, err := ig.cipher.Seal(token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	return ig.sa.Upsert(ctx, &models.SocialAccount{
		UserID:         userID,
		Platform:       models.PlatformInstagram,
		BusinessID:     ig.cfg.Instagram.BusinessID,
		AccessToken:    sealed,
		Connected:      true,
		TokenExpiresAt: &token.ExpiresAt,
	})
}

func (ig *instagramService) graphURL(path string) string {
	return strings.TrimRight(ig.cfg.Instagram.GraphAPIURL, "/") + path
}

func (ig *instagramService) exchangeCode(ctx context.Context, code string) (*transfer.FacebookTokenResponse, error) {
	var result transfer.FacebookTokenResponse
	err := requests.URL(ig.graphURL("/oauth/access_token")).
		Param("client_id", ig.cfg.FacebookAppID).
		Param("client_secret", ig.cfg.FacebookAppSecret).
		Param("redirect_uri", ig.cfg.FacebookRedirectURI).
		Param("code", code).
		ToJSON(&result).
		Fetch(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to get short-lived token: %w", err)
	}
	if result.AccessToken == "" {
		return nil, errors.New("empty access token in code exchange")
	}
	return &result, nil
}

func (ig *instagramService) exchangeLongLived(ctx context.Context, accessToken string) (*transfer.InstagramToken, error) {
	var result transfer.FacebookTokenResponse
	err := requests.URL(ig.graphURL("/oauth/access_token")).
		Param("grant_type", "fb_exchange_token").
		Param("client_id", ig.cfg.FacebookAppID).
		Param("client_secret", ig.cfg.FacebookAppSecret).
		Param("fb_exchange_token", accessToken).
		ToJSON(&result).
		Fetch(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to get long-lived token: %w", err)
	}
	if result.AccessToken == "" {
		return nil, errors.New("empty access token in long-lived exchange")
	}

	expiresIn := result.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 60 * 24 * 60 * 60
	}

	return &transfer.InstagramToken{
		AccessToken: result.AccessToken,
		ExpiresAt:   ig.now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// RefreshInstagramToken swaps a stored long-lived token for a fresh one. The
// write is conditional on the stored token being unchanged.
func (ig *instagramService) RefreshInstagramToken(ctx context.Context, account *models.SocialAccount) error {
	current, err := ig.cipher.Open(account.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt token: %w", err)
	}

	token, err := ig.exchangeLongLived(ctx, current)
	if err != nil {
		return err
	}

	sealed, err := ig.cipher.Seal(token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	return ig.sa.SetToken(ctx, account.ID, account.AccessToken, sealed, token.ExpiresAt)
}
