package service

import (
	"context"
	"fmt"
	"net/url"

	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

const FACEBOOK_AUTH_URL = "https://www.facebook.com/v21.0/dialog/oauth"

type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, state string) string
	Status(ctx context.Context, userID int64) (*transfer.AccountStatus, error)
	Unlink(ctx context.Context, userID int64, platform string) error
}

type platformService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *platformService) GetAuthURL(ctx context.Context, platform, state string) string {
	switch platform {
	case models.PlatformInstagram, models.PlatformFacebook:
		params := url.Values{}
		params.Add("client_id", s.cfg.FacebookAppID)
		params.Add("redirect_uri", s.cfg.FacebookRedirectURI)
		params.Add("scope", "instagram_basic,instagram_content_publish,pages_show_list,business_management")
		params.Add("response_type", "code")
		params.Add("state", state)
		return fmt.Sprintf("%s?%s", FACEBOOK_AUTH_URL, params.Encode())
	default:
		return ""
	}
}

// Status reports which platforms the user has a connected account on.
// Platforms without a row report false.
func (s *platformService) Status(ctx context.Context, userID int64) (*transfer.AccountStatus, error) {
	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &transfer.AccountStatus{}
	for _, a := range accounts {
		if !a.Connected {
			continue
		}
		switch a.Platform {
		case models.PlatformInstagram:
			status.Instagram = true
		case models.PlatformFacebook:
			status.Facebook = true
		case models.PlatformLinkedIn:
			status.LinkedIn = true
		}
	}
	return status, nil
}

func (s *platformService) Unlink(ctx context.Context, userID int64, platform string) error {
	if platform == "" {
		return invalid("platform is required")
	}
	return s.sa.Unlink(ctx, userID, platform)
}
