package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, req *transfer.RegisterRequest) (int64, error)
	Login(ctx context.Context, req *transfer.LoginRequest) (*models.User, error)
	GoogleAuthURL(state string) string
	LoginCallback(ctx context.Context, code string) (*models.User, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) Register(ctx context.Context, req *transfer.RegisterRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return 0, invalid("Missing fields")
	}
	if len(req.Password) < minPasswordLength {
		return 0, invalid("Password must be at least 6 characters")
	}

	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.u.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderCredentials,
		Role:         models.RoleUser,
	})
}

func (s *authService) Login(ctx context.Context, req *transfer.LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, invalid("Missing fields")
	}

	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !exists || user.PasswordHash == "" {
		return nil, unauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, unauthorized("Invalid email or password")
	}
	return user, nil
}

func (s *authService) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}
}

func (s *authService) GoogleAuthURL(state string) string {
	return s.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		err := invalid("code or state is empty")
		slog.Info(err.Error())
		return nil, err
	}

	oauth2Config := s.oauth2Config()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" || oauth2Config.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return nil, err
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(oauth2Config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	email := strings.ToLower(info.Email)
	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !exists {
		user = &models.User{
			Name:     info.Name,
			Email:    email,
			GoogleID: info.Id,
			Image:    info.Picture,
			Provider: models.ProviderGoogle,
			Role:     models.RoleUser,
		}
		user.ID, err = s.u.Create(ctx, user)
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	if user.GoogleID == "" {
		if err := s.u.SetGoogleID(ctx, user.ID, info.Id, info.Picture); err != nil {
			return nil, err
		}
		user.GoogleID = info.Id
	}
	return user, nil
}
