package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

const (
	OnboardingAssets = "assets"
	OnboardingNew    = "new"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	SetOnboardingChoice(ctx context.Context, userID int64, choice string) error
	OnboardingStatus(ctx context.Context, userID int64) (*transfer.OnboardingStatus, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, req *transfer.AdminUserCreate) (*models.User, error)
	UpdateUser(ctx context.Context, req *transfer.AdminUserUpdate) error
	RemoveUser(ctx context.Context, userID int64) error
}

type userService struct {
	u   repository.UserRepository
	a   repository.BrandAssetRepository
	now func() time.Time
}

func NewUserService(u repository.UserRepository, a repository.BrandAssetRepository) UserService {
	return &userService{
		u:   u,
		a:   a,
		now: time.Now,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting user info: %w", err)
	}

	if !isExist {
		err = notFound("User doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return user, nil
}

func (s *userService) SetOnboardingChoice(ctx context.Context, userID int64, choice string) error {
	if choice != OnboardingAssets && choice != OnboardingNew {
		return invalid("Invalid choice")
	}
	return s.u.SetOnboardingChoice(ctx, userID, choice, s.now())
}

// OnboardingStatus reports that onboarding is done as soon as the user owns
// any brand asset, whatever choice they made.
func (s *userService) OnboardingStatus(ctx context.Context, userID int64) (*transfer.OnboardingStatus, error) {
	count, err := s.a.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &transfer.OnboardingStatus{NeedsOnboarding: false}, nil
	}

	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &transfer.OnboardingStatus{
		NeedsOnboarding:  true,
		OnboardingChoice: user.OnboardingChoice,
	}, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.u.List(ctx)
}

func (s *userService) CreateUser(ctx context.Context, req *transfer.AdminUserCreate) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, invalid("Email is required")
	}

	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("Email already exists")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, invalid("Invalid role")
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Provider: models.ProviderAdminManual,
		Role:     role,
	}
	user.ID, err = s.u.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, req *transfer.AdminUserUpdate) error {
	if req.ID == 0 {
		return invalid("User id is required")
	}

	user, err := s.GetUserInfo(ctx, req.ID)
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Role != "" {
		if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
			return invalid("Invalid role")
		}
		user.Role = req.Role
	}
	return s.u.Update(ctx, user)
}

func (s *userService) RemoveUser(ctx context.Context, userID int64) error {
	if userID == 0 {
		return invalid("User id is required")
	}
	if err := s.u.Remove(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}
