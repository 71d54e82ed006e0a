package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	Update(ctx context.Context, user *models.User) error
	SetGoogleID(ctx context.Context, id int64, googleID, image string) error
	SetOnboardingChoice(ctx context.Context, id int64, choice string, at time.Time) error
	SetModelStatus(ctx context.Context, id int64, status string) error
	Count(ctx context.Context) (int64, error)
	Remove(ctx context.Context, id int64) error
}

const userColumns = `id, name, email, password_hash, google_id, image, provider, role,
	onboarding_choice, onboarding_at, model_status, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		onboardingAt sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.GoogleID, &user.Image,
		&user.Provider, &user.Role, &user.OnboardingChoice, &onboardingAt, &user.ModelStatus,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if onboardingAt.Valid {
		user.OnboardingAt = &onboardingAt.Time
	}
	return &user, nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*models.User, bool, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return user, true, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, password_hash, google_id, image, provider, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.GoogleID,
		user.Image, user.Provider, user.Role).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1,
			role = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, user.Name, user.Role, time.Now(), user.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetGoogleID(ctx context.Context, id int64, googleID, image string) error {
	query := `UPDATE users SET google_id = $1, image = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, googleID, image, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetOnboardingChoice(ctx context.Context, id int64, choice string, at time.Time) error {
	query := `
		UPDATE users
		SET onboarding_choice = $1,
			onboarding_at = $2,
			model_status = $3,
			updated_at = $2
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, choice, at, models.ModelStatusNone, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) SetModelStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE users SET model_status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
