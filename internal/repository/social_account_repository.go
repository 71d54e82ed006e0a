package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
)

type SocialAccountRepository interface {
	Upsert(ctx context.Context, sa *models.SocialAccount) error
	Unlink(ctx context.Context, userID int64, platform string) error
	ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error)
	SetToken(ctx context.Context, id int64, oldAccessToken, newAccessToken string, expiresAt time.Time) error
}

type socialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

func scanSocialAccount(row rowScanner) (*models.SocialAccount, error) {
	var (
		sa        models.SocialAccount
		expiresAt sql.NullTime
	)
	err := row.Scan(&sa.ID, &sa.UserID, &sa.Platform, &sa.BusinessID, &sa.AccessToken,
		&sa.Connected, &expiresAt, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		sa.TokenExpiresAt = &expiresAt.Time
	}
	return &sa, nil
}

func (r *socialAccountRepository) Upsert(ctx context.Context, sa *models.SocialAccount) error {
	query := `
		INSERT INTO social_accounts (user_id, platform, business_id, access_token, connected, token_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, platform) DO UPDATE
		SET business_id = COALESCE(NULLIF(EXCLUDED.business_id, ''), social_accounts.business_id),
			access_token = EXCLUDED.access_token,
			connected = EXCLUDED.connected,
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, sa.UserID, sa.Platform, sa.BusinessID, sa.AccessToken,
		sa.Connected, sa.TokenExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) Unlink(ctx context.Context, userID int64, platform string) error {
	query := `
		UPDATE social_accounts
		SET business_id = '',
			access_token = '',
			connected = FALSE,
			token_expires_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND platform = $2
	`
	_, err := r.db.ExecContext(ctx, query, userID, platform)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *socialAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	query := `SELECT id, user_id, platform, business_id, access_token, connected, token_expires_at, created_at, updated_at
		FROM social_accounts WHERE user_id = $1`
	return r.list(ctx, query, userID)
}

// ListByTimeInterval returns connected accounts whose token expires inside the
// interval or has already expired.
func (r *socialAccountRepository) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	query := `SELECT id, user_id, platform, business_id, access_token, connected, token_expires_at, created_at, updated_at
		FROM social_accounts
		WHERE connected AND access_token <> ''
		AND ((token_expires_at BETWEEN $1 AND $2) OR (token_expires_at < $1))`
	return r.list(ctx, query, initialTime, finalTime)
}

func (r *socialAccountRepository) list(ctx context.Context, query string, args ...any) ([]*models.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	accounts := []*models.SocialAccount{}
	for rows.Next() {
		sa, err := scanSocialAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, sa)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

// SetToken swaps the stored token only if it still equals oldAccessToken, so a
// concurrent refresh or unlink wins over a stale one.
func (r *socialAccountRepository) SetToken(ctx context.Context, id int64, oldAccessToken, newAccessToken string, expiresAt time.Time) error {
	query := `
		UPDATE social_accounts
		SET access_token = $3,
			token_expires_at = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND access_token = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, oldAccessToken, newAccessToken, expiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no rows affected; token may have changed", "account_id", id)
		return errors.New("no rows affected; token may have changed")
	}
	return nil
}
