package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/brandpost/internal/models"
)

type BrandRepository interface {
	GetProfile(ctx context.Context, userID int64) (*models.BrandProfile, error)
	UpsertProfile(ctx context.Context, userID int64, profile json.RawMessage) error
	CreateGeneration(ctx context.Context, g *models.BrandGeneration) (int64, error)
	CountGenerations(ctx context.Context) (int64, error)
	CreateJob(ctx context.Context, job *models.BrandProfileJob) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.BrandProfileJob, error)
	SetJobStatus(ctx context.Context, id int64, status, errMsg string) error
}

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) GetProfile(ctx context.Context, userID int64) (*models.BrandProfile, error) {
	query := `SELECT user_id, profile, created_at, updated_at FROM brand_profiles WHERE user_id = $1`

	var p models.BrandProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Profile, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &p, nil
}

func (r *brandRepository) UpsertProfile(ctx context.Context, userID int64, profile json.RawMessage) error {
	query := `
		INSERT INTO brand_profiles (user_id, profile)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET profile = EXCLUDED.profile,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, userID, nullableJSON(profile))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *brandRepository) CreateGeneration(ctx context.Context, g *models.BrandGeneration) (int64, error) {
	query := `
		INSERT INTO brand_generations (user_id, intent, expanded_prompt, profile, per_image, output_url, object_key, provider, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, g.UserID, g.Intent, g.ExpandedPrompt, nullableJSON(g.Profile),
		nullableJSON(g.PerImage), g.OutputURL, g.Key, g.Provider, g.Model).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *brandRepository) CountGenerations(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM brand_generations`).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *brandRepository) CreateJob(ctx context.Context, job *models.BrandProfileJob) (int64, error) {
	query := `
		INSERT INTO brand_profile_jobs (user_id, image_keys, captions_key, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, job.UserID, pq.Array(job.ImageKeys), job.CaptionsKey, job.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *brandRepository) GetJob(ctx context.Context, id int64) (*models.BrandProfileJob, error) {
	query := `
		SELECT id, user_id, image_keys, captions_key, status, error, created_at, updated_at
		FROM brand_profile_jobs WHERE id = $1
	`
	var job models.BrandProfileJob
	err := r.db.QueryRowContext(ctx, query, id).Scan(&job.ID, &job.UserID, pq.Array(&job.ImageKeys),
		&job.CaptionsKey, &job.Status, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &job, nil
}

func (r *brandRepository) SetJobStatus(ctx context.Context, id int64, status, errMsg string) error {
	query := `UPDATE brand_profile_jobs SET status = $1, error = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, errMsg, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
