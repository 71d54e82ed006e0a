package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/brandpost/internal/models"
)

type BrandAssetRepository interface {
	CreateMany(ctx context.Context, assets []*models.BrandAsset) error
	ListByUserID(ctx context.Context, userID int64, assetType string, limit int) ([]*models.BrandAsset, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type brandAssetRepository struct {
	db *sql.DB
}

func NewBrandAssetRepository(db *sql.DB) BrandAssetRepository {
	return &brandAssetRepository{db: db}
}

func (r *brandAssetRepository) CreateMany(ctx context.Context, assets []*models.BrandAsset) (err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `
		INSERT INTO brand_assets (user_id, type, image_name, mime, size, sha256, object_key, url, count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	for _, a := range assets {
		err = tx.QueryRowContext(ctx, query, a.UserID, a.Type, a.ImageName, a.Mime, a.Size, a.SHA256,
			a.Key, a.URL, a.Count).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *brandAssetRepository) ListByUserID(ctx context.Context, userID int64, assetType string, limit int) ([]*models.BrandAsset, error) {
	query := `
		SELECT id, user_id, type, image_name, mime, size, sha256, object_key, url, count, created_at
		FROM brand_assets
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, assetType, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	assets := []*models.BrandAsset{}
	for rows.Next() {
		var a models.BrandAsset
		err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.ImageName, &a.Mime, &a.Size, &a.SHA256,
			&a.Key, &a.URL, &a.Count, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func (r *brandAssetRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM brand_assets WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
