package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/brandpost/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	ListRecentPublished(ctx context.Context, platform string, limit int) ([]*models.ScheduledPost, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time, platformPostID string) (bool, error)
	MarkFailed(ctx context.Context, id int64, detail string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByDay(ctx context.Context) ([]*models.DailyCount, error)
	CountByPlatform(ctx context.Context) ([]*models.PlatformCount, error)
}

const postColumns = `id, user_id, image_url, image_key, caption, hashtags, platform, scheduled_at,
	status, platform_post_id, error, published_at, created_at`

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.ScheduledPost, error) {
	var (
		post        models.ScheduledPost
		userID      sql.NullInt64
		errMsg      sql.NullString
		publishedAt sql.NullTime
	)
	err := row.Scan(&post.ID, &userID, &post.ImageURL, &post.ImageKey, &post.Caption,
		pq.Array(&post.Hashtags), &post.Platform, &post.ScheduledAt, &post.Status,
		&post.PlatformPostID, &errMsg, &publishedAt, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		post.UserID = &userID.Int64
	}
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	post.Error = errMsg.String
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	return &post, nil
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.ScheduledPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, image_url, image_key, caption, hashtags, platform, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, post.UserID, post.ImageURL, post.ImageKey, post.Caption,
		pq.Array(post.Hashtags), post.Platform, post.ScheduledAt, post.Status).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return post.ID, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE user_id = $1 ORDER BY scheduled_at ASC`
	return r.queryPosts(ctx, query, userID)
}

// ListDue returns every pending post whose scheduled time is at or before now.
// It is a full sweep served by the (status, scheduled_at) index.
func (r *postRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC`
	return r.queryPosts(ctx, query, models.PostStatusPending, now)
}

func (r *postRepository) ListRecentPublished(ctx context.Context, platform string, limit int) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts
		WHERE platform = $1 AND status = $2
		ORDER BY published_at DESC
		LIMIT $3`
	return r.queryPosts(ctx, query, platform, models.PostStatusPublished, limit)
}

// MarkPublished moves a pending post to published. It reports false when the
// post was no longer pending, which means another sweep already resolved it.
func (r *postRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time, platformPostID string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			published_at = $2,
			platform_post_id = $3
		WHERE id = $4 AND status = $5
	`
	return r.execConditional(ctx, query, models.PostStatusPublished, publishedAt, platformPostID, id, models.PostStatusPending)
}

// MarkFailed moves a pending post to failed with the given diagnostic.
func (r *postRepository) MarkFailed(ctx context.Context, id int64, detail string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			error = $2
		WHERE id = $3 AND status = $4
	`
	return r.execConditional(ctx, query, models.PostStatusFailed, detail, id, models.PostStatusPending)
}

func (r *postRepository) execConditional(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_posts WHERE status = $1`, status).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *postRepository) CountByDay(ctx context.Context) ([]*models.DailyCount, error) {
	query := `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM scheduled_posts
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := []*models.DailyCount{}
	for rows.Next() {
		var dc models.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts = append(counts, &dc)
	}
	return counts, rows.Err()
}

func (r *postRepository) CountByPlatform(ctx context.Context) ([]*models.PlatformCount, error) {
	query := `SELECT COALESCE(NULLIF(platform, ''), 'Unknown'), COUNT(*) FROM scheduled_posts GROUP BY 1`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	counts := []*models.PlatformCount{}
	for rows.Next() {
		var pc models.PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Value); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		counts = append(counts, &pc)
	}
	return counts, rows.Err()
}
