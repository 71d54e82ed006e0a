package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
)

// memPostRepo keeps posts in memory and applies the same conditional writes
// as the SQL repository.
type memPostRepo struct {
	mu      sync.Mutex
	posts   map[int64]*models.ScheduledPost
	nextID  int64
	listErr error
	markErr error
}

func newMemPostRepo(posts ...*models.ScheduledPost) *memPostRepo {
	r := &memPostRepo{posts: map[int64]*models.ScheduledPost{}}
	for _, p := range posts {
		r.posts[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *memPostRepo) get(id int64) models.ScheduledPost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.posts[id]
}

func (r *memPostRepo) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *post
	cp.ID = r.nextID
	r.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) filter(keep func(p *models.ScheduledPost) bool) []*models.ScheduledPost {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.ScheduledPost{}
	for _, p := range r.posts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func (r *memPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return r.filter(func(p *models.ScheduledPost) bool { return p.UserID != nil && *p.UserID == userID }), nil
}

func (r *memPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.filter(func(p *models.ScheduledPost) bool { return p.IsDue(now) }), nil
}

func (r *memPostRepo) ListRecentPublished(ctx context.Context, platform string, limit int) ([]*models.ScheduledPost, error) {
	out := r.filter(func(p *models.ScheduledPost) bool {
		return p.Platform == platform && p.Status == models.PostStatusPublished
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPostRepo) MarkPublished(ctx context.Context, id int64, publishedAt time.Time, platformPostID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return false, r.markErr
	}
	p, ok := r.posts[id]
	if !ok || p.Status != models.PostStatusPending {
		return false, nil
	}
	p.Status = models.PostStatusPublished
	p.PublishedAt = &publishedAt
	p.PlatformPostID = platformPostID
	return true, nil
}

func (r *memPostRepo) MarkFailed(ctx context.Context, id int64, detail string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return false, r.markErr
	}
	p, ok := r.posts[id]
	if !ok || p.Status != models.PostStatusPending {
		return false, nil
	}
	p.Status = models.PostStatusFailed
	p.Error = detail
	return true, nil
}

func (r *memPostRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(r.filter(func(p *models.ScheduledPost) bool { return p.Status == status }))), nil
}

func (r *memPostRepo) CountByDay(ctx context.Context) ([]*models.DailyCount, error) {
	return []*models.DailyCount{}, nil
}

func (r *memPostRepo) CountByPlatform(ctx context.Context) ([]*models.PlatformCount, error) {
	return []*models.PlatformCount{}, nil
}

type publisherFunc func(ctx context.Context, post *models.ScheduledPost) (string, error)

func (f publisherFunc) Publish(ctx context.Context, post *models.ScheduledPost) (string, error) {
	return f(ctx, post)
}

// memStorage is an in-memory StorageService.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = body
	return nil
}

func (s *memStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return b, nil
}

func (s *memStorage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return "https://storage.test/" + bucket + "/" + key + "?signed=1", nil
}

func (s *memStorage) ObjectURL(bucket, key string) string {
	return "https://storage.test/" + bucket + "/" + key
}

func (s *memStorage) AssetsBucket() string      { return "assets" }
func (s *memStorage) GenerationsBucket() string { return "generations" }

// memAssetRepo is an in-memory BrandAssetRepository.
type memAssetRepo struct {
	mu     sync.Mutex
	assets []*models.BrandAsset
}

func (r *memAssetRepo) CreateMany(ctx context.Context, assets []*models.BrandAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = append(r.assets, assets...)
	return nil
}

func (r *memAssetRepo) ListByUserID(ctx context.Context, userID int64, assetType string, limit int) ([]*models.BrandAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.BrandAsset{}
	for _, a := range r.assets {
		if a.UserID == userID && a.Type == assetType && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssetRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.assets {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}
