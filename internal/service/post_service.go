package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"github.com/samber/lo"
)

const suggestSampleSize = 30

var fallbackHours = map[string]int{
	models.PlatformInstagram: 19,
	models.PlatformFacebook:  12,
}

type PostService interface {
	Schedule(ctx context.Context, userID int64, req *transfer.ScheduleRequest) (int64, error)
	History(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	SuggestTime(ctx context.Context, platform string) (*transfer.SuggestedTime, error)
}

type postService struct {
	pr  repository.PostRepository
	now func() time.Time
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{
		pr:  pr,
		now: time.Now,
	}
}

// Schedule validates a scheduling request and stores it as a pending post.
func (s *postService) Schedule(ctx context.Context, userID int64, req *transfer.ScheduleRequest) (int64, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	scheduledAt := strings.TrimSpace(req.ScheduledAt)
	if imageURL == "" || req.Caption == "" || scheduledAt == "" {
		return 0, invalid("Missing fields")
	}
	if !strings.HasPrefix(imageURL, "http") {
		return 0, invalid("imageUrl must be a public URL")
	}

	at, err := dateparse.ParseAny(scheduledAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, invalid("Invalid scheduledAt")
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform == "" {
		platform = models.PlatformInstagram
	}

	hashtags := lo.Filter(lo.Map(req.Hashtags, func(h string, _ int) string {
		return strings.TrimSpace(h)
	}), func(h string, _ int) bool {
		return h != ""
	})

	post := &models.ScheduledPost{
		UserID:      &userID,
		ImageURL:    imageURL,
		ImageKey:    req.ImageKey,
		Caption:     req.Caption,
		Hashtags:    hashtags,
		Platform:    platform,
		ScheduledAt: at,
		Status:      models.PostStatusPending,
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return 0, fmt.Errorf("failed to schedule post: %w", err)
	}
	return id, nil
}

func (s *postService) History(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	return s.pr.ListByUserID(ctx, userID)
}

// SuggestTime picks the publish hour with the best average score among the
// latest published posts. Every post scores 1 until engagement data is stored,
// so ties go to the hour with more posts, then to the earlier hour.
func (s *postService) SuggestTime(ctx context.Context, platform string) (*transfer.SuggestedTime, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = models.PlatformInstagram
	}

	posts, err := s.pr.ListRecentPublished(ctx, platform, suggestSampleSize)
	if err != nil {
		return nil, err
	}

	hour, ok := bestHour(posts)
	if !ok {
		hour, ok = fallbackHours[platform]
		if !ok {
			hour = fallbackHours[models.PlatformFacebook]
		}
	}

	next := nextOccurrence(s.now(), hour)
	return &transfer.SuggestedTime{
		Date: next.Format("2006-01-02"),
		Time: next.Format("15:04"),
	}, nil
}

func bestHour(posts []*models.ScheduledPost) (int, bool) {
	type bucket struct {
		total float64
		count int
	}
	buckets := map[int]*bucket{}
	for _, p := range posts {
		if p.PublishedAt == nil {
			continue
		}
		h := p.PublishedAt.Hour()
		if buckets[h] == nil {
			buckets[h] = &bucket{}
		}
		buckets[h].total++
		buckets[h].count++
	}
	if len(buckets) == 0 {
		return 0, false
	}

	best, bestAvg, bestCount := -1, 0.0, 0
	for h := 0; h < 24; h++ {
		b, ok := buckets[h]
		if !ok {
			continue
		}
		avg := b.total / float64(b.count)
		if best == -1 || avg > bestAvg || (avg == bestAvg && b.count > bestCount) {
			best, bestAvg, bestCount = h, avg, b.count
		}
	}
	return best, true
}

// nextOccurrence returns the first time at hour:00 strictly after now.
func nextOccurrence(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
