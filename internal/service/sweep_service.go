package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

// SweepService runs one publish sweep: select due posts, publish each one,
// record each outcome.
type SweepService interface {
	Run(ctx context.Context) (*transfer.SweepResult, error)
}

type sweepService struct {
	p           repository.PostRepository
	publishers  map[string]Publisher
	concurrency int
	now         func() time.Time
}

// NewSweepService wires the sweep to one publisher per platform. Posts for a
// platform without a publisher are marked failed.
func NewSweepService(p repository.PostRepository, publishers map[string]Publisher, concurrency int) SweepService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &sweepService{
		p:           p,
		publishers:  publishers,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run is safe to call concurrently with itself. The conditional status writes
// in the repository decide which sweep owns each outcome. Cancellation of ctx
// does not stop a sweep once it has started.
func (s *sweepService) Run(ctx context.Context) (*transfer.SweepResult, error) {
	ctx = context.WithoutCancel(ctx)
	started := s.now()

	due, err := s.p.ListDue(ctx, started)
	if err != nil {
		slog.Error("sweep selection failed", "error", err)
		return nil, fmt.Errorf("failed to select due posts: %w", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		published = make([]int64, 0, len(due))
		failed    int
	)
	semaphore := make(chan struct{}, s.concurrency)

	for _, post := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.ScheduledPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			ok := s.process(ctx, post)

			mu.Lock()
			defer mu.Unlock()
			if ok {
				published = append(published, post.ID)
			} else {
				failed++
			}
		}(post)
	}

	wg.Wait()
	slices.Sort(published)

	slog.Info("sweep finished",
		"selected", len(due),
		"published", len(published),
		"failed", failed,
		"duration", time.Since(started).String(),
	)

	return &transfer.SweepResult{
		Success:   true,
		Published: published,
		Count:     len(published),
	}, nil
}

// process publishes one post and writes its terminal status. It reports true
// only when this sweep moved the post to published.
func (s *sweepService) process(ctx context.Context, post *models.ScheduledPost) bool {
	slog.Info("publishing post", "post_id", post.ID, "image_url", post.ImageURL)

	platformPostID, err := s.publish(ctx, post)
	if err != nil {
		slog.Warn("publish failed", "post_id", post.ID, "error", err)

		applied, werr := s.p.MarkFailed(ctx, post.ID, failureDetail(err.Error()))
		if werr != nil {
			slog.Error("failed to record publish failure", "post_id", post.ID, "error", werr)
		} else if !applied {
			slog.Info("post already resolved by another sweep", "post_id", post.ID)
		}
		return false
	}

	applied, err := s.p.MarkPublished(ctx, post.ID, s.now(), platformPostID)
	if err != nil {
		// The post stays pending and is selected again on the next sweep.
		slog.Error("failed to record publish", "post_id", post.ID, "platform_post_id", platformPostID, "error", err)
		return false
	}
	if !applied {
		slog.Info("post already resolved by another sweep", "post_id", post.ID)
		return false
	}

	slog.Info("post published", "post_id", post.ID, "platform_post_id", platformPostID)
	return true
}

func (s *sweepService) publish(ctx context.Context, post *models.ScheduledPost) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
		}
	}()

	platform := post.Platform
	if platform == "" {
		platform = models.PlatformInstagram
	}
	publisher, ok := s.publishers[platform]
	if !ok {
		return "", fmt.Errorf("unsupported platform: %s", platform)
	}
	return publisher.Publish(ctx, post)
}
