package service

import (
	"context"

	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	AdminStats(ctx context.Context) (*transfer.AdminStats, error)
}

type statsService struct {
	u repository.UserRepository
	p repository.PostRepository
	b repository.BrandRepository
}

func NewStatsService(u repository.UserRepository, p repository.PostRepository, b repository.BrandRepository) StatsService {
	return &statsService{u: u, p: p, b: b}
}

func (s *statsService) AdminStats(ctx context.Context) (*transfer.AdminStats, error) {
	stats := &transfer.AdminStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.u.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ScheduledPosts, err = s.p.CountByStatus(ctx, models.PostStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.PublishedPosts, err = s.p.CountByStatus(ctx, models.PostStatusPublished)
		return err
	})
	g.Go(func() (err error) {
		stats.ImagesCreated, err = s.b.CountGenerations(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PostsOverTime, err = s.p.CountByDay(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PostsByPlatform, err = s.p.CountByPlatform(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
