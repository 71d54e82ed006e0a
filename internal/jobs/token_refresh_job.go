package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/service"
)

const refreshWindow = 30 * time.Minute

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	ig service.InstagramService
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, ig service.InstagramService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		ig: ig,
	}
}

// RefreshTokens refreshes every stored user token that expires within the
// next 30 minutes.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	accounts, err := c.sr.ListByTimeInterval(ctx, currentTime, currentTime.Add(refreshWindow))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			switch acc.Platform {
			case models.PlatformInstagram:
				if err := c.ig.RefreshInstagramToken(ctx, acc); err != nil {
					slog.Info("Unable to refresh tokens for Instagram", "account_id", acc.ID, "error", err)
				}
			}
		}(acc)
	}

	wg.Wait()
}
