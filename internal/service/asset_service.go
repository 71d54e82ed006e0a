package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"github.com/maheshrc27/brandpost/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
)

const (
	minCaptionLength = 8
	maxCaptionLength = 400
	tempURLTTL       = time.Hour
)

// UploadFile is one file read from a multipart form.
type UploadFile struct {
	Name string
	Data []byte
}

type AssetService interface {
	UploadImages(ctx context.Context, user *models.User, files []UploadFile) ([]*transfer.UploadedAsset, error)
	UploadTemp(ctx context.Context, file UploadFile) (*transfer.TempUpload, error)
	SaveCaptions(ctx context.Context, user *models.User, captions []string) (*transfer.SavedCaptions, error)
}

type assetService struct {
	a       repository.BrandAssetRepository
	storage StorageService
	now     func() time.Time
}

func NewAssetService(a repository.BrandAssetRepository, storage StorageService) AssetService {
	return &assetService{
		a:       a,
		storage: storage,
		now:     time.Now,
	}
}

func userPrefix(email string) string {
	return "prod/users/" + utils.SHA1Hex(strings.ToLower(email))
}

// UploadImages stores every distinct image in the request. Files repeated
// within the request are skipped by content hash.
func (s *assetService) UploadImages(ctx context.Context, user *models.User, files []UploadFile) ([]*transfer.UploadedAsset, error) {
	if len(files) == 0 {
		return nil, invalid("No files received")
	}

	bucket := s.storage.AssetsBucket()
	seen := map[string]bool{}
	assets := []*models.BrandAsset{}

	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}

		kind, err := filetype.Match(f.Data)
		if err != nil || !filetype.IsImage(f.Data) {
			return nil, invalid(fmt.Sprintf("%s is not an image", f.Name))
		}

		sum := utils.SHA256Hex(f.Data)
		if seen[sum] {
			slog.Info("skip duplicate upload", "name", f.Name)
			continue
		}
		seen[sum] = true

		key := fmt.Sprintf("%s/assets/%s.%s", userPrefix(user.Email), sum, kind.Extension)
		if err := s.storage.Put(ctx, bucket, key, f.Data, kind.MIME.Value); err != nil {
			return nil, err
		}

		assets = append(assets, &models.BrandAsset{
			UserID:    user.ID,
			Type:      models.AssetTypeImage,
			ImageName: f.Name,
			Mime:      kind.MIME.Value,
			Size:      int64(len(f.Data)),
			SHA256:    sum,
			Key:       key,
			URL:       s.storage.ObjectURL(bucket, key),
		})
	}

	if len(assets) == 0 {
		return nil, invalid("All files were duplicates or empty")
	}

	if err := s.a.CreateMany(ctx, assets); err != nil {
		return nil, fmt.Errorf("failed to record assets: %w", err)
	}

	return lo.Map(assets, func(a *models.BrandAsset, _ int) *transfer.UploadedAsset {
		return &transfer.UploadedAsset{
			ImageName: a.ImageName,
			Key:       a.Key,
			URL:       a.URL,
			SHA256:    a.SHA256,
			Size:      a.Size,
			Mime:      a.Mime,
		}
	}), nil
}

// UploadTemp stores a JPEG under a random key and returns a short-lived URL
// the publisher can fetch.
func (s *assetService) UploadTemp(ctx context.Context, file UploadFile) (*transfer.TempUpload, error) {
	if len(file.Data) == 0 {
		return nil, invalid("No file received")
	}

	kind, err := filetype.Match(file.Data)
	if err != nil || kind.MIME.Value != "image/jpeg" {
		return nil, invalid("Only JPEG images are allowed")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	bucket := s.storage.AssetsBucket()
	key := fmt.Sprintf("temp/%s.jpg", id)
	if err := s.storage.Put(ctx, bucket, key, file.Data, "image/jpeg"); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, tempURLTTL)
	if err != nil {
		return nil, err
	}
	return &transfer.TempUpload{Key: key, URL: url}, nil
}

func (s *assetService) SaveCaptions(ctx context.Context, user *models.User, captions []string) (*transfer.SavedCaptions, error) {
	if len(captions) == 0 {
		return nil, invalid("No captions")
	}

	kept := CleanCaptions(captions)
	if len(kept) == 0 {
		return nil, invalid("No valid captions after filtering")
	}

	bucket := s.storage.AssetsBucket()
	key := fmt.Sprintf("%s/captions/%d.csv", userPrefix(user.Email), s.now().UnixMilli())
	if err := s.storage.Put(ctx, bucket, key, captionsCSV(kept), "text/csv"); err != nil {
		return nil, err
	}

	asset := &models.BrandAsset{
		UserID: user.ID,
		Type:   models.AssetTypeCaptionsCSV,
		Key:    key,
		URL:    s.storage.ObjectURL(bucket, key),
		Count:  len(kept),
	}
	if err := s.a.CreateMany(ctx, []*models.BrandAsset{asset}); err != nil {
		return nil, fmt.Errorf("failed to record captions: %w", err)
	}

	return &transfer.SavedCaptions{Key: key, URL: asset.URL, Count: len(kept)}, nil
}

// CleanCaptions trims captions and keeps the first copy of each one whose
// length is within bounds.
func CleanCaptions(captions []string) []string {
	trimmed := lo.Map(captions, func(c string, _ int) string { return strings.TrimSpace(c) })
	inRange := lo.Filter(trimmed, func(c string, _ int) bool {
		n := len([]rune(c))
		return n >= minCaptionLength && n <= maxCaptionLength
	})
	return lo.Uniq(inRange)
}

// captionsCSV writes one quoted caption per line.
func captionsCSV(captions []string) []byte {
	rows := lo.Map(captions, func(c string, _ int) string {
		return `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	})
	return []byte(strings.Join(rows, "\n"))
}
