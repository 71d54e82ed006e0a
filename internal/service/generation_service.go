package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/transfer"
	"github.com/maheshrc27/brandpost/pkg/utils"
	"github.com/samber/lo"
)

const (
	maxProfileImages = 20
	assetURLTTL      = time.Hour
	profileIntent    = "Build a brand profile from these assets"
)

// ExpandError carries the expander's response body when it rejects a call.
type ExpandError struct {
	Detail string
	Err    error
}

func (e *ExpandError) Error() string { return "expand_failed: " + e.Err.Error() }
func (e *ExpandError) Unwrap() error { return e.Err }

// JobEnqueuer hands a brand profile job to the background worker.
type JobEnqueuer interface {
	EnqueueBrandProfile(ctx context.Context, jobID int64) error
}

type GenerationService interface {
	Generate(ctx context.Context, userID int64, intent string) (*transfer.GenerateResult, error)
	QueueProfile(ctx context.Context, userID int64, req *transfer.BrandProfileQueueRequest) (int64, error)
	BuildProfile(ctx context.Context, jobID int64) error
}

type generationService struct {
	expanderURL string
	useImages   bool
	u           repository.UserRepository
	a           repository.BrandAssetRepository
	b           repository.BrandRepository
	storage     StorageService
	ai          AIService
	enqueuer    JobEnqueuer
	hc          *http.Client
}

func NewGenerationService(
	expanderURL string,
	useImages bool,
	u repository.UserRepository,
	a repository.BrandAssetRepository,
	b repository.BrandRepository,
	storage StorageService,
	ai AIService,
	enqueuer JobEnqueuer) GenerationService {
	return &generationService{
		expanderURL: expanderURL,
		useImages:   useImages,
		u:           u,
		a:           a,
		b:           b,
		storage:     storage,
		ai:          ai,
		enqueuer:    enqueuer,
		hc:          &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *generationService) Generate(ctx context.Context, userID int64, intent string) (*transfer.GenerateResult, error) {
	if intent == "" {
		return nil, invalid("Missing intent")
	}

	imageURLs, err := s.presignUserImages(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	hint, err := s.profileHint(ctx, userID)
	if err != nil {
		return nil, err
	}

	expanded, err := s.expand(ctx, &transfer.ExpandRequest{
		Intent:           intent,
		ImageURLs:        imageURLs,
		BrandProfileHint: hint,
		BrandHex:         brandHex(hint),
	})
	if err != nil {
		return nil, err
	}

	if err := s.b.UpsertProfile(ctx, userID, expanded.Profile); err != nil {
		return nil, fmt.Errorf("failed to save brand profile: %w", err)
	}

	result := &transfer.GenerateResult{
		Profile:  expanded.Profile,
		Expanded: expanded.Expanded,
		PerImage: expanded.PerImage,
	}

	generation := &models.BrandGeneration{
		UserID:         userID,
		Intent:         intent,
		ExpandedPrompt: expanded.Expanded,
		Profile:        expanded.Profile,
		PerImage:       expanded.PerImage,
		Provider:       "expander",
	}

	if s.useImages {
		key, url, err := s.renderImage(ctx, expanded.Expanded)
		if err != nil {
			slog.Error("image generation failed", "user_id", userID, "error", err)
		} else {
			result.Key, result.OutputURL = key, url
			generation.Key, generation.OutputURL = key, url
			generation.Provider = "imagen-4"
			generation.Model = s.ai.ImageModel()
		}
	}

	if _, err := s.b.CreateGeneration(ctx, generation); err != nil {
		return nil, fmt.Errorf("failed to record generation: %w", err)
	}
	return result, nil
}

func (s *generationService) renderImage(ctx context.Context, prompt string) (string, string, error) {
	jpg, err := s.ai.GenerateImage(ctx, prompt)
	if err != nil {
		return "", "", err
	}

	bucket := s.storage.GenerationsBucket()
	key := fmt.Sprintf("generated/%s.jpg", utils.SHA256Hex(jpg))
	if err := s.storage.Put(ctx, bucket, key, jpg, "image/jpeg"); err != nil {
		return "", "", err
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, assetURLTTL)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// QueueProfile records a brand profile job and hands it to the worker.
func (s *generationService) QueueProfile(ctx context.Context, userID int64, req *transfer.BrandProfileQueueRequest) (int64, error) {
	if err := s.u.SetModelStatus(ctx, userID, models.ModelStatusQueued); err != nil {
		return 0, err
	}

	jobID, err := s.b.CreateJob(ctx, &models.BrandProfileJob{
		UserID:      userID,
		ImageKeys:   req.ImageKeys,
		CaptionsKey: req.CaptionsKey,
		Status:      models.JobStatusQueued,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}

	if err := s.enqueuer.EnqueueBrandProfile(ctx, jobID); err != nil {
		s.markJobFailed(ctx, jobID, userID, err.Error())
		return 0, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return jobID, nil
}

// markJobFailed records a failed job. Write errors are logged; the caller
// already returns the original failure.
func (s *generationService) markJobFailed(ctx context.Context, jobID, userID int64, detail string) {
	if err := s.b.SetJobStatus(ctx, jobID, models.JobStatusFailed, detail); err != nil {
		slog.Error("failed to mark brand profile job failed", "job_id", jobID, "error", err)
	}
	if err := s.u.SetModelStatus(ctx, userID, models.ModelStatusFailed); err != nil {
		slog.Error("failed to set model status", "user_id", userID, "status", models.ModelStatusFailed, "error", err)
	}
}

// BuildProfile runs a queued job: it sends the job's assets to the expander
// and stores the returned profile.
func (s *generationService) BuildProfile(ctx context.Context, jobID int64) error {
	job, err := s.b.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return notFound(fmt.Sprintf("job %d not found", jobID))
	}
	if job.Status == models.JobStatusDone {
		return nil
	}

	if err := s.b.SetJobStatus(ctx, job.ID, models.JobStatusRunning, ""); err != nil {
		return err
	}

	if err := s.buildProfile(ctx, job); err != nil {
		slog.Error("brand profile job failed", "job_id", job.ID, "user_id", job.UserID, "error", err)
		s.markJobFailed(ctx, job.ID, job.UserID, err.Error())
		return err
	}

	if err := s.b.SetJobStatus(ctx, job.ID, models.JobStatusDone, ""); err != nil {
		return err
	}
	return s.u.SetModelStatus(ctx, job.UserID, models.ModelStatusReady)
}

func (s *generationService) buildProfile(ctx context.Context, job *models.BrandProfileJob) error {
	imageURLs, err := s.presignUserImages(ctx, job.UserID, job.ImageKeys)
	if err != nil {
		return err
	}

	var captionsURL string
	if job.CaptionsKey != "" {
		captionsURL, err = s.storage.PresignGet(ctx, s.storage.AssetsBucket(), job.CaptionsKey, assetURLTTL)
		if err != nil {
			return err
		}
	}

	hint, err := s.profileHint(ctx, job.UserID)
	if err != nil {
		return err
	}

	expanded, err := s.expand(ctx, &transfer.ExpandRequest{
		Intent:           profileIntent,
		ImageURLs:        imageURLs,
		BrandProfileHint: hint,
		BrandHex:         brandHex(hint),
		CaptionsURL:      captionsURL,
	})
	if err != nil {
		return err
	}

	return s.b.UpsertProfile(ctx, job.UserID, expanded.Profile)
}

// presignUserImages presigns the given keys, or the user's most recent image
// assets when keys is empty.
func (s *generationService) presignUserImages(ctx context.Context, userID int64, keys []string) ([]string, error) {
	if len(keys) == 0 {
		assets, err := s.a.ListByUserID(ctx, userID, models.AssetTypeImage, maxProfileImages)
		if err != nil {
			return nil, err
		}
		keys = lo.Map(assets, func(a *models.BrandAsset, _ int) string { return a.Key })
	}

	keys = lo.Compact(keys)
	if len(keys) > maxProfileImages {
		keys = keys[:maxProfileImages]
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.storage.PresignGet(ctx, s.storage.AssetsBucket(), key, assetURLTTL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *generationService) profileHint(ctx context.Context, userID int64) (json.RawMessage, error) {
	profile, err := s.b.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	return profile.Profile, nil
}

func (s *generationService) expand(ctx context.Context, req *transfer.ExpandRequest) (*transfer.ExpandResponse, error) {
	var (
		resp    transfer.ExpandResponse
		errBody string
	)
	err := requests.URL(s.expanderURL).
		Client(s.hc).
		BodyJSON(req).
		AddValidator(func(res *http.Response) error {
			if res.StatusCode >= 200 && res.StatusCode < 300 {
				return nil
			}
			b, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
			errBody = string(b)
			return fmt.Errorf("expander returned %s", res.Status)
		}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExpandError{Detail: errBody, Err: err}
	}
	return &resp, nil
}

// brandHex reads primaryColorHex from a stored profile, if any.
func brandHex(profile json.RawMessage) *string {
	if len(profile) == 0 {
		return nil
	}
	var p struct {
		PrimaryColorHex string `json:"primaryColorHex"`
	}
	if err := json.Unmarshal(profile, &p); err != nil || p.PrimaryColorHex == "" {
		return nil
	}
	return &p.PrimaryColorHex
}
