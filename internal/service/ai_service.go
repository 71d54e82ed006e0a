package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	config "github.com/maheshrc27/brandpost/configs"
	"google.golang.org/genai"
)

const (
	captionsPrompt = `You are a social media assistant. Look at the image and write 4 engaging, natural captions with emojis.
- Do NOT add numbers, bullets, hashtags, or explanations.
- Just output the raw captions, one per line.`

	hashtagsPrompt = `Generate 3 different sets of short, popular Instagram-style hashtags for this caption: %q.
Avoid explanations or numbering, just return clean hashtags separated by spaces in each set.`

	fallbackImagePrompt = "Simple clean 1:1 marketing image with placeholder text"
)

var (
	leadingBullet = regexp.MustCompile(`^[-*•\d.]+`)
	leadingMarker = regexp.MustCompile(`^[-*•\d.]+\s*`)
	edgeQuotes    = regexp.MustCompile(`^["“”]+|["“”]+$`)
	lineBreaks    = regexp.MustCompile(`\n+`)
)

// AIService wraps the generative models used for captions, hashtags and
// images.
type AIService interface {
	GenerateCaptions(ctx context.Context, key string) ([]string, error)
	GenerateHashtags(ctx context.Context, caption string) ([][]string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	ImageModel() string
}

type aiService struct {
	cfg     config.Gemini
	storage StorageService
	text    *genai.Client
	images  *genai.Client
}

// NewAIService creates the Gemini client from the API key and, when a
// project is configured, a Vertex AI client for Imagen.
func NewAIService(ctx context.Context, cfg config.Gemini, storage StorageService) (AIService, error) {
	s := &aiService{cfg: cfg, storage: storage}

	if cfg.APIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.text = client
	}

	if cfg.ProjectID != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
		}
		s.images = client
	}

	return s, nil
}

func (s *aiService) ImageModel() string { return s.cfg.ImageModel }

func (s *aiService) GenerateCaptions(ctx context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, invalid("Missing key")
	}
	if s.text == nil {
		return nil, errors.New("Gemini is not configured")
	}

	image, err := s.storage.Get(ctx, s.storage.GenerationsBucket(), key)
	if err != nil {
		return nil, err
	}

	mime := "image/png"
	if kind, err := filetype.Match(image); err == nil && kind != filetype.Unknown {
		mime = kind.MIME.Value
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(captionsPrompt),
			genai.NewPartFromBytes(image, mime),
		}, genai.RoleUser),
	}

	resp, err := s.text.Models.GenerateContent(ctx, s.cfg.CaptionModel, contents, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("gemini error: %w", err)
	}

	return ParseCaptions(resp.Text()), nil
}

func (s *aiService) GenerateHashtags(ctx context.Context, caption string) ([][]string, error) {
	if strings.TrimSpace(caption) == "" {
		return nil, invalid("Missing caption")
	}
	if s.text == nil {
		return nil, errors.New("Gemini is not configured")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(hashtagsPrompt, caption), genai.RoleUser),
	}

	resp, err := s.text.Models.GenerateContent(ctx, s.cfg.CaptionModel, contents, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("gemini error: %w", err)
	}

	return ParseHashtagSets(resp.Text()), nil
}

// GenerateImage renders the prompt with Imagen and returns it as a JPEG.
func (s *aiService) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if s.images == nil {
		return nil, errors.New("Vertex AI is not configured")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = fallbackImagePrompt
	}

	resp, err := s.images.Models.GenerateImages(ctx, s.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("imagen error: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, errors.New("imagen returned no image bytes")
	}

	return ToJPEG(resp.GeneratedImages[0].Image.ImageBytes)
}

// ToJPEG re-encodes any decodable image as a quality 90 JPEG.
func ToJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseCaptions splits model output into one caption per line with list
// markers, surrounding quotes and bold markup removed.
func ParseCaptions(raw string) []string {
	captions := []string{}
	for _, line := range lineBreaks.Split(raw, -1) {
		line = leadingBullet.ReplaceAllString(strings.TrimSpace(line), "")
		line = edgeQuotes.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line != "" {
			captions = append(captions, line)
		}
	}
	return captions
}

// ParseHashtagSets returns one set per output line, keeping only #tokens.
func ParseHashtagSets(raw string) [][]string {
	sets := [][]string{}
	for _, line := range lineBreaks.Split(raw, -1) {
		line = leadingMarker.ReplaceAllString(strings.TrimSpace(line), "")
		tags := []string{}
		for _, token := range strings.Fields(line) {
			if strings.HasPrefix(token, "#") {
				tags = append(tags, token)
			}
		}
		if len(tags) > 0 {
			sets = append(sets, tags)
		}
	}
	return sets
}
