package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carlmjohnson/requests"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

// PublishConfig is the process-wide Graph API configuration. It is loaded once
// at startup and handed to the publisher; nothing reads it from globals.
type PublishConfig struct {
	GraphAPIURL string
	BusinessID  string
	AccessToken string
	Timeout     time.Duration
}

// Publisher performs the remote publish of one post and returns the id the
// platform assigned to the published post.
type Publisher interface {
	Publish(ctx context.Context, post *models.ScheduledPost) (string, error)
}

const (
	StepCreate  = "create"
	StepPublish = "publish"
)

// maxGraphBody caps how much of a Graph response is read and kept as a
// failure detail.
const maxGraphBody = 64 << 10

// GraphError is returned when a Graph API response carries no id. The error
// text is the raw response body, since its shape is not under our control.
type GraphError struct {
	Step string
	Body string
}

func (e *GraphError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("empty response from graph api (%s step)", e.Step)
	}
	return e.Body
}

type graphPublisher struct {
	cfg PublishConfig
	hc  *http.Client
}

func NewGraphPublisher(cfg PublishConfig) Publisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &graphPublisher{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Publish runs the two-phase publish: create a media container, then publish
// it. The second call is only made when the first one yields an id. A
// container orphaned by a failing second call is left to the platform.
func (p *graphPublisher) Publish(ctx context.Context, post *models.ScheduledPost) (string, error) {
	containerID, err := p.call(ctx, StepCreate, "media", map[string]string{
		"image_url":    post.ImageURL,
		"caption":      post.Caption,
		"access_token": p.cfg.AccessToken,
	})
	if err != nil {
		return "", err
	}

	return p.call(ctx, StepPublish, "media_publish", map[string]string{
		"creation_id":  containerID,
		"access_token": p.cfg.AccessToken,
	})
}

func (p *graphPublisher) call(ctx context.Context, step, edge string, payload map[string]string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.cfg.GraphAPIURL, "/"), p.cfg.BusinessID, edge)

	var body []byte
	err := requests.URL(endpoint).
		Method(http.MethodPost).
		Client(p.hc).
		BodyJSON(payload).
		AddValidator(nil).
		Handle(func(res *http.Response) (err error) {
			body, err = io.ReadAll(io.LimitReader(res.Body, maxGraphBody))
			return err
		}).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", step, err)
	}

	id, ok := parseGraphID(body)
	if !ok {
		return "", &GraphError{Step: step, Body: failureDetail(string(body))}
	}
	return id, nil
}

// failureDetail makes a diagnostic safe to store in a TEXT column: at most
// maxGraphBody bytes, valid UTF-8 and no NUL bytes.
func failureDetail(s string) string {
	s = strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
	if len(s) > maxGraphBody {
		cut := maxGraphBody
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return strings.TrimSpace(s)
}

// parseGraphID extracts the "id" field and nothing else. Graph ids are
// strings, but a bare number is accepted too.
func parseGraphID(body []byte) (string, bool) {
	var resp struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.ID) == 0 {
		return "", false
	}

	var id transfer.GraphIDResponse
	if err := json.Unmarshal(body, &id); err == nil {
		return id.ID, id.ID != ""
	}

	var n json.Number
	if err := json.Unmarshal(resp.ID, &n); err == nil && n.String() != "" {
		return n.String(), true
	}
	return "", false
}
