package job

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

const CronSecretHeader = "X-Cron-Secret"

// SweepTriggerJob pings the sweep endpoint. Overlapping pings are allowed;
// the sweep itself tolerates concurrent runs.
type SweepTriggerJob struct {
	url    string
	secret string
	hc     *http.Client
}

func NewSweepTriggerJob(appURL, secret string, timeout time.Duration) *SweepTriggerJob {
	return &SweepTriggerJob{
		url:    strings.TrimRight(appURL, "/") + "/api/run-cron",
		secret: secret,
		hc:     &http.Client{Timeout: timeout},
	}
}

// Trigger is the cron entry point.
func (c *SweepTriggerJob) Trigger() {
	result, err := c.Run(context.Background())
	if err != nil {
		slog.Error("sweep trigger failed", "url", c.url, "error", err)
		return
	}
	slog.Info("sweep triggered", "published", result.Count)
}

// Run calls the sweep endpoint once. A sweep that answers with
// success=false is returned as an error carrying its message.
func (c *SweepTriggerJob) Run(ctx context.Context) (*transfer.SweepResult, error) {
	var result struct {
		transfer.SweepResult
		Error string `json:"error"`
	}

	rb := requests.URL(c.url).Client(c.hc).ToJSON(&result)
	if c.secret != "" {
		rb = rb.Header(CronSecretHeader, c.secret)
	}

	if err := rb.Fetch(ctx); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("sweep reported failure: %s", result.Error)
	}
	return &result.SweepResult, nil
}
