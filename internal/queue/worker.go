package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/brandpost/internal/service"
)

func (j *Queue) HandleBrandProfileTask(ctx context.Context, task *asynq.Task) error {
	var payload BrandProfilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
	}

	err := j.gs.BuildProfile(ctx, payload.JobID)
	if errors.Is(err, service.ErrNotFound) {
		slog.Warn("brand profile job vanished", "job_id", payload.JobID)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}
