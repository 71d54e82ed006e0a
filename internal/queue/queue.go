package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

const (
	profileMaxRetry = 3
	profileTimeout  = 10 * time.Minute
)

// TaskEnqueuer is the part of *asynq.Client the enqueuer uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer puts brand profile jobs on the asynq queue.
type Enqueuer struct {
	client TaskEnqueuer
}

func NewEnqueuer(client TaskEnqueuer) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueBrandProfile(ctx context.Context, jobID int64) error {
	payload := BrandProfilePayload{JobID: jobID}
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeBrandProfile, taskPayload)

	_, err = e.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(profileMaxRetry),
		asynq.Timeout(profileTimeout),
	)
	if err != nil {
		return err
	}

	log.Printf("Task enqueued: %+v", payload)
	return nil
}
