package queue

import (
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/brandpost/internal/service"
)

// Queue runs brand profile jobs handed over by the generation service.
type Queue struct {
	gs service.GenerationService
}

func NewQueue(gs service.GenerationService) *Queue {
	return &Queue{gs: gs}
}

// Register binds the task handlers to mux.
func (j *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeBrandProfile, j.HandleBrandProfileTask)
}

const TaskTypeBrandProfile = "brand:profile"

type BrandProfilePayload struct {
	JobID int64 `json:"job_id"`
}
