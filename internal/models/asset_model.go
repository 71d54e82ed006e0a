package models

import (
	"encoding/json"
	"time"
)

type BrandAsset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	ImageName string    `db:"image_name" json:"imageName,omitempty"`
	Mime      string    `db:"mime" json:"mime,omitempty"`
	Size      int64     `db:"size" json:"size,omitempty"`
	SHA256    string    `db:"sha256" json:"sha256,omitempty"`
	Key       string    `db:"object_key" json:"key"`
	URL       string    `db:"url" json:"url"`
	Count     int       `db:"count" json:"count,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

const (
	AssetTypeImage       = "image"
	AssetTypeCaptionsCSV = "captions_csv"
)

type BrandProfile struct {
	UserID    int64           `db:"user_id" json:"userId"`
	Profile   json.RawMessage `db:"profile" json:"profile"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type BrandGeneration struct {
	ID             int64           `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"userId"`
	Intent         string          `db:"intent" json:"intent"`
	ExpandedPrompt string          `db:"expanded_prompt" json:"expandedPrompt"`
	Profile        json.RawMessage `db:"profile" json:"profile,omitempty"`
	PerImage       json.RawMessage `db:"per_image" json:"perImage,omitempty"`
	OutputURL      string          `db:"output_url" json:"outputUrl,omitempty"`
	Key            string          `db:"object_key" json:"key,omitempty"`
	Provider       string          `db:"provider" json:"provider"`
	Model          string          `db:"model" json:"model,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

type BrandProfileJob struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"userId"`
	ImageKeys   []string  `db:"image_keys" json:"imageKeys"`
	CaptionsKey string    `db:"captions_key" json:"captionsKey,omitempty"`
	Status      string    `db:"status" json:"status"`
	Error       string    `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)
