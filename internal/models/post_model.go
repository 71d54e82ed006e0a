package models

import "time"

// ScheduledPost is a post waiting for, or finished with, its publish sweep.
// Status moves from pending to published or failed exactly once.
type ScheduledPost struct {
	ID             int64      `db:"id" json:"id"`
	UserID         *int64     `db:"user_id" json:"userId,omitempty"`
	ImageURL       string     `db:"image_url" json:"imageUrl"`
	ImageKey       string     `db:"image_key" json:"imageKey,omitempty"`
	Caption        string     `db:"caption" json:"caption"`
	Hashtags       []string   `db:"hashtags" json:"hashtags"`
	Platform       string     `db:"platform" json:"platform"`
	ScheduledAt    time.Time  `db:"scheduled_at" json:"scheduledAt"`
	Status         string     `db:"status" json:"status"`
	PlatformPostID string     `db:"platform_post_id" json:"platformPostId,omitempty"`
	Error          string     `db:"error" json:"error,omitempty"`
	PublishedAt    *time.Time `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// IsDue reports whether the post may be handed to the publisher at now.
func (p *ScheduledPost) IsDue(now time.Time) bool {
	return p.Status == PostStatusPending && !p.ScheduledAt.After(now)
}

const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformLinkedIn  = "linkedin"
)
