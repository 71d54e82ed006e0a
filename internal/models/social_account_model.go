package models

import (
	"time"
)

type SocialAccount struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"userId"`
	Platform       string     `db:"platform" json:"platform"`
	BusinessID     string     `db:"business_id" json:"businessId,omitempty"`
	AccessToken    string     `db:"access_token" json:"-"`
	Connected      bool       `db:"connected" json:"connected"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"tokenExpiresAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}
