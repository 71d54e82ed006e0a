package models

import "time"

type User struct {
	ID               int64      `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	GoogleID         string     `db:"google_id" json:"googleId,omitempty"`
	Image            string     `db:"image" json:"image,omitempty"`
	Provider         string     `db:"provider" json:"provider"`
	Role             string     `db:"role" json:"role"`
	OnboardingChoice string     `db:"onboarding_choice" json:"onboardingChoice,omitempty"`
	OnboardingAt     *time.Time `db:"onboarding_at" json:"onboardingAt,omitempty"`
	ModelStatus      string     `db:"model_status" json:"modelStatus"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderAdminManual = "admin-manual"
)

const (
	ModelStatusNone   = "none"
	ModelStatusQueued = "queued"
	ModelStatusReady  = "ready"
	ModelStatusFailed = "failed"
)
