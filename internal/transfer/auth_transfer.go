package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OnboardingChoiceRequest struct {
	Choice string `json:"choice"`
}

type OnboardingStatus struct {
	NeedsOnboarding  bool   `json:"needsOnboarding"`
	OnboardingChoice string `json:"onboardingChoice,omitempty"`
}
