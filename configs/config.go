package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Wasabi struct {
	Region            string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	BucketAssets      string
	BucketGenerations string
}

type Instagram struct {
	BusinessID         string
	SystemUserToken    string
	GraphAPIURL        string
	PublishTimeout     time.Duration
	PublishConcurrency int
}

type Gemini struct {
	APIKey       string
	CaptionModel string
	UseImages    bool
	ProjectID    string
	Location     string
	ImageModel   string
}

type Config struct {
	Port                string
	AppURL              string
	FrontendURL         string
	PostgresURI         string
	RedisURI            string
	SecretKey           string
	CookieName          string
	SessionTTL          time.Duration
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURI   string
	FacebookAppID       string
	FacebookAppSecret   string
	FacebookRedirectURI string
	Instagram           Instagram
	CronEnabled         bool
	CronSchedule        string
	CronSecret          string
	Wasabi              Wasabi
	Gemini              Gemini
	ExpanderURL         string
}

func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "3000"),
		AppURL:              getEnv("APP_URL", "http://localhost:3000"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", "localhost:6379"),
		SecretKey:           getEnv("SECRET_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", "brandpost_session"),
		SessionTTL:          cast.ToDuration(getEnv("SESSION_TTL", "24h")),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:   getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		FacebookAppID:       getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
		FacebookRedirectURI: getEnv("FACEBOOK_REDIRECT_URI", ""),
		Instagram: Instagram{
			BusinessID:         getEnv("INSTAGRAM_BUSINESS_ID", ""),
			SystemUserToken:    getEnv("FACEBOOK_SYSTEM_USER_TOKEN", ""),
			GraphAPIURL:        getEnv("GRAPH_API_URL", "https://graph.facebook.com/v21.0"),
			PublishTimeout:     cast.ToDuration(getEnv("PUBLISH_TIMEOUT", "30s")),
			PublishConcurrency: cast.ToInt(getEnv("PUBLISH_CONCURRENCY", "4")),
		},
		CronEnabled:  cast.ToBool(getEnv("CRON_ENABLED", "true")),
		CronSchedule: getEnv("CRON_SCHEDULE", "@every 1m"),
		CronSecret:   getEnv("CRON_SECRET", ""),
		Wasabi: Wasabi{
			Region:            getEnv("WASABI_REGION", ""),
			Endpoint:          getEnv("WASABI_ENDPOINT", ""),
			AccessKey:         getEnv("WASABI_ACCESS_KEY_ID", ""),
			SecretKey:         getEnv("WASABI_SECRET_ACCESS_KEY", ""),
			BucketAssets:      getEnv("WASABI_BUCKET_ASSETS", ""),
			BucketGenerations: getEnv("WASABI_BUCKET_GENERATIONS", getEnv("WASABI_BUCKET_ASSETS", "")),
		},
		Gemini: Gemini{
			APIKey:       getEnv("GEMINI_API_KEY", ""),
			CaptionModel: getEnv("GEMINI_CAPTION_MODEL", "gemini-1.5-flash"),
			UseImages:    cast.ToBool(getEnv("USE_GEMINI_IMAGES", "false")),
			ProjectID:    getEnv("GOOGLE_PROJECT_ID", ""),
			Location:     getEnv("GOOGLE_LOCATION", "us-central1"),
			ImageModel:   getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		},
		ExpanderURL: getEnv("EXPANDER_URL", "http://127.0.0.1:8000/expand"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
