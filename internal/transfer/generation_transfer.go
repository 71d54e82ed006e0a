package transfer

import "encoding/json"

type GenerateRequest struct {
	Intent string `json:"intent"`
}

type ExpandRequest struct {
	Intent           string          `json:"intent"`
	ImageURLs        []string        `json:"image_urls"`
	BrandProfileHint json.RawMessage `json:"brand_profile_hint"`
	BrandHex         *string         `json:"brand_hex"`
	CaptionsURL      string          `json:"captions_url,omitempty"`
}

type ExpandResponse struct {
	Expanded string          `json:"expanded"`
	Profile  json.RawMessage `json:"profile"`
	PerImage json.RawMessage `json:"per_image"`
}

type GenerateResult struct {
	Profile   json.RawMessage `json:"profile"`
	Expanded  string          `json:"expanded"`
	PerImage  json.RawMessage `json:"per_image"`
	OutputURL string          `json:"outputUrl,omitempty"`
	Key       string          `json:"key,omitempty"`
}

type BrandProfileQueueRequest struct {
	ImageKeys   []string `json:"imageKeys"`
	CaptionsKey string   `json:"captionsKey"`
}
