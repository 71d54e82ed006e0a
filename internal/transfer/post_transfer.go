package transfer

type ScheduleRequest struct {
	ImageURL    string   `json:"imageUrl"`
	ImageKey    string   `json:"imageKey"`
	Caption     string   `json:"caption"`
	ScheduledAt string   `json:"scheduledAt"`
	Platform    string   `json:"platform"`
	Hashtags    []string `json:"hashtags"`
}

// SweepResult is the report of one sweep. Per-post failures are recorded on
// the posts themselves and are not reflected here.
type SweepResult struct {
	Success   bool    `json:"success"`
	Published []int64 `json:"published"`
	Count     int     `json:"count"`
}

type SuggestedTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}
