package models

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PlatformCount struct {
	Platform string `json:"platform"`
	Value    int64  `json:"value"`
}
