package transfer

import "github.com/maheshrc27/brandpost/internal/models"

type AdminStats struct {
	TotalUsers      int64                   `json:"totalUsers"`
	ScheduledPosts  int64                   `json:"scheduledPosts"`
	PublishedPosts  int64                   `json:"publishedPosts"`
	ImagesCreated   int64                   `json:"imagesCreated"`
	PostsOverTime   []*models.DailyCount    `json:"postsOverTime"`
	PostsByPlatform []*models.PlatformCount `json:"postsByPlatform"`
}

type AdminUserCreate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AdminUserUpdate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type IDRequest struct {
	ID int64 `json:"id"`
}
