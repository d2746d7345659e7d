package transfer

import "github.com/lumenfeed/console/internal/models"

type PublishNowRequest struct {
	AccountID string `json:"account_id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
}

type PublishNowResponse struct {
	Success   bool   `json:"success"`
	MediaID   string `json:"media_id"`
	AccountID string `json:"account_id"`
}

type ScheduleItem struct {
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	PublishAt string `json:"publish_at"` // ISO-8601
}

type ScheduleRequest struct {
	AccountID string         `json:"account_id"`
	Posts     []ScheduleItem `json:"posts"`
}

type ScheduledJobRef struct {
	JobID     string `json:"job_id"`
	PublishAt string `json:"publish_at"`
}

type ScheduleResponse struct {
	Scheduled []ScheduledJobRef `json:"scheduled"`
	Count     int               `json:"count"`
}

type ScheduledPostsResponse struct {
	AccountID      string                `json:"account_id"`
	ScheduledPosts []models.ScheduledJob `json:"scheduled_posts"`
	Count          int                   `json:"count"`
}

type CancelResponse struct {
	Cancelled bool   `json:"cancelled"`
	JobID     string `json:"job_id"`
}
