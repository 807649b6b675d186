package dto

import "time"

type CreateVideoRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=150"`
	Description string `json:"description" validate:"max=2000"`
	Duration    int    `json:"duration" validate:"min=0,max=600"`
}

func (r CreateVideoRequest) Validate() error {
	return validate.Struct(r)
}

type VideoResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StreamURL    string    `json:"stream_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     int       `json:"duration"`
	Status       string    `json:"status"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	Liked        bool      `json:"liked"`
	CreatedAt    time.Time `json:"created_at"`
}

type VideoUploadResponse struct {
	Video     VideoResponse `json:"video"`
	UploadURL string        `json:"upload_url,omitempty"`
}

type FeedRequest struct {
	Page  int `json:"page" validate:"min=0"`
	Limit int `json:"limit" validate:"min=0,max=50"`
}

type FeedResponse struct {
	Videos []VideoResponse `json:"videos"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Total  int64           `json:"total"`
}

type ViewRequest struct {
	WatchTime int `json:"watch_time" validate:"min=0,max=600"`
}

func (r ViewRequest) Validate() error {
	return validate.Struct(r)
}

type ViewResponse struct {
	VideoID   string `json:"video_id"`
	ViewCount int64  `json:"view_count"`
	Counted   bool   `json:"counted"`
}
