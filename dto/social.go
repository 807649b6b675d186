package dto

import "time"

type CommentRequest struct {
	Body     string  `json:"body" validate:"required,min=1,max=500"`
	ParentID *string `json:"parent_id,omitempty"`
}

func (r CommentRequest) Validate() error {
	return validate.Struct(r)
}

type CommentResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int64             `json:"total"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"required,oneof=spam abuse nudity violence other"`
	Detail string `json:"detail" validate:"max=1000"`
}

func (r ReportRequest) Validate() error {
	return validate.Struct(r)
}

type ReportResponse struct {
	ID      string `json:"id"`
	VideoID string `json:"video_id"`
	Reason  string `json:"reason"`
	Status  string `json:"status"`
}

type FollowResponse struct {
	FolloweeID string `json:"followee_id"`
	Following  bool   `json:"following"`
}

type LikeResponse struct {
	VideoID   string `json:"video_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}
