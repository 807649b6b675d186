package model

import "time"

const (
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusRemoved    = "removed"
)

type Video struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null;size:150"`
	Description  string    `json:"description" gorm:"type:text"`
	ObjectKey    string    `json:"-" gorm:"size:512;not null"`
	ThumbnailKey string    `json:"-" gorm:"size:512"`
	Duration     int       `json:"duration" gorm:"default:0"`
	Status       string    `json:"status" gorm:"default:processing;size:20;index"`
	ViewCount    int64     `json:"view_count" gorm:"default:0;not null"`
	LikeCount    int64     `json:"like_count" gorm:"default:0;not null"`
	CommentCount int64     `json:"comment_count" gorm:"default:0;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}

// VideoView records one playback for view counting. ViewerID is the user id
// when authenticated, otherwise the anonymous fingerprint hash.
type VideoView struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	VideoID   string    `json:"video_id" gorm:"index;not null"`
	ViewerID  string    `json:"viewer_id" gorm:"index;size:64;not null"`
	WatchTime int       `json:"watch_time" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
