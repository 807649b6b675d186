package model

import "time"

type Follow struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text;not null"`
	FollowerID string    `json:"follower_id" gorm:"uniqueIndex:idx_follow_pair;not null"`
	FolloweeID string    `json:"followee_id" gorm:"uniqueIndex:idx_follow_pair;index;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}

type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_like_pair;not null"`
	VideoID   string    `json:"video_id" gorm:"uniqueIndex:idx_like_pair;index;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

type Comment struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string     `json:"user_id" gorm:"index;not null"`
	VideoID   string     `json:"video_id" gorm:"index;not null"`
	ParentID  *string    `json:"parent_id,omitempty" gorm:"index"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"not null"`
}

const (
	ReportStatusOpen     = "open"
	ReportStatusReviewed = "reviewed"
	ReportStatusActioned = "actioned"
)

type Report struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text;not null"`
	ReporterID string    `json:"reporter_id" gorm:"index;not null"`
	VideoID    string    `json:"video_id" gorm:"index;not null"`
	Reason     string    `json:"reason" gorm:"size:30;not null"`
	Detail     string    `json:"detail" gorm:"type:text"`
	Status     string    `json:"status" gorm:"default:open;size:20;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null"`
}
