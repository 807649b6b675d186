package model

import "time"

type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Username      string     `json:"username" gorm:"uniqueIndex;not null;size:30"`
	Email         string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash  string     `json:"-" gorm:"size:255"`
	GoogleID      string     `json:"-" gorm:"index;size:64"`
	Bio           string     `json:"bio" gorm:"type:text"`
	AvatarURL     string     `json:"avatar_url" gorm:"size:512"`
	Role          string     `json:"role" gorm:"default:user;size:20"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false;not null"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"not null"`
}

type EmailVerification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"size:64;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

type RefreshSession struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string     `json:"user_id" gorm:"index;not null"`
	TokenHash string     `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ClientIP  string     `json:"client_ip" gorm:"size:45"`
	UserAgent string     `json:"user_agent" gorm:"size:512"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null"`
}
