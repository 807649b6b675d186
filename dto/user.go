package dto

import "time"

type UserProfileResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	VideoCount     int64     `json:"video_count"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	Following      bool      `json:"following"`
	CreatedAt      time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

func (r UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}

type MeResponse struct {
	Profile UserProfileResponse `json:"profile"`
	Email   string              `json:"email"`
	Role    string              `json:"role"`
}
