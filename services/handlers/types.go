package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
)

// parseBody decodes the request body into v. A body that fails to decode is
// the client's fault, so it surfaces as a 400 validation error rather than
// leaking the decoder failure as a 500.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return shared.NewValidationError([]shared.ErrorRecord{{
			Field:   "none",
			Code:    shared.CodeValidationError,
			Message: "Malformed request body",
		}})
	}
	return nil
}

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	Logout(userID, sessionID, accessToken string) error
	GoogleLogin(req dto.GoogleAuthRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	VerifyEmail(email, code string) error
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type UserServiceInterface interface {
	GetProfile(userID, viewerID string) (*dto.UserProfileResponse, error)
	Me(userID string) (*dto.MeResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
}

type VideoServiceInterface interface {
	CreateVideo(userID string, req dto.CreateVideoRequest) (*dto.VideoUploadResponse, error)
	PublishVideo(userID, videoID string) (*dto.VideoResponse, error)
	GetVideo(videoID, viewerID string) (*dto.VideoResponse, error)
	GetFeed(page, limit int, viewerID string) (*dto.FeedResponse, error)
	DeleteVideo(userID, videoID string) error
	RecordView(videoID, viewerID string, watchTime int) (*dto.ViewResponse, error)
}

type SocialServiceInterface interface {
	Follow(followerID, followeeID string) (*dto.FollowResponse, error)
	Unfollow(followerID, followeeID string) (*dto.FollowResponse, error)
	LikeVideo(userID, videoID string) (*dto.LikeResponse, error)
	UnlikeVideo(userID, videoID string) (*dto.LikeResponse, error)
	AddComment(userID, videoID string, req dto.CommentRequest) (*dto.CommentResponse, error)
	ListComments(videoID string, page, limit int) (*dto.CommentListResponse, error)
	DeleteComment(userID, commentID string) error
	ReportVideo(reporterID, videoID string, req dto.ReportRequest) (*dto.ReportResponse, error)
}
