package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/model"
	"github.com/cliphive/clip_api/shared"
)

type SocialService struct {
	appContext.DefaultService

	sqlSvc *SqlService
}

const SOCIAL_SVC = "social_svc"

func (svc SocialService) Id() string {
	return SOCIAL_SVC
}

func (svc *SocialService) Configure(ctx *appContext.Context) error {
	svc.sqlSvc = ctx.Service(SQL_SVC).(*SqlService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SocialService) Start() error {
	return nil
}

// ==================== FOLLOWS ====================

func (svc *SocialService) Follow(followerID, followeeID string) (*dto.FollowResponse, error) {
	if followerID == followeeID {
		return nil, shared.NewValidationError([]shared.ErrorRecord{{
			Field:   "followee_id",
			Code:    shared.CodeValidationError,
			Message: "You cannot follow yourself",
		}})
	}

	db := svc.sqlSvc.Db()

	var followee model.User
	if err := db.First(&followee, "id = ?", followeeID).Error; err != nil {
		return nil, shared.NewNotFound("User not found")
	}

	var existing int64
	db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&existing)
	if existing == 0 {
		follow := &model.Follow{
			ID:         uuid.NewString(),
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  time.Now(),
		}
		if err := db.Create(follow).Error; err != nil {
			return nil, shared.NewInternalError(err)
		}
	}

	return &dto.FollowResponse{FolloweeID: followeeID, Following: true}, nil
}

func (svc *SocialService) Unfollow(followerID, followeeID string) (*dto.FollowResponse, error) {
	err := svc.sqlSvc.Db().
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	return &dto.FollowResponse{FolloweeID: followeeID, Following: false}, nil
}

// ==================== LIKES ====================

func (svc *SocialService) LikeVideo(userID, videoID string) (*dto.LikeResponse, error) {
	db := svc.sqlSvc.Db()

	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}

	var existing int64
	db.Model(&model.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&existing)
	if existing == 0 {
		like := &model.Like{
			ID:        uuid.NewString(),
			UserID:    userID,
			VideoID:   videoID,
			CreatedAt: time.Now(),
		}
		if err := db.Create(like).Error; err != nil {
			return nil, shared.NewInternalError(err)
		}
		if err := db.Model(video).UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return nil, shared.NewInternalError(err)
		}
		video.LikeCount++
	}

	return &dto.LikeResponse{VideoID: videoID, Liked: true, LikeCount: video.LikeCount}, nil
}

func (svc *SocialService) UnlikeVideo(userID, videoID string) (*dto.LikeResponse, error) {
	db := svc.sqlSvc.Db()

	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}

	result := db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.Like{})
	if result.Error != nil {
		return nil, shared.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		if err := db.Model(video).UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
			return nil, shared.NewInternalError(err)
		}
		video.LikeCount--
	}

	return &dto.LikeResponse{VideoID: videoID, Liked: false, LikeCount: video.LikeCount}, nil
}

// ==================== COMMENTS ====================

func (svc *SocialService) AddComment(userID, videoID string, req dto.CommentRequest) (*dto.CommentResponse, error) {
	db := svc.sqlSvc.Db()

	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		var parent model.Comment
		err := db.Where("id = ? AND video_id = ? AND deleted_at IS NULL", *req.ParentID, videoID).
			First(&parent).Error
		if err != nil {
			return nil, shared.NewNotFound("Parent comment not found")
		}
	}

	now := time.Now()
	comment := &model.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		VideoID:   videoID,
		ParentID:  req.ParentID,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	if err := db.Model(video).UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	resp := svc.toCommentResponse(comment)
	return &resp, nil
}

func (svc *SocialService) ListComments(videoID string, page, limit int) (*dto.CommentListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if page < 0 {
		page = 0
	}

	if _, err := svc.findVideo(videoID); err != nil {
		return nil, err
	}

	db := svc.sqlSvc.Db()

	var total int64
	db.Model(&model.Comment{}).
		Where("video_id = ? AND deleted_at IS NULL", videoID).
		Count(&total)

	var comments []model.Comment
	err := db.Where("video_id = ? AND deleted_at IS NULL", videoID).
		Order("created_at DESC").
		Offset(page * limit).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	resp := &dto.CommentListResponse{
		Comments: make([]dto.CommentResponse, 0, len(comments)),
		Total:    total,
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, svc.toCommentResponse(&comments[i]))
	}

	return resp, nil
}

// DeleteComment soft-deletes. Allowed for the comment author and for the
// owner of the video it sits on.
func (svc *SocialService) DeleteComment(userID, commentID string) error {
	db := svc.sqlSvc.Db()

	var comment model.Comment
	err := db.Where("id = ? AND deleted_at IS NULL", commentID).First(&comment).Error
	if err == gorm.ErrRecordNotFound {
		return shared.NewNotFound("Comment not found")
	}
	if err != nil {
		return shared.NewInternalError(err)
	}

	if comment.UserID != userID {
		var video model.Video
		if err := db.First(&video, "id = ?", comment.VideoID).Error; err != nil || video.UserID != userID {
			return shared.NewPermissionDenied("")
		}
	}

	now := time.Now()
	if err := db.Model(&comment).Update("deleted_at", &now).Error; err != nil {
		return shared.NewInternalError(err)
	}

	return db.Model(&model.Video{}).
		Where("id = ?", comment.VideoID).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
}

// ==================== REPORTS ====================

func (svc *SocialService) ReportVideo(reporterID, videoID string, req dto.ReportRequest) (*dto.ReportResponse, error) {
	db := svc.sqlSvc.Db()

	if _, err := svc.findVideo(videoID); err != nil {
		return nil, err
	}

	// One open report per reporter per clip.
	var existing model.Report
	err := db.Where("reporter_id = ? AND video_id = ? AND status = ?",
		reporterID, videoID, model.ReportStatusOpen).
		First(&existing).Error
	if err == nil {
		return &dto.ReportResponse{
			ID:      existing.ID,
			VideoID: existing.VideoID,
			Reason:  existing.Reason,
			Status:  existing.Status,
		}, nil
	}

	now := time.Now()
	report := &model.Report{
		ID:         uuid.NewString(),
		ReporterID: reporterID,
		VideoID:    videoID,
		Reason:     req.Reason,
		Detail:     req.Detail,
		Status:     model.ReportStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(report).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	return &dto.ReportResponse{
		ID:      report.ID,
		VideoID: report.VideoID,
		Reason:  report.Reason,
		Status:  report.Status,
	}, nil
}

func (svc *SocialService) findVideo(videoID string) (*model.Video, error) {
	var video model.Video
	err := svc.sqlSvc.Db().
		Where("id = ? AND status <> ?", videoID, model.VideoStatusRemoved).
		First(&video).Error
	if err == gorm.ErrRecordNotFound {
		return nil, shared.NewNotFound("Video not found")
	}
	if err != nil {
		return nil, shared.NewInternalError(err)
	}
	return &video, nil
}

func (svc *SocialService) toCommentResponse(comment *model.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		UserID:    comment.UserID,
		ParentID:  comment.ParentID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}

	var user model.User
	if err := svc.sqlSvc.Db().Select("username").First(&user, "id = ?", comment.UserID).Error; err == nil {
		resp.Username = user.Username
	}

	return resp
}
