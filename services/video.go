package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/model"
	"github.com/cliphive/clip_api/shared"
)

type VideoService struct {
	appContext.DefaultService

	sqlSvc   *SqlService
	mediaSvc *MediaService
}

const VIDEO_SVC = "video_svc"

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 50
)

func (svc VideoService) Id() string {
	return VIDEO_SVC
}

func (svc *VideoService) Configure(ctx *appContext.Context) error {
	svc.sqlSvc = ctx.Service(SQL_SVC).(*SqlService)
	svc.mediaSvc = ctx.Service(MEDIA_SVC).(*MediaService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *VideoService) Start() error {
	return nil
}

// CreateVideo registers the clip's metadata and hands back a presigned URL
// for the client to upload the raw file to.
func (svc *VideoService) CreateVideo(userID string, req dto.CreateVideoRequest) (*dto.VideoUploadResponse, error) {
	db := svc.sqlSvc.Db()

	now := time.Now()
	video := &model.Video{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Status:      model.VideoStatusProcessing,
		ObjectKey:   "",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	video.ObjectKey = VideoObjectKey(video.ID)
	video.ThumbnailKey = ThumbnailObjectKey(video.ID)

	if err := db.Create(video).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	uploadURL, err := svc.mediaSvc.PresignUpload(context.Background(), video.ObjectKey)
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	return &dto.VideoUploadResponse{
		Video:     svc.toResponse(video, "", false),
		UploadURL: uploadURL,
	}, nil
}

// PublishVideo flips a clip from processing to ready once the upload is done.
func (svc *VideoService) PublishVideo(userID, videoID string) (*dto.VideoResponse, error) {
	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, shared.NewPermissionDenied("")
	}

	err = svc.sqlSvc.Db().Model(video).
		Updates(map[string]interface{}{"status": model.VideoStatusReady, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	video.Status = model.VideoStatusReady
	resp := svc.toResponse(video, userID, false)
	return &resp, nil
}

func (svc *VideoService) GetVideo(videoID, viewerID string) (*dto.VideoResponse, error) {
	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}

	resp := svc.toResponse(video, viewerID, true)
	return &resp, nil
}

func (svc *VideoService) GetFeed(page, limit int, viewerID string) (*dto.FeedResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if page < 0 {
		page = 0
	}

	db := svc.sqlSvc.Db()

	var total int64
	db.Model(&model.Video{}).Where("status = ?", model.VideoStatusReady).Count(&total)

	var videos []model.Video
	err := db.Where("status = ?", model.VideoStatusReady).
		Order("created_at DESC").
		Offset(page * limit).Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, shared.NewInternalError(err)
	}

	resp := &dto.FeedResponse{
		Videos: make([]dto.VideoResponse, 0, len(videos)),
		Page:   page,
		Limit:  limit,
		Total:  total,
	}
	for i := range videos {
		resp.Videos = append(resp.Videos, svc.toResponse(&videos[i], viewerID, true))
	}

	return resp, nil
}

func (svc *VideoService) DeleteVideo(userID, videoID string) error {
	video, err := svc.findVideo(videoID)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		return shared.NewPermissionDenied("")
	}

	err = svc.sqlSvc.Db().Model(video).
		Updates(map[string]interface{}{"status": model.VideoStatusRemoved, "updated_at": time.Now()}).Error
	if err != nil {
		return shared.NewInternalError(err)
	}

	go func() {
		ctx := context.Background()
		if err := svc.mediaSvc.DeleteObject(ctx, video.ObjectKey); err != nil {
			log.WithError(err).WithField("video_id", video.ID).Warn("Failed to delete video object")
		}
		if err := svc.mediaSvc.DeleteObject(ctx, video.ThumbnailKey); err != nil {
			log.WithError(err).WithField("video_id", video.ID).Warn("Failed to delete thumbnail object")
		}
	}()

	return nil
}

// RecordView counts at most one view per viewer per clip per day. Abandoned
// playbacks still count once started; there is no rollback.
func (svc *VideoService) RecordView(videoID, viewerID string, watchTime int) (*dto.ViewResponse, error) {
	video, err := svc.findVideo(videoID)
	if err != nil {
		return nil, err
	}

	db := svc.sqlSvc.Db()

	var recent int64
	db.Model(&model.VideoView{}).
		Where("video_id = ? AND viewer_id = ? AND created_at > ?",
			video.ID, viewerID, time.Now().Add(-24*time.Hour)).
		Count(&recent)

	counted := recent == 0
	if counted {
		view := &model.VideoView{
			ID:        uuid.NewString(),
			VideoID:   video.ID,
			ViewerID:  viewerID,
			WatchTime: watchTime,
			CreatedAt: time.Now(),
		}
		if err := db.Create(view).Error; err != nil {
			return nil, shared.NewInternalError(err)
		}

		err = db.Model(video).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
		if err != nil {
			return nil, shared.NewInternalError(err)
		}
		video.ViewCount++
	}

	return &dto.ViewResponse{
		VideoID:   video.ID,
		ViewCount: video.ViewCount,
		Counted:   counted,
	}, nil
}

func (svc *VideoService) findVideo(videoID string) (*model.Video, error) {
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

func (svc *VideoService) toResponse(video *model.Video, viewerID string, withURLs bool) dto.VideoResponse {
	resp := dto.VideoResponse{
		ID:           video.ID,
		UserID:       video.UserID,
		Title:        video.Title,
		Description:  video.Description,
		Duration:     video.Duration,
		Status:       video.Status,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		CommentCount: video.CommentCount,
		CreatedAt:    video.CreatedAt,
	}

	db := svc.sqlSvc.Db()

	var owner model.User
	if err := db.Select("username").First(&owner, "id = ?", video.UserID).Error; err == nil {
		resp.Username = owner.Username
	}

	if viewerID != "" {
		var liked int64
		db.Model(&model.Like{}).
			Where("user_id = ? AND video_id = ?", viewerID, video.ID).
			Count(&liked)
		resp.Liked = liked > 0
	}

	if withURLs && video.Status == model.VideoStatusReady {
		ctx := context.Background()
		if u, err := svc.mediaSvc.PresignStream(ctx, video.ObjectKey); err == nil {
			resp.StreamURL = u
		}
		if u, err := svc.mediaSvc.PresignStream(ctx, video.ThumbnailKey); err == nil {
			resp.ThumbnailURL = u
		}
	}

	return resp
}
