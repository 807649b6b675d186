package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"gorm.io/gorm"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/model"
	"github.com/cliphive/clip_api/shared"
)

type UserService struct {
	appContext.DefaultService

	sqlSvc *SqlService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *appContext.Context) error {
	svc.sqlSvc = ctx.Service(SQL_SVC).(*SqlService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	return nil
}

func (svc *UserService) GetProfile(userID, viewerID string) (*dto.UserProfileResponse, error) {
	user, err := svc.findUser(userID)
	if err != nil {
		return nil, err
	}

	profile := svc.buildProfile(user, viewerID)
	return &profile, nil
}

func (svc *UserService) Me(userID string) (*dto.MeResponse, error) {
	user, err := svc.findUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.MeResponse{
		Profile: svc.buildProfile(user, userID),
		Email:   user.Email,
		Role:    user.Role,
	}, nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.findUser(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
		user.AvatarURL = *req.AvatarURL
	}

	if err := svc.sqlSvc.Db().Model(user).Updates(updates).Error; err != nil {
		return nil, shared.NewInternalError(err)
	}

	profile := svc.buildProfile(user, userID)
	return &profile, nil
}

func (svc *UserService) findUser(userID string) (*model.User, error) {
	var user model.User
	err := svc.sqlSvc.Db().First(&user, "id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, shared.NewNotFound("User not found")
	}
	if err != nil {
		return nil, shared.NewInternalError(err)
	}
	return &user, nil
}

func (svc *UserService) buildProfile(user *model.User, viewerID string) dto.UserProfileResponse {
	db := svc.sqlSvc.Db()

	profile := dto.UserProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}

	db.Model(&model.Video{}).
		Where("user_id = ? AND status = ?", user.ID, model.VideoStatusReady).
		Count(&profile.VideoCount)
	db.Model(&model.Follow{}).Where("followee_id = ?", user.ID).Count(&profile.FollowerCount)
	db.Model(&model.Follow{}).Where("follower_id = ?", user.ID).Count(&profile.FollowingCount)

	if viewerID != "" && viewerID != user.ID {
		var following int64
		db.Model(&model.Follow{}).
			Where("follower_id = ? AND followee_id = ?", viewerID, user.ID).
			Count(&following)
		profile.Following = following > 0
	}

	return profile
}
