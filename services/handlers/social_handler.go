package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
)

type SocialHandler struct {
	socialSvc SocialServiceInterface
}

func NewSocialHandler(socialSvc SocialServiceInterface) *SocialHandler {
	return &SocialHandler{socialSvc: socialSvc}
}

// @Summary Follow a user
// @Tags social
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID to follow"
// @Success 200 {object} shared.Response{data=dto.FollowResponse}
// @Router /api/v1/users/{userId}/follow [post]
func (h *SocialHandler) Follow(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.socialSvc.Follow(userID, c.Params("userId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Unfollow a user
// @Tags social
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID to unfollow"
// @Success 200 {object} shared.Response{data=dto.FollowResponse}
// @Router /api/v1/users/{userId}/follow [delete]
func (h *SocialHandler) Unfollow(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.socialSvc.Unfollow(userID, c.Params("userId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Like a video
// @Tags social
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.LikeResponse}
// @Router /api/v1/videos/{videoId}/like [post]
func (h *SocialHandler) Like(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.socialSvc.LikeVideo(userID, c.Params("videoId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Unlike a video
// @Tags social
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.LikeResponse}
// @Router /api/v1/videos/{videoId}/like [delete]
func (h *SocialHandler) Unlike(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.socialSvc.UnlikeVideo(userID, c.Params("videoId"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Comment on a video
// @Tags social
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param commentRequest body dto.CommentRequest true "Comment body"
// @Success 201 {object} shared.Response{data=dto.CommentResponse}
// @Router /api/v1/videos/{videoId}/comments [post]
func (h *SocialHandler) AddComment(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.socialSvc.AddComment(userID, c.Params("videoId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Comment added", resp)
}

// @Summary List comments on a video
// @Tags social
// @Produce json
// @Param videoId path string true "Video ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.CommentListResponse}
// @Router /api/v1/videos/{videoId}/comments [get]
func (h *SocialHandler) ListComments(c *fiber.Ctx) error {
	resp, err := h.socialSvc.ListComments(c.Params("videoId"), c.QueryInt("page", 0), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Delete a comment
// @Description Allowed for the comment author and the video owner
// @Tags social
// @Produce json
// @Security Bearer
// @Param commentId path string true "Comment ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/comments/{commentId} [delete]
func (h *SocialHandler) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.socialSvc.DeleteComment(userID, c.Params("commentId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Comment deleted", nil)
}

// @Summary Report a video
// @Tags social
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param reportRequest body dto.ReportRequest true "Report reason"
// @Success 201 {object} shared.Response{data=dto.ReportResponse}
// @Router /api/v1/videos/{videoId}/report [post]
func (h *SocialHandler) Report(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.socialSvc.ReportVideo(userID, c.Params("videoId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Report submitted", resp)
}
