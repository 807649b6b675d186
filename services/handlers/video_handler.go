package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
	"github.com/cliphive/clip_api/throttle"
)

type VideoHandler struct {
	videoSvc VideoServiceInterface
}

func NewVideoHandler(videoSvc VideoServiceInterface) *VideoHandler {
	return &VideoHandler{videoSvc: videoSvc}
}

// @Summary Create a video
// @Description Register clip metadata and receive a presigned upload URL
// @Tags videos
// @Accept json
// @Produce json
// @Security Bearer
// @Param createRequest body dto.CreateVideoRequest true "Video metadata"
// @Success 201 {object} shared.Response{data=dto.VideoUploadResponse}
// @Router /api/v1/videos [post]
func (h *VideoHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateVideoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.videoSvc.CreateVideo(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Video created", resp)
}

// @Summary Publish a video
// @Description Mark an uploaded clip as ready for the feed
// @Tags videos
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/videos/{videoId}/publish [post]
func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.videoSvc.PublishVideo(userID, c.Params("videoId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Video published", resp)
}

// @Summary Get the video feed
// @Description Newest ready clips, paginated
// @Tags videos
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.FeedResponse}
// @Router /api/v1/videos [get]
func (h *VideoHandler) Feed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	limit := c.QueryInt("limit", 0)

	resp, err := h.videoSvc.GetFeed(page, limit, viewerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get a video
// @Description Clip metadata plus presigned stream URL
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/videos/{videoId} [get]
func (h *VideoHandler) Get(c *fiber.Ctx) error {
	resp, err := h.videoSvc.GetVideo(c.Params("videoId"), viewerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Delete a video
// @Description Remove own clip and its stored objects
// @Tags videos
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/videos/{videoId} [delete]
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.videoSvc.DeleteVideo(userID, c.Params("videoId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Video deleted", nil)
}

// @Summary Record a view
// @Description Count a playback; at most one view per viewer per clip per day
// @Tags videos
// @Accept json
// @Produce json
// @Param videoId path string true "Video ID"
// @Param viewRequest body dto.ViewRequest false "Watch time"
// @Success 200 {object} shared.Response{data=dto.ViewResponse}
// @Router /api/v1/videos/{videoId}/view [post]
func (h *VideoHandler) View(c *fiber.Ctx) error {
	var req dto.ViewRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
	}

	resp, err := h.videoSvc.RecordView(c.Params("videoId"), viewerID(c), req.WatchTime)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// viewerID identifies the caller for liked-flags and view dedup: the user id
// when authenticated, the anonymous fingerprint otherwise.
func viewerID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
		return userID
	}
	return throttle.AnonymousIdentity(c.Get(fiber.HeaderUserAgent), c.IP()).Fingerprint
}
