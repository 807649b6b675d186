package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// @Summary Get own account
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.MeResponse}
// @Router /api/v1/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.Me(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/users/{userId} [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	viewer, _ := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(c.Params("userId"), viewer)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateRequest body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
