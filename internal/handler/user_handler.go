package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type ProfileResponse struct {
	UID         string  `json:"uid"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func toProfileResponse(p *model.UserProfile) ProfileResponse {
	return ProfileResponse{
		UID:         p.UID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// Me ensures a profile exists for the caller, creating one lazily from the
// token email on first sign-in.
func (h *UserHandler) Me(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	email, _ := c.Get("email").(string)
	p, err := h.svc.EnsureProfile(c.Request().Context(), uid, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load profile"))
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *UserHandler) GetPublic(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	p, err := h.svc.GetPublic(c.Request().Context(), uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load profile"))
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}
