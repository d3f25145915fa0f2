package handler

import (
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	profiles service.ProfileService
}

func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Upsert(c echo.Context) error {
	var req service.ProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	profile, err := h.profiles.Upsert(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadCV handles a multipart upload with the file in the "cv" field.
func (h *ProfileHandler) UploadCV(c echo.Context) error {
	if err := parseUpload(c); err != nil {
		return respondError(c, err)
	}
	header, err := c.FormFile(cvFormField)
	if err != nil {
		return respondError(c, apperror.ValidationFields("CV file is required", map[string]string{cvFormField: "required"}))
	}
	file, err := header.Open()
	if err != nil {
		return respondError(c, apperror.Internal("Internal server error", err))
	}
	defer closeUpload(c, file)

	profile, err := h.profiles.UploadCV(c.Request().Context(), middleware.ActorFrom(c),
		service.CVUpload{Filename: header.Filename, Content: file})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// DownloadCV streams the CV of the student whose user id is in the path.
func (h *ProfileHandler) DownloadCV(c echo.Context) error {
	userID, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	file, err := h.profiles.OpenCV(c.Request().Context(), middleware.ActorFrom(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return streamCV(c, file)
}
