package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const cvFormField = "cv"

type ApplicationHandler struct {
	applications service.ApplicationService
}

func NewApplicationHandler(applications service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Apply accepts either a JSON body or a multipart form with an optional "cv" file.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req service.ApplyRequest
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		if err := parseUpload(c); err != nil {
			return respondError(c, err)
		}
		jobID, err := strconv.ParseUint(c.FormValue("job_id"), 10, 64)
		if err != nil {
			return respondError(c, apperror.ValidationFields("Invalid application", map[string]string{
				"job_id": "must be a positive integer",
			}))
		}
		req.JobID = uint(jobID)
		req.CoverLetter = c.FormValue("cover_letter")
		if err := c.Validate(&req); err != nil {
			return respondError(c, err)
		}

		header, err := c.FormFile(cvFormField)
		if err != nil && err != http.ErrMissingFile {
			return respondError(c, apperror.Validation("Invalid CV upload"))
		}
		if header != nil {
			file, err := header.Open()
			if err != nil {
				return respondError(c, apperror.Internal("Internal server error", err))
			}
			defer closeUpload(c, file)
			req.CV = &service.CVUpload{Filename: header.Filename, Content: file}
		}
	} else if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}

	application, err := h.applications.Apply(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, application)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	applications, err := h.applications.List(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(applications), "applications": applications})
}

func (h *ApplicationHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	application, err := h.applications.SetStatus(c.Request().Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, application)
}

// DownloadCV streams the CV attached to an application.
func (h *ApplicationHandler) DownloadCV(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	file, err := h.applications.OpenCV(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return streamCV(c, file)
}

func streamCV(c echo.Context, file *service.CVFile) error {
	defer file.Content.Close()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Stream(http.StatusOK, file.MIME, file.Content)
}

func closeUpload(c echo.Context, file multipart.File) {
	if err := file.Close(); err != nil {
		logger.FromEcho(c).Warn("Failed to close uploaded file", zap.Error(err))
	}
}
