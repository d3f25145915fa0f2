package handler

import (
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the moderation views.
type AdminHandler struct {
	jobs   service.JobService
	audits service.AuditService
}

func NewAdminHandler(jobs service.JobService, audits service.AuditService) *AdminHandler {
	return &AdminHandler{jobs: jobs, audits: audits}
}

func (h *AdminHandler) PendingJobs(c echo.Context) error {
	jobs, err := h.jobs.Pending(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(jobs), "jobs": jobs})
}

func (h *AdminHandler) JobStats(c echo.Context) error {
	stats, err := h.jobs.Stats(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// AuditLogs handles GET /admin/audit-logs?entity=&limit=
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	fields := make(map[string]string)
	limit := queryInt(c, "limit", fields)
	if len(fields) > 0 {
		return respondError(c, apperror.ValidationFields("Invalid query parameters", fields))
	}

	logs, err := h.audits.List(c.Request().Context(), middleware.ActorFrom(c), c.QueryParam("entity"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(logs), "logs": logs})
}
