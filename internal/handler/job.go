package handler

import (
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/labstack/echo/v4"
)

// JobHandler handles job listing, posting and moderation.
type JobHandler struct {
	jobs service.JobService
}

func NewJobHandler(jobs service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List handles GET /jobs?search=&location=&gpa=&salary=&jobType=&category=&status=&page=&limit=
func (h *JobHandler) List(c echo.Context) error {
	fields := make(map[string]string)
	req := service.ListJobsRequest{
		Search:   c.QueryParam("search"),
		Location: c.QueryParam("location"),
		GPA:      queryFloat(c, "gpa", fields),
		Salary:   queryFloat(c, "salary", fields),
		JobType:  c.QueryParam("jobType"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Page:     queryInt(c, "page", fields),
		Limit:    queryInt(c, "limit", fields),
	}
	if len(fields) > 0 {
		return respondError(c, apperror.ValidationFields("Invalid query parameters", fields))
	}

	page, err := h.jobs.List(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *JobHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	job, err := h.jobs.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Mine(c echo.Context) error {
	jobs, err := h.jobs.Mine(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(jobs), "jobs": jobs})
}

func (h *JobHandler) Create(c echo.Context) error {
	var req service.JobRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	job, err := h.jobs.Create(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.JobRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	job, err := h.jobs.Update(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	job, err := h.jobs.SetStatus(c.Request().Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.jobs.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Job deleted"})
}
