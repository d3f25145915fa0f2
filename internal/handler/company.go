package handler

import (
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/labstack/echo/v4"
)

type CompanyHandler struct {
	companies service.CompanyService
}

func NewCompanyHandler(companies service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var req service.CompanyRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	company, err := h.companies.Create(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) Mine(c echo.Context) error {
	company, err := h.companies.Mine(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) List(c echo.Context) error {
	companies, err := h.companies.List(c.Request().Context(), middleware.ActorFrom(c), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(companies), "companies": companies})
}

// SetStatus moves a company to a new status and reports how many jobs were revoked with it.
func (h *CompanyHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return respondError(c, err)
	}
	result, err := h.companies.SetStatus(c.Request().Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
