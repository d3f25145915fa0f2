package handler

import (
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return respondError(c, err)
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return respondError(c, err)
	}

	resp, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.auth.Me(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
