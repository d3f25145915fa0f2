package handler

import (
	"math"
	"strconv"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/labstack/echo/v4"
)

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.ValidationFields("Invalid id", map[string]string{"id": "must be a positive integer"})
	}
	return uint(id), nil
}

// queryFloat parses an optional float query parameter, recording a field error.
func queryFloat(c echo.Context, name string, fields map[string]string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fields[name] = "must be a number"
		return nil
	}
	return &v
}

// queryInt parses an optional integer query parameter, recording a field error.
func queryInt(c echo.Context, name string, fields map[string]string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = "must be an integer"
		return 0
	}
	return v
}
