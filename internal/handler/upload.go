package handler

import (
	"errors"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

var errCVTooLarge = apperror.ValidationFields("Invalid CV", map[string]string{cvFormField: "file is too large"})

// UploadLimit caps the request body like echo's BodyLimit (limit is e.g.
// "6M"), but an oversized upload is reported as a CV validation error.
func UploadLimit(limit string) echo.MiddlewareFunc {
	bodyLimit := echomiddleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := bodyLimit(next)
		return func(c echo.Context) error {
			err := limited(c)
			if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return respondError(c, errCVTooLarge)
			}
			return err
		}
	}
}

// parseUpload reads the multipart form up front so a body cut off by
// UploadLimit is not mistaken for missing fields.
func parseUpload(c echo.Context) error {
	if _, err := c.MultipartForm(); err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return errCVTooLarge
		}
		return apperror.Validation("Invalid multipart form")
	}
	return nil
}
