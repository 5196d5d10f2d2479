package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/pkg/response"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, application.ErrIllegalState),
		errors.Is(err, ErrUpload):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError answers with the mapped status. Internal causes stay in the log.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := "internal server error"

	var appErr *application.Error
	switch {
	case errors.As(err, &appErr):
		msg = appErr.Message()
	case status != http.StatusInternalServerError:
		msg = err.Error()
	}

	_ = c.Error(err)
	c.JSON(status, response.ErrorResponse{Error: msg})
}
