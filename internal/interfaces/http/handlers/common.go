// Package handlers implements the HTTP handlers of the analysis API.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status.  Unclassified
// errors are masked as internal errors.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Internal("internal server error")
	}
	status := appErr.Code.HTTPStatus()
	message := appErr.Message
	if appErr.Code == errors.CodeInternal || appErr.Code == errors.CodeUnknown {
		// Mask internals; the full error is in the server log.
		message = "internal server error"
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{Code: appErr.Code.String(), Message: message})
}

// parsePagination reads page and page_size query parameters.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}
