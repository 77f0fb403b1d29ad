// Package handlers implements the HTTP endpoints.  Each handler is a thin
// binding and serialization layer over one application service.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/pkg/errors"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status.  Unclassified
// errors are masked as internal.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	body := errorBody{Code: string(code), Message: err.Error()}
	if status == http.StatusInternalServerError {
		body = errorBody{Code: string(errors.ErrCodeInternal), Message: "internal server error"}
	}
	c.AbortWithStatusJSON(status, body)
}

// respondValidation rejects a malformed request body or parameter.
func respondValidation(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Code:    string(errors.ErrCodeValidation),
		Message: msg,
	})
}

// pathUUID parses a UUID path parameter, rejecting the request on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondValidation(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page/page_size query parameters with bounds.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, 20
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
