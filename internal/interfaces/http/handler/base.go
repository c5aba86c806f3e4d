package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opticrm/backend/internal/domain/shared"
	"github.com/opticrm/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success writes a 200 response with the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error writes an error response, mapping domain errors to HTTP status codes
func (h *BaseHandler) Error(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(statusForDomainError(domainErr), dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
}

// BadRequest writes a 400 response with the given code and message
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(code, message))
}

func statusForDomainError(err *shared.DomainError) int {
	switch err.Code {
	case shared.ErrNotFound.Code:
		return http.StatusNotFound
	case shared.ErrInvalidInput.Code, shared.ErrInvalidMobile.Code:
		return http.StatusBadRequest
	case shared.ErrSearchFailed.Code:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
