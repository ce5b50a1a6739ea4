package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/validation"
)

const (
	msgInternalServerError = "Internal server error"
	msgUnauthorized        = "Unauthorized request"
	msgForbidden           = "Forbidden"
	msgInvalidToken        = "Invalid token, Please sign-in"
	msgUserAlreadyExists   = "User with this email or username already exists"
	msgUserNotFound        = "User not found"
	msgIncorrectPassword   = "Entered password is incorrect"
	msgProjectNotFound     = "Project not found"
	msgProjectNotOwned     = "Project not found or not authorized"
	msgTaskNotFound        = "Task not found"
)

type apiError struct {
	Code    int
	Message string
	Details []string
}

func newAPIError(code int, message string, details ...string) apiError {
	return apiError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func newBadRequestError(message string, details ...string) apiError {
	return newAPIError(http.StatusBadRequest, message, details...)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newInternalError(err error) apiError {
	return newAPIError(http.StatusInternalServerError, msgInternalServerError, err.Error())
}

func newValidationError(err *validation.ValidationError) apiError {
	return newBadRequestError(err.Schema+" validation error", err.Messages...)
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, newErrorResponse(err.Message, err.Details))
}

// handle adapts an error-returning handler to gin. Every error that is not
// an apiError, including a recovered panic, becomes a 500 response.
func (h *handlerImpl) handle(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				h.fail(c, fmt.Errorf("panic: %v", r))
			}
		}()

		if err := fn(c); err != nil {
			h.fail(c, err)
		}
	}
}

func (h *handlerImpl) fail(c *gin.Context, err error) {
	var apiErr apiError
	if errors.As(err, &apiErr) {
		abort(c, apiErr)
		return
	}

	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		abort(c, newValidationError(validationErr))
		return
	}

	h.logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Msg("request failed")
	abort(c, newInternalError(err))
}
