package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// HandleAPIError maps a service error to the response envelope. Sentinel
// errors carry their own HTTP status; anything unrecognized is logged and
// reported as a redacted 500.
func HandleAPIError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("unhandled API error")
		message = "Internal server error"
	}

	c.JSON(status, dto.NewErrorResponse(status, message))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrPermissionNotFound),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrBatchNotFound),
		errors.Is(err, apperrors.ErrCityNotFound),
		errors.Is(err, apperrors.ErrLocationNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrInstructorNotFound):
		return http.StatusNotFound

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrApplicationExists),
		errors.Is(err, apperrors.ErrAlreadyVerified),
		errors.Is(err, apperrors.ErrInvalidStatusChange),
		errors.Is(err, apperrors.ErrDuplicateTiming),
		errors.Is(err, apperrors.ErrSessionOverlap),
		errors.Is(err, apperrors.ErrInstructorTaken),
		errors.Is(err, apperrors.ErrSessionCapacityFull),
		errors.Is(err, apperrors.ErrIDRangeExhausted):
		return http.StatusConflict

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrUnknownGroup),
		errors.Is(err, apperrors.ErrApplicationNotOpen),
		errors.Is(err, apperrors.ErrInvalidWeekday),
		errors.Is(err, apperrors.ErrLocationMismatch),
		errors.Is(err, apperrors.ErrCityMismatch),
		errors.Is(err, apperrors.ErrSessionDeleted):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
