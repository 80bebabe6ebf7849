package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// Account and application errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrAlreadyVerified     = errors.New("account already verified")
	ErrApplicationNotFound = errors.New("no application found for this email")
	ErrApplicationExists   = errors.New("an application with this email already exists")
	ErrUnknownGroup        = errors.New("unrecognized group name")
	ErrIDRangeExhausted    = errors.New("account id range exhausted for group")
	ErrGroupNotFound       = errors.New("group not found")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrInvalidStatusChange = errors.New("invalid application status transition")
	ErrApplicationNotOpen  = errors.New("application has not been approved")
)

// Scheduling errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrBatchNotFound       = errors.New("no matching batch found")
	ErrCityNotFound        = errors.New("city not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrStudentNotFound     = errors.New("student profile not found")
	ErrInstructorNotFound  = errors.New("instructor profile not found")
	ErrLocationMismatch    = errors.New("session location does not match the student's selected location")
	ErrCityMismatch        = errors.New("session city does not match the instructor's city")
	ErrDuplicateTiming     = errors.New("a session with identical timing is already assigned")
	ErrSessionOverlap      = errors.New("session overlaps with an already assigned session")
	ErrInstructorTaken     = errors.New("session already has an instructor assigned")
	ErrInvalidWeekday      = errors.New("invalid weekday index")
	ErrSessionDeleted      = errors.New("session has been deleted")
	ErrSessionCapacityFull = errors.New("session has reached its student capacity")
)

// NewNotFoundError creates a not-found error carrying a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error carrying a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewValidationError creates a validation error carrying a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewBadRequestError creates a bad-request error carrying a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// CustomError wraps a sentinel error with request-specific context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
