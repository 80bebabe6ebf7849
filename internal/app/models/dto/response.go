package dto

import "net/http"

// APIResponse is the envelope carried by every endpoint. The HTTP status code
// of the response always mirrors StatusCode.
type APIResponse struct {
	StatusCode int         `json:"status_code" example:"200"`
	Message    string      `json:"message" example:"success"`
	Data       interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a 2xx envelope.
func NewSuccessResponse(statusCode int, message string, data interface{}) APIResponse {
	return APIResponse{StatusCode: statusCode, Message: message, Data: data}
}

// NewErrorResponse builds a non-2xx envelope.
func NewErrorResponse(statusCode int, message string) APIResponse {
	return APIResponse{StatusCode: statusCode, Message: message}
}

// OK is shorthand for a 200 envelope.
func OK(message string, data interface{}) APIResponse {
	return NewSuccessResponse(http.StatusOK, message, data)
}

// Created is shorthand for a 201 envelope.
func Created(message string, data interface{}) APIResponse {
	return NewSuccessResponse(http.StatusCreated, message, data)
}
