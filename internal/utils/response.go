package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes so callers can tell a scheduling conflict
// apart from a plain validation failure at the same HTTP status.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "SCHEDULING_CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, code, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
		Code:    code,
	})
}

// BadRequest sends a 400 validation error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, CodeValidation, errorMessage)
}

// Conflict sends a 400 scheduling-conflict response, distinguishable from
// validation errors by its code.
func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, CodeConflict, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, CodeForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, CodeNotFound, errorMessage)
}

// InternalServerError sends a 500 response. Store-level detail is logged
// server-side, never surfaced to the caller.
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
}
