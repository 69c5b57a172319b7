package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotaguard/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// ErrorResponse sends an error response with the given status code
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    errorTypeForStatus(statusCode),
			Message: message,
		},
	})
}

// AppErrorResponse maps an error to the HTTP response. AppErrors carry their
// own status code; anything else is reported as an internal error without
// leaking details.
func AppErrorResponse(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		c.JSON(appErr.Code, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

func errorTypeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return string(errors.ErrorTypeBadRequest)
	case http.StatusNotFound:
		return string(errors.ErrorTypeNotFound)
	case http.StatusConflict:
		return string(errors.ErrorTypeConflict)
	case http.StatusTooManyRequests:
		return string(errors.ErrorTypeRateLimited)
	default:
		return string(errors.ErrorTypeInternal)
	}
}
