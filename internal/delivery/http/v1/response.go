package v1

import "github.com/gin-gonic/gin"

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	ErrorDetails []string `json:"errorDetails,omitempty"`
}

func newErrorResponse(message string, details []string) errorResponse {
	return errorResponse{
		Success:      false,
		Message:      message,
		ErrorDetails: details,
	}
}

// respond writes the success envelope. A nil data omits the field.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
