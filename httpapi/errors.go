package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goliatone/go-payhooks/core"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// renderError writes {success:false, error, code} using the status carried by
// the go-errors envelope. Internal failures never expose their message.
func (s *Server) renderError(c *gin.Context, err error) {
	mapped := core.MapError(err)
	status := mapped.Code
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusInternalServerError
	}
	message := strings.TrimSpace(mapped.Message)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		message = "An unexpected error occurred"
	}
	if status >= http.StatusInternalServerError {
		s.observer.Error(c.Request.Context(), "Request failed.", map[string]any{
			"code":   mapped.TextCode,
			"route":  c.FullPath(),
			"status": status,
			"error":  err.Error(),
		})
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Success: false,
		Error:   message,
		Code:    mapped.TextCode,
	})
}

func renderStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
}
