package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the response header carrying the request identifier.
const RequestIDHeader = "X-Request-Id"

// RequestID attaches a unique identifier to every request and echoes it in
// the response headers, so individual resolutions can be correlated with
// server logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
