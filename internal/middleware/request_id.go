package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-Id"

// RequestID propagates the caller's request id, minting one when the
// header is absent, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(headerRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.Writer.Header().Get(headerRequestID)
}
